package es

import (
	"BuilderCentral/internal/model"
	"time"
)

// ToolES 写入 ES 的工具文档
type ToolES struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
	Technology       string    `json:"technology"`
	Tags             []string  `json:"tags"`
	AuthorID         string    `json:"author_id"`
	Views            int64     `json:"views"`
	Likes            int       `json:"likes"`
	Shares           int64     `json:"shares"`
	AverageRating    float64   `json:"average_rating"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewToolES(tool *model.Tool) *ToolES {
	tags := tool.Tags
	if tags == nil {
		tags = []string{}
	}
	return &ToolES{
		ID:               tool.ID.Hex(),
		Name:             tool.Name,
		ShortDescription: tool.ShortDescription,
		Description:      tool.Description,
		Technology:       tool.Technology,
		Tags:             tags,
		AuthorID:         tool.Author.Hex(),
		Views:            tool.Views,
		Likes:            tool.LikeCount(),
		Shares:           tool.Shares,
		AverageRating:    tool.AverageRating,
		CreatedAt:        tool.CreatedAt,
		UpdatedAt:        tool.UpdatedAt,
	}
}
