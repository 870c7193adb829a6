package model

import (
	"BuilderCentral/internal/pkg/consts"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ViewRecord 单日浏览量桶，date 为 UTC 的 YYYY-MM-DD
type ViewRecord struct {
	Date  string `bson:"date"`
	Count int64  `bson:"count"`
}

// Rating 用户评分 1-5
type Rating struct {
	UserID primitive.ObjectID `bson:"userId"`
	Rating int                `bson:"rating"`
}

// Comment 工具评论
type Comment struct {
	UserID    primitive.ObjectID `bson:"userId"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// Tool 工具文档，字段名与已有集合保持 camelCase
type Tool struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty"`
	Name             string               `bson:"name"`
	ShortDescription string               `bson:"shortDescription"`
	Description      string               `bson:"description"`
	DeployedURL      string               `bson:"deployedUrl"`
	RepositoryURL    string               `bson:"repositoryUrl,omitempty"`
	Technology       string               `bson:"technology,omitempty"`
	Tags             []string             `bson:"tags"`
	Image            string               `bson:"image"`
	Author           primitive.ObjectID   `bson:"author"`
	Ratings          []Rating             `bson:"ratings"`
	Loves            []primitive.ObjectID `bson:"loves"`
	Comments         []Comment            `bson:"comments"`
	AverageRating    float64              `bson:"averageRating"`
	Views            int64                `bson:"views"`
	Shares           int64                `bson:"shares"`
	ViewHistory      []ViewRecord         `bson:"viewHistory"`
	CreatedAt        time.Time            `bson:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt"`
}

// LikeCount loves 缺失时按空集合处理
func (t *Tool) LikeCount() int {
	return len(t.Loves)
}

// IsLovedBy 用户是否已点赞
func (t *Tool) IsLovedBy(userID primitive.ObjectID) bool {
	for _, id := range t.Loves {
		if id == userID {
			return true
		}
	}
	return false
}

// Category 取第一个标签，没有标签时归为 Other
func (t *Tool) Category() string {
	if len(t.Tags) > 0 && t.Tags[0] != "" {
		return t.Tags[0]
	}
	return consts.DefaultCategory
}

// RecalculateAverageRating 重新计算平均分
func (t *Tool) RecalculateAverageRating() {
	if len(t.Ratings) == 0 {
		t.AverageRating = 0
		return
	}
	sum := 0
	for _, r := range t.Ratings {
		sum += r.Rating
	}
	t.AverageRating = float64(sum) / float64(len(t.Ratings))
}
