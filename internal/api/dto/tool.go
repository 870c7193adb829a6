package dto

import "time"

// CreateToolDTO 发布工具
type CreateToolDTO struct {
	Name             string   `json:"name" binding:"required,max=100"`
	ShortDescription string   `json:"shortDescription" binding:"required,max=200"`
	Description      string   `json:"description" binding:"required"`
	DeployedURL      string   `json:"deployedUrl" binding:"required,url"`
	RepositoryURL    string   `json:"repositoryUrl" binding:"omitempty,url"`
	Technology       string   `json:"technology" binding:"max=200"`
	Tags             []string `json:"tags" binding:"omitempty,max=10,dive,max=30"`
	Image            string   `json:"image" binding:"required"`
}

// UpdateToolDTO 修改工具，nil 字段保持不变
type UpdateToolDTO struct {
	Name             *string   `json:"name" binding:"omitempty,min=1,max=100"`
	ShortDescription *string   `json:"shortDescription" binding:"omitempty,min=1,max=200"`
	Description      *string   `json:"description" binding:"omitempty,min=1"`
	DeployedURL      *string   `json:"deployedUrl" binding:"omitempty,url"`
	RepositoryURL    *string   `json:"repositoryUrl" binding:"omitempty,url"`
	Technology       *string   `json:"technology" binding:"omitempty,max=200"`
	Tags             *[]string `json:"tags"`
	Image            *string   `json:"image" binding:"omitempty,min=1"`
}

// ToolListQuery 列表查询
type ToolListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
	Tag    string `form:"tag"`
	Search string `form:"search"`
}

// RatingDTO 评分
type RatingDTO struct {
	UserID string `json:"userId"`
	Rating int    `json:"rating"`
}

// CommentDTO 评论
type CommentDTO struct {
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToolDTO 工具详情
type ToolDTO struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ShortDescription string          `json:"shortDescription"`
	Description      string          `json:"description"`
	DeployedURL      string          `json:"deployedUrl"`
	RepositoryURL    string          `json:"repositoryUrl,omitempty"`
	Technology       string          `json:"technology,omitempty"`
	Tags             []string        `json:"tags"`
	Image            string          `json:"image"`
	Author           *UserSummaryDTO `json:"author" copier:"-"`
	Ratings          []RatingDTO     `json:"ratings" copier:"-"`
	Loves            []string        `json:"loves" copier:"-"`
	Comments         []CommentDTO    `json:"comments" copier:"-"`
	AverageRating    float64         `json:"averageRating"`
	Views            int64           `json:"views"`
	Shares           int64           `json:"shares"`
	Likes            int             `json:"likes" copier:"-"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ToolListDTO 分页列表
type ToolListDTO struct {
	Tools      []*ToolDTO `json:"tools"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
}

// ShareDTO 分享
type ShareDTO struct {
	Platform string `json:"platform" binding:"omitempty,max=30"`
}

// InteractionDTO 评分 / 喜欢切换 / 评论
type InteractionDTO struct {
	Action  string `json:"action" binding:"required"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment" binding:"max=2000"`
}

// LikeResultDTO 点赞结果
type LikeResultDTO struct {
	Liked        bool `json:"liked"`
	AlreadyLiked bool `json:"alreadyLiked"`
}

// FavoriteResultDTO 收藏结果
type FavoriteResultDTO struct {
	Favorited bool `json:"favorited"`
}
