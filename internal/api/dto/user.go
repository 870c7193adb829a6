package dto

import "time"

// RegisterDTO 注册
type RegisterDTO struct {
	Name     string `json:"name" binding:"required,min=1,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginDTO 登录
type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserSummaryDTO 对外公开的用户摘要
type UserSummaryDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// AuthResultDTO 登录/注册结果
type AuthResultDTO struct {
	User  *UserSummaryDTO `json:"user"`
	Token string          `json:"token"`
}

// UpdateProfileDTO 修改资料，只更新非空字段
type UpdateProfileDTO struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=50"`
	Bio    *string `json:"bio" binding:"omitempty,max=500"`
	Avatar *string `json:"avatar" binding:"omitempty,max=2048"`
}

// ChangePasswordDTO 修改密码
type ChangePasswordDTO struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// ProfileDTO 个人主页
type ProfileDTO struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Avatar    string     `json:"avatar"`
	Bio       string     `json:"bio"`
	Tools     []*ToolDTO `json:"tools" copier:"-"`
	Favorites []*ToolDTO `json:"favorites" copier:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
