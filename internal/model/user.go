package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User 用户文档
type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	Email     string               `bson:"email"`
	Password  string               `bson:"password"`
	Avatar    string               `bson:"avatar"`
	Bio       string               `bson:"bio"`
	Favorites []primitive.ObjectID `bson:"favorites"` // 收藏的工具，元素唯一
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

// HasFavorite 是否已收藏
func (u *User) HasFavorite(toolID primitive.ObjectID) bool {
	for _, id := range u.Favorites {
		if id == toolID {
			return true
		}
	}
	return false
}
