package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityType 活动类型（封闭枚举）
type ActivityType string

const (
	ActivityView     ActivityType = "view"
	ActivityLike     ActivityType = "like"
	ActivityFavorite ActivityType = "favorite"
	ActivityShare    ActivityType = "share"
	ActivityComment  ActivityType = "comment"
	ActivityUpdate   ActivityType = "update"
)

// ActivityTypes 全部合法类型
var ActivityTypes = []ActivityType{
	ActivityView, ActivityLike, ActivityFavorite, ActivityShare, ActivityComment, ActivityUpdate,
}

// Valid 是否为合法类型
func (t ActivityType) Valid() bool {
	for _, v := range ActivityTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Activity 活动日志，只追加不修改
type Activity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	ToolID    primitive.ObjectID `bson:"toolId"`
	Type      ActivityType       `bson:"type"`
	Message   string             `bson:"message"`
	Timestamp time.Time          `bson:"timestamp"`
}
