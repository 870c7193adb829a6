package kafka

import (
	"BuilderCentral/internal/model"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityMessage 活动事件，Timestamp 为毫秒时间戳
type ActivityMessage struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	ToolID    string             `json:"toolId"`
	Type      model.ActivityType `json:"type"`
	Timestamp int64              `json:"timestamp"`
}

func NewActivityMessage(activity *model.Activity) *ActivityMessage {
	return &ActivityMessage{
		ID:        activity.ID.Hex(),
		UserID:    activity.UserID.Hex(),
		ToolID:    activity.ToolID.Hex(),
		Type:      activity.Type,
		Timestamp: activity.Timestamp.UnixMilli(),
	}
}

// ToolObjectID 解析工具 ID
func (m *ActivityMessage) ToolObjectID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(m.ToolID)
}

// ToActivityMessage 将kafka消息转换为活动事件
func ToActivityMessage(msg *sarama.ConsumerMessage) (*ActivityMessage, error) {
	var activityMsg ActivityMessage
	if err := json.Unmarshal(msg.Value, &activityMsg); err != nil {
		log.Error("unmarshal activity message error", "err", err)
		return nil, err
	}

	if activityMsg.ToolID == "" {
		return nil, errors.New("tool id is empty")
	}

	return &activityMsg, nil
}
