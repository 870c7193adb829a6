package kafka

import (
	"BuilderCentral/internal/model"
	"BuilderCentral/internal/pkg/consts"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityCache 消费者用到的 Redis 操作
type ActivityCache interface {
	SAdd(ctx context.Context, key string, members ...interface{}) error
	DeleteKey(ctx context.Context, keys ...string) error
}

// ToolLookup 查询工具作者
type ToolLookup interface {
	GetToolByID(ctx context.Context, id primitive.ObjectID) (*model.Tool, error)
}

// ActivityHandler 标记待重建索引的工具，并让相关仪表盘缓存失效
type ActivityHandler struct {
	cache ActivityCache
	tools ToolLookup
}

func NewActivityHandler(cache ActivityCache, tools ToolLookup) *ActivityHandler {
	return &ActivityHandler{cache: cache, tools: tools}
}

func (s *ActivityHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("activity consumer setup")
	return nil
}

func (s *ActivityHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("activity consumer cleanup")
	return nil
}

func (s *ActivityHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-activity consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-activity process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ActivityHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	activityMsg, err := ToActivityMessage(msg)
	if err != nil {
		// 格式错误的消息重试无意义
		return nil
	}

	toolID, err := activityMsg.ToolObjectID()
	if err != nil {
		log.WarnContext(ctx, "activity message with invalid tool id", "tool_id", activityMsg.ToolID)
		return nil
	}

	if err = s.cache.SAdd(ctx, consts.ToolDirtyKey, toolID.Hex()); err != nil {
		return err
	}

	keys := make([]string, 0, 2)
	if activityMsg.UserID != "" {
		keys = append(keys, consts.DashboardStatsKey+activityMsg.UserID)
	}

	tool, err := s.tools.GetToolByID(ctx, toolID)
	if err != nil {
		return err
	}
	if tool != nil && tool.Author.Hex() != activityMsg.UserID {
		keys = append(keys, consts.DashboardStatsKey+tool.Author.Hex())
	}

	return s.cache.DeleteKey(ctx, keys...)
}
