package job

import (
	"BuilderCentral/internal/model"
	"BuilderCentral/internal/pkg/consts"
	"BuilderCentral/internal/pkg/es"
	"BuilderCentral/internal/pkg/logger"
	"BuilderCentral/internal/pkg/util"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	toolDirtyProcessingKey = consts.ToolDirtyKey + ":processing"
	toolIndexLockTTL       = 5 * time.Minute
)

// DirtySet 待同步工具集合的 Redis 操作
type DirtySet interface {
	Exists(ctx context.Context, key string) (bool, error)
	Rename(ctx context.Context, oldKey string, newKey string) error
	GetSet(ctx context.Context, key string) ([]string, error)
	SAdd(ctx context.Context, key string, members ...interface{}) error
	DeleteKey(ctx context.Context, keys ...string) error
	TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error)
	UnLock(ctx context.Context, key string, value interface{})
}

// ToolSource 从 Mongo 读取最新工具数据
type ToolSource interface {
	GetToolsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Tool, error)
}

// ToolIndexJob 把活动涉及的工具计数同步到搜索索引
type ToolIndexJob struct {
	dirty DirtySet
	tools ToolSource
	index es.ToolRepo
}

func NewToolIndexJob(dirty DirtySet, tools ToolSource, index es.ToolRepo) *ToolIndexJob {
	return &ToolIndexJob{dirty: dirty, tools: tools, index: index}
}

func (s *ToolIndexJob) Run() {
	traceID := "job-tool-index-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	ok, err := s.dirty.TryLock(ctx, consts.ToolIndexLock, traceID, toolIndexLockTTL, 1)
	if err != nil || !ok {
		return
	}
	defer s.dirty.UnLock(ctx, consts.ToolIndexLock, traceID)

	if _, err = s.Reindex(ctx); err != nil {
		log.ErrorContext(ctx, "tool index job failed", "err", err)
	}
}

// Reindex 处理一轮脏集合，返回成功写入索引的数量
func (s *ToolIndexJob) Reindex(ctx context.Context) (int, error) {
	// 上一轮中断留下的 processing 集合优先处理
	pending, err := s.dirty.Exists(ctx, toolDirtyProcessingKey)
	if err != nil {
		return 0, err
	}
	if !pending {
		pending, err = s.dirty.Exists(ctx, consts.ToolDirtyKey)
		if err != nil {
			return 0, err
		}
		if !pending {
			return 0, nil
		}
		if err = s.dirty.Rename(ctx, consts.ToolDirtyKey, toolDirtyProcessingKey); err != nil {
			return 0, err
		}
	}

	members, err := s.dirty.GetSet(ctx, toolDirtyProcessingKey)
	if err != nil {
		return 0, err
	}
	ids := util.StrSliceToObjectIDs(members)

	tools, err := s.tools.GetToolsByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	found := make(map[primitive.ObjectID]struct{}, len(tools))
	failed := make([]interface{}, 0)
	indexed := 0
	for _, tool := range tools {
		found[tool.ID] = struct{}{}
		if err = s.index.IndexTool(ctx, es.NewToolES(tool)); err != nil {
			log.ErrorContext(ctx, "index tool error", "tool_id", tool.ID.Hex(), "err", err)
			failed = append(failed, tool.ID.Hex())
			continue
		}
		indexed++
	}

	// 已删除的工具同步移出索引
	for _, id := range ids {
		if _, ok := found[id]; ok {
			continue
		}
		if err = s.index.DeleteTool(ctx, id.Hex()); err != nil {
			log.ErrorContext(ctx, "delete tool doc error", "tool_id", id.Hex(), "err", err)
			failed = append(failed, id.Hex())
		}
	}

	// 失败的放回脏集合，下一轮重试
	if len(failed) > 0 {
		if err = s.dirty.SAdd(ctx, consts.ToolDirtyKey, failed...); err != nil {
			return indexed, err
		}
	}

	if err = s.dirty.DeleteKey(ctx, toolDirtyProcessingKey); err != nil {
		log.ErrorContext(ctx, "delete tool processing set error", "err", err)
	}

	log.InfoContext(ctx, "sync tool index success", "dirty_count", len(ids), "indexed", indexed)
	return indexed, nil
}
