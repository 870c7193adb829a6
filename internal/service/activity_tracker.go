package service

import (
	"BuilderCentral/internal/model"
	"BuilderCentral/internal/pkg/consts"
	"BuilderCentral/internal/pkg/util"
	"BuilderCentral/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackParams 一次用户行为
type TrackParams struct {
	UserID   string
	ToolID   string
	Type     model.ActivityType
	Message  string
	Platform string // 仅 share 使用
}

// ActivityTracker 维护工具计数并追加活动日志
type ActivityTracker interface {
	Track(ctx context.Context, p TrackParams) (*model.Activity, error)
	Untrack(ctx context.Context, p TrackParams) (*model.Activity, error)
	RecordAnonymousView(ctx context.Context, toolID string) error
	RecordAnonymousShare(ctx context.Context, toolID string) error
}

type activityTrackerImpl struct {
	userRepo     repository.UserRepo
	toolRepo     repository.ToolRepo
	activityRepo repository.ActivityRepo
	publisher    ActivityPublisher
	cache        Cache
	now          func() time.Time
}

func NewActivityTracker(
	userRepo repository.UserRepo,
	toolRepo repository.ToolRepo,
	activityRepo repository.ActivityRepo,
	publisher ActivityPublisher,
	cache Cache,
) ActivityTracker {
	return &activityTrackerImpl{
		userRepo:     userRepo,
		toolRepo:     toolRepo,
		activityRepo: activityRepo,
		publisher:    publisher,
		cache:        cache,
		now:          time.Now,
	}
}

// Track 校验和解析全部通过后才会修改数据
func (s *activityTrackerImpl) Track(ctx context.Context, p TrackParams) (*model.Activity, error) {
	user, tool, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	now := s.now()
	target := effectTarget{UserID: user.ID, ToolID: tool.ID, Day: util.DayKey(now)}
	if effect, ok := activityEffects[p.Type]; ok {
		if err = effect(ctx, s, target); err != nil {
			return nil, fmt.Errorf("apply %s effect: %w", p.Type, err)
		}
	}

	message := strings.TrimSpace(p.Message)
	if message == "" {
		message = defaultMessage(p.Type, user.Name, tool.Name, p.Platform)
	}
	return s.record(ctx, target, p.Type, message, now)
}

// Untrack 只支持 like / favorite，移除非成员同样会记录
func (s *activityTrackerImpl) Untrack(ctx context.Context, p TrackParams) (*model.Activity, error) {
	effect, ok := removalEffects[p.Type]
	if !ok {
		return nil, ErrParamInvalid
	}

	user, tool, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	now := s.now()
	target := effectTarget{UserID: user.ID, ToolID: tool.ID, Day: util.DayKey(now)}
	if err = effect(ctx, s, target); err != nil {
		return nil, fmt.Errorf("apply %s removal: %w", p.Type, err)
	}

	message := strings.TrimSpace(p.Message)
	if message == "" {
		message = removalMessage(p.Type, user.Name, tool.Name)
	}
	return s.record(ctx, target, p.Type, message, now)
}

// RecordAnonymousView 未登录访问：只加计数，不写活动，不去重
func (s *activityTrackerImpl) RecordAnonymousView(ctx context.Context, toolID string) error {
	id, err := primitive.ObjectIDFromHex(toolID)
	if err != nil {
		return ErrParamInvalid
	}
	if err = viewEffect(ctx, s, effectTarget{ToolID: id, Day: util.DayKey(s.now())}); err != nil {
		return err
	}
	s.markDirty(ctx, id)
	return nil
}

func (s *activityTrackerImpl) RecordAnonymousShare(ctx context.Context, toolID string) error {
	id, err := primitive.ObjectIDFromHex(toolID)
	if err != nil {
		return ErrParamInvalid
	}
	if err = shareEffect(ctx, s, effectTarget{ToolID: id}); err != nil {
		return err
	}
	s.markDirty(ctx, id)
	return nil
}

func (s *activityTrackerImpl) resolve(ctx context.Context, p TrackParams) (*model.User, *model.Tool, error) {
	userID, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil || !p.Type.Valid() {
		log.WarnContext(ctx, "track rejected", "user_id", p.UserID, "tool_id", p.ToolID, "type", p.Type)
		return nil, nil, ErrParamInvalid
	}
	toolID, err := primitive.ObjectIDFromHex(p.ToolID)
	if err != nil {
		log.WarnContext(ctx, "track rejected", "user_id", p.UserID, "tool_id", p.ToolID, "type", p.Type)
		return nil, nil, ErrParamInvalid
	}

	tool, err := s.toolRepo.GetToolByID(ctx, toolID)
	if err != nil {
		return nil, nil, err
	}
	if tool == nil {
		log.WarnContext(ctx, "track skipped, tool not found", "tool_id", p.ToolID, "type", p.Type)
		return nil, nil, ErrToolNotFound
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		log.WarnContext(ctx, "track skipped, user not found", "user_id", p.UserID, "type", p.Type)
		return nil, nil, ErrUserNotFound
	}
	return user, tool, nil
}

func (s *activityTrackerImpl) record(ctx context.Context, t effectTarget, typ model.ActivityType, message string, now time.Time) (*model.Activity, error) {
	activity := &model.Activity{
		UserID:    t.UserID,
		ToolID:    t.ToolID,
		Type:      typ,
		Message:   message,
		Timestamp: now,
	}
	if err := s.activityRepo.CreateActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("append activity: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishActivity(ctx, activity); err != nil {
			log.WarnContext(ctx, "publish activity failed", "activity_id", activity.ID.Hex(), "err", err)
			s.markDirty(ctx, t.ToolID)
		}
	}
	return activity, nil
}

// markDirty 事件无法投递时直接标记，保证索引最终会刷新
func (s *activityTrackerImpl) markDirty(ctx context.Context, toolID primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SAdd(ctx, consts.ToolDirtyKey, toolID.Hex()); err != nil {
		log.WarnContext(ctx, "mark tool dirty failed", "tool_id", toolID.Hex(), "err", err)
	}
}
