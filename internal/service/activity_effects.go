package service

import (
	"BuilderCentral/internal/model"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// effectTarget 一次活动作用的对象
type effectTarget struct {
	UserID primitive.ObjectID
	ToolID primitive.ObjectID
	Day    string
}

// activityEffect 每种活动类型对聚合数据的唯一修改
type activityEffect func(ctx context.Context, s *activityTrackerImpl, t effectTarget) error

// activityEffects comment / update 没有计数副作用
var activityEffects = map[model.ActivityType]activityEffect{
	model.ActivityView:     viewEffect,
	model.ActivityShare:    shareEffect,
	model.ActivityLike:     likeEffect,
	model.ActivityFavorite: favoriteEffect,
}

// removalEffects 取消点赞 / 取消收藏
var removalEffects = map[model.ActivityType]activityEffect{
	model.ActivityLike:     unlikeEffect,
	model.ActivityFavorite: unfavoriteEffect,
}

// viewEffect 总数与当天桶分两次更新，二者之间允许短暂不一致
func viewEffect(ctx context.Context, s *activityTrackerImpl, t effectTarget) error {
	if err := s.toolRepo.IncViews(ctx, t.ToolID); err != nil {
		return fmt.Errorf("inc views: %w", err)
	}
	if err := s.toolRepo.IncViewHistory(ctx, t.ToolID, t.Day); err != nil {
		return fmt.Errorf("inc view history: %w", err)
	}
	return nil
}

func shareEffect(ctx context.Context, s *activityTrackerImpl, t effectTarget) error {
	return s.toolRepo.IncShares(ctx, t.ToolID)
}

func likeEffect(ctx context.Context, s *activityTrackerImpl, t effectTarget) error {
	return s.toolRepo.AddLove(ctx, t.ToolID, t.UserID)
}

func favoriteEffect(ctx context.Context, s *activityTrackerImpl, t effectTarget) error {
	return s.userRepo.AddFavorite(ctx, t.UserID, t.ToolID)
}

func unlikeEffect(ctx context.Context, s *activityTrackerImpl, t effectTarget) error {
	return s.toolRepo.RemoveLove(ctx, t.ToolID, t.UserID)
}

func unfavoriteEffect(ctx context.Context, s *activityTrackerImpl, t effectTarget) error {
	return s.userRepo.RemoveFavorite(ctx, t.UserID, t.ToolID)
}

// defaultMessage 未提供 message 时按类型生成
func defaultMessage(typ model.ActivityType, userName, toolName, platform string) string {
	switch typ {
	case model.ActivityView:
		return fmt.Sprintf(`%s viewed the tool "%s"`, userName, toolName)
	case model.ActivityLike:
		return fmt.Sprintf(`%s liked the tool "%s"`, userName, toolName)
	case model.ActivityFavorite:
		return fmt.Sprintf(`%s added "%s" to favorites`, userName, toolName)
	case model.ActivityShare:
		if platform != "" {
			return fmt.Sprintf(`%s shared the tool "%s" on %s`, userName, toolName, platform)
		}
		return fmt.Sprintf(`%s shared the tool "%s"`, userName, toolName)
	case model.ActivityComment:
		return fmt.Sprintf(`%s commented on "%s"`, userName, toolName)
	case model.ActivityUpdate:
		return fmt.Sprintf(`%s updated the tool "%s"`, userName, toolName)
	}
	return fmt.Sprintf(`%s interacted with "%s"`, userName, toolName)
}

func removalMessage(typ model.ActivityType, userName, toolName string) string {
	if typ == model.ActivityFavorite {
		return fmt.Sprintf(`%s removed "%s" from favorites`, userName, toolName)
	}
	return fmt.Sprintf(`%s unliked the tool "%s"`, userName, toolName)
}
