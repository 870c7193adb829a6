package service

import (
	"BuilderCentral/internal/api/dto"
	"BuilderCentral/internal/model"
	"BuilderCentral/internal/pkg/consts"
	"BuilderCentral/internal/repository"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	InteractionRate    = "rate"
	InteractionLove    = "love"
	InteractionComment = "comment"

	previewCacheTTL = 6 * time.Hour
)

// ToolActionService 浏览、点赞、收藏、分享、评分与评论
type ToolActionService interface {
	ViewTool(ctx context.Context, viewerID, toolID string) (*dto.ToolDTO, error)
	LikeTool(ctx context.Context, userID, toolID string) (*dto.LikeResultDTO, error)
	UnlikeTool(ctx context.Context, userID, toolID string) (*dto.LikeResultDTO, error)
	FavoriteTool(ctx context.Context, userID, toolID string) (*dto.FavoriteResultDTO, error)
	UnfavoriteTool(ctx context.Context, userID, toolID string) (*dto.FavoriteResultDTO, error)
	ShareTool(ctx context.Context, viewerID, toolID, platform string) error
	Interact(ctx context.Context, userID, toolID string, req *dto.InteractionDTO) (*dto.ToolDTO, error)
	PreviewLink(ctx context.Context, rawURL string) (*dto.LinkPreviewDTO, error)
}

type toolActionServiceImpl struct {
	toolSvc  ToolService
	toolRepo repository.ToolRepo
	tracker  ActivityTracker
	cache    Cache
	fetcher  LinkFetcher
	now      func() time.Time
}

func NewToolActionService(
	toolSvc ToolService,
	toolRepo repository.ToolRepo,
	tracker ActivityTracker,
	cache Cache,
	fetcher LinkFetcher,
) ToolActionService {
	return &toolActionServiceImpl{
		toolSvc:  toolSvc,
		toolRepo: toolRepo,
		tracker:  tracker,
		cache:    cache,
		fetcher:  fetcher,
		now:      time.Now,
	}
}

func (s *toolActionServiceImpl) trackQuietly(ctx context.Context, p TrackParams) {
	trackQuietly(ctx, s.tracker, p)
}

// ViewTool viewerID 为空时按匿名访问计数
func (s *toolActionServiceImpl) ViewTool(ctx context.Context, viewerID, toolID string) (*dto.ToolDTO, error) {
	tool, err := s.toolSvc.GetTool(ctx, toolID)
	if err != nil {
		return nil, err
	}

	if viewerID != "" {
		s.trackQuietly(ctx, TrackParams{UserID: viewerID, ToolID: toolID, Type: model.ActivityView})
	} else if err = s.tracker.RecordAnonymousView(ctx, toolID); err != nil {
		log.WarnContext(ctx, "record anonymous view failed", "tool_id", toolID, "err", err)
	}
	return tool, nil
}

// LikeTool 已点赞时直接返回 alreadyLiked，不再记录
func (s *toolActionServiceImpl) LikeTool(ctx context.Context, userID, toolID string) (*dto.LikeResultDTO, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrAuthRequired
	}
	tool, err := loadTool(ctx, s.toolRepo, toolID)
	if err != nil {
		return nil, err
	}
	if tool.IsLovedBy(uid) {
		return &dto.LikeResultDTO{Liked: true, AlreadyLiked: true}, nil
	}

	if _, err = s.tracker.Track(ctx, TrackParams{UserID: userID, ToolID: toolID, Type: model.ActivityLike}); err != nil {
		return nil, err
	}
	return &dto.LikeResultDTO{Liked: true}, nil
}

func (s *toolActionServiceImpl) UnlikeTool(ctx context.Context, userID, toolID string) (*dto.LikeResultDTO, error) {
	if _, err := s.tracker.Untrack(ctx, TrackParams{UserID: userID, ToolID: toolID, Type: model.ActivityLike}); err != nil {
		return nil, err
	}
	return &dto.LikeResultDTO{Liked: false}, nil
}

func (s *toolActionServiceImpl) FavoriteTool(ctx context.Context, userID, toolID string) (*dto.FavoriteResultDTO, error) {
	if _, err := s.tracker.Track(ctx, TrackParams{UserID: userID, ToolID: toolID, Type: model.ActivityFavorite}); err != nil {
		return nil, err
	}
	return &dto.FavoriteResultDTO{Favorited: true}, nil
}

func (s *toolActionServiceImpl) UnfavoriteTool(ctx context.Context, userID, toolID string) (*dto.FavoriteResultDTO, error) {
	if _, err := s.tracker.Untrack(ctx, TrackParams{UserID: userID, ToolID: toolID, Type: model.ActivityFavorite}); err != nil {
		return nil, err
	}
	return &dto.FavoriteResultDTO{Favorited: false}, nil
}

// ShareTool 匿名分享只计数
func (s *toolActionServiceImpl) ShareTool(ctx context.Context, viewerID, toolID, platform string) error {
	if _, err := loadTool(ctx, s.toolRepo, toolID); err != nil {
		return err
	}

	if viewerID != "" {
		s.trackQuietly(ctx, TrackParams{
			UserID:   viewerID,
			ToolID:   toolID,
			Type:     model.ActivityShare,
			Platform: strings.TrimSpace(platform),
		})
		return nil
	}
	if err := s.tracker.RecordAnonymousShare(ctx, toolID); err != nil {
		log.WarnContext(ctx, "record anonymous share failed", "tool_id", toolID, "err", err)
	}
	return nil
}

func (s *toolActionServiceImpl) Interact(ctx context.Context, userID, toolID string, req *dto.InteractionDTO) (*dto.ToolDTO, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrAuthRequired
	}
	tool, err := loadTool(ctx, s.toolRepo, toolID)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case InteractionRate:
		if req.Rating < 1 || req.Rating > 5 {
			return nil, ErrInvalidRating
		}
		ratings := make([]model.Rating, 0, len(tool.Ratings)+1)
		for _, r := range tool.Ratings {
			if r.UserID != uid {
				ratings = append(ratings, r)
			}
		}
		tool.Ratings = append(ratings, model.Rating{UserID: uid, Rating: req.Rating})
		tool.RecalculateAverageRating()
		if err = s.toolRepo.SaveRatings(ctx, tool); err != nil {
			return nil, err
		}

	case InteractionLove:
		if tool.IsLovedBy(uid) {
			if _, err = s.UnlikeTool(ctx, userID, toolID); err != nil {
				return nil, err
			}
		} else if _, err = s.LikeTool(ctx, userID, toolID); err != nil {
			return nil, err
		}

	case InteractionComment:
		content := strings.TrimSpace(req.Comment)
		if content == "" {
			return nil, ErrEmptyComment
		}
		now := s.now()
		if err = s.toolRepo.AddComment(ctx, tool.ID, model.Comment{
			UserID:    uid,
			Content:   content,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return nil, err
		}
		s.trackQuietly(ctx, TrackParams{UserID: userID, ToolID: toolID, Type: model.ActivityComment})

	default:
		return nil, ErrInvalidAction
	}

	return s.toolSvc.GetTool(ctx, toolID)
}

// PreviewLink 结果按 URL 缓存
func (s *toolActionServiceImpl) PreviewLink(ctx context.Context, rawURL string) (*dto.LinkPreviewDTO, error) {
	sum := sha1.Sum([]byte(rawURL))
	key := consts.LinkPreviewCacheKey + hex.EncodeToString(sum[:])

	if cached, err := s.cache.GetValue(ctx, key); err == nil && cached != "" {
		result := &dto.LinkPreviewDTO{}
		if err = json.Unmarshal([]byte(cached), result); err == nil {
			return result, nil
		}
	}

	page, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		log.WarnContext(ctx, "link preview failed", "url", rawURL, "err", err)
		return nil, errors.Join(ErrPreviewUnavailable, err)
	}

	result := &dto.LinkPreviewDTO{}
	if err = copier.Copy(result, page); err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(result); err == nil {
		if err = s.cache.SetWithExpiration(ctx, key, payload, previewCacheTTL); err != nil {
			log.WarnContext(ctx, "cache link preview failed", "url", rawURL, "err", err)
		}
	}
	return result, nil
}
