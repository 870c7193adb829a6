package service

import (
	"BuilderCentral/internal/api/dto"
	"BuilderCentral/internal/model"
	"BuilderCentral/internal/pkg/consts"
	"BuilderCentral/internal/pkg/util"
	"BuilderCentral/internal/repository"
	"context"
	log "log/slog"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetDashboardStats(ctx context.Context, userID string) (*dto.DashboardStatsDTO, error)
	ComputeDashboard(ctx context.Context, userID string) (*dto.DashboardStatsDTO, error)
}

type dashboardServiceImpl struct {
	userRepo     repository.UserRepo
	toolRepo     repository.ToolRepo
	activityRepo repository.ActivityRepo
	cache        Cache
	cacheTTL     time.Duration
	now          func() time.Time
}

func NewDashboardService(
	userRepo repository.UserRepo,
	toolRepo repository.ToolRepo,
	activityRepo repository.ActivityRepo,
	cache Cache,
	cacheTTL time.Duration,
) DashboardService {
	return &dashboardServiceImpl{
		userRepo:     userRepo,
		toolRepo:     toolRepo,
		activityRepo: activityRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
		now:          time.Now,
	}
}

// GetDashboardStats 先读缓存，未命中时计算并回填
func (s *dashboardServiceImpl) GetDashboardStats(ctx context.Context, userID string) (*dto.DashboardStatsDTO, error) {
	key := consts.DashboardStatsKey + userID
	if s.cache != nil && s.cacheTTL > 0 {
		if cached, err := s.cache.GetValue(ctx, key); err == nil && cached != "" {
			stats := &dto.DashboardStatsDTO{}
			if err = json.Unmarshal([]byte(cached), stats); err == nil {
				return stats, nil
			}
		}
	}

	stats, err := s.ComputeDashboard(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if payload, err := json.Marshal(stats); err == nil {
			if err = s.cache.SetWithExpiration(ctx, key, payload, s.cacheTTL); err != nil {
				log.WarnContext(ctx, "cache dashboard stats failed", "err", err)
			}
		}
	}
	return stats, nil
}

func (s *dashboardServiceImpl) ComputeDashboard(ctx context.Context, userID string) (*dto.DashboardStatsDTO, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrAuthRequired
	}

	user, err := s.userRepo.GetUserByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	tools, err := s.toolRepo.GetToolsByAuthor(ctx, uid)
	if err != nil {
		return nil, err
	}
	toolIDs := make([]primitive.ObjectID, 0, len(tools))
	for _, t := range tools {
		toolIDs = append(toolIDs, t.ID)
	}

	now := s.now()
	ranges := util.GetDateRanges(now)

	// views / likes / shares 各两个窗口
	counted := []model.ActivityType{model.ActivityView, model.ActivityLike, model.ActivityShare}
	current := make([]int64, len(counted))
	previous := make([]int64, len(counted))

	g, gctx := errgroup.WithContext(ctx)
	for i, typ := range counted {
		g.Go(func() error {
			n, err := s.activityRepo.CountByTypeInRange(gctx, typ, toolIDs, ranges.Current)
			current[i] = n
			return err
		})
		g.Go(func() error {
			n, err := s.activityRepo.CountByTypeInRange(gctx, typ, toolIDs, ranges.Previous)
			previous[i] = n
			return err
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	var totalViews, totalLikes, totalShares int64
	for _, t := range tools {
		totalViews += t.Views
		totalLikes += int64(t.LikeCount())
		totalShares += t.Shares
	}

	activities, err := s.recentActivities(ctx, uid, toolIDs, now)
	if err != nil {
		return nil, err
	}

	candidates, err := s.toolRepo.FindTopByViews(ctx, consts.TrendingCandidateLimit)
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "dashboard stats computed",
		"user_tools", len(tools),
		"recent_activities", len(activities),
		"trending_candidates", len(candidates))

	return &dto.DashboardStatsDTO{
		Views:         dto.StatDTO{Total: totalViews, Trend: util.CalculateTrend(current[0], previous[0])},
		Likes:         dto.StatDTO{Total: totalLikes, Trend: util.CalculateTrend(current[1], previous[1])},
		Shares:        dto.StatDTO{Total: totalShares, Trend: util.CalculateTrend(current[2], previous[2])},
		Activities:    activities,
		TrendingTools: RankTrendingTools(candidates, ranges),
	}, nil
}

func (s *dashboardServiceImpl) recentActivities(ctx context.Context, uid primitive.ObjectID, toolIDs []primitive.ObjectID, now time.Time) ([]*dto.ActivityDTO, error) {
	recent, err := s.activityRepo.FindRecent(ctx, uid, toolIDs, consts.RecentActivityLimit)
	if err != nil {
		return nil, err
	}

	refIDs := make([]primitive.ObjectID, 0, len(recent))
	seen := make(map[primitive.ObjectID]struct{}, len(recent))
	for _, a := range recent {
		if _, ok := seen[a.ToolID]; ok {
			continue
		}
		seen[a.ToolID] = struct{}{}
		refIDs = append(refIDs, a.ToolID)
	}
	names, err := s.toolRepo.GetToolNames(ctx, refIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ActivityDTO, 0, len(recent))
	for _, a := range recent {
		out = append(out, newActivityDTO(a, model.ResolveToolRef(a.ToolID, names), now))
	}
	return out, nil
}

func newActivityDTO(a *model.Activity, ref model.ToolRef, now time.Time) *dto.ActivityDTO {
	item := &dto.ActivityDTO{
		ID:        a.ID.Hex(),
		Type:      string(a.Type),
		Message:   a.Message,
		Time:      util.FormatRelativeTime(a.Timestamp, now),
		Timestamp: a.Timestamp.UnixMilli(),
	}
	switch r := ref.(type) {
	case *model.ResolvedTool:
		item.ToolID = r.ID.Hex()
		item.ToolName = r.Name
	case model.ToolID:
		item.ToolID = r.RefID().Hex()
	}
	return item
}

// RankTrendingTools 按 viewHistory 计算环比，去掉 0，降序取前 5
func RankTrendingTools(tools []*model.Tool, ranges util.DateRanges) []*dto.TrendingToolDTO {
	ranked := make([]*dto.TrendingToolDTO, 0, len(tools))
	for _, t := range tools {
		var cur, prev int64
		for _, record := range t.ViewHistory {
			day, err := util.ParseDayKey(record.Date)
			if err != nil {
				continue
			}
			if ranges.Current.Contains(day) {
				cur += record.Count
			}
			if ranges.Previous.Contains(day) {
				prev += record.Count
			}
		}

		trend := util.CalculateTrend(cur, prev)
		if trend == 0 {
			continue
		}
		ranked = append(ranked, &dto.TrendingToolDTO{
			ID:       t.ID.Hex(),
			Name:     t.Name,
			Views:    t.Views,
			Likes:    t.LikeCount(),
			Category: t.Category(),
			Trend:    trend,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Trend > ranked[j].Trend
	})
	if len(ranked) > consts.TrendingLimit {
		ranked = ranked[:consts.TrendingLimit]
	}
	return ranked
}
