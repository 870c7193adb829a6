package service

import (
	"BuilderCentral/internal/api/dto"
	"BuilderCentral/internal/model"
	"BuilderCentral/internal/pkg/consts"
	"BuilderCentral/internal/pkg/es"
	"BuilderCentral/internal/pkg/util"
	"BuilderCentral/internal/repository"
	"context"
	log "log/slog"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ToolService interface {
	CreateTool(ctx context.Context, userID string, req *dto.CreateToolDTO) (*dto.ToolDTO, error)
	ListTools(ctx context.Context, query *dto.ToolListQuery) (*dto.ToolListDTO, error)
	GetUserTools(ctx context.Context, userID string) ([]*dto.ToolDTO, error)
	GetTool(ctx context.Context, toolID string) (*dto.ToolDTO, error)
	UpdateTool(ctx context.Context, userID, toolID string, req *dto.UpdateToolDTO) (*dto.ToolDTO, error)
	DeleteTool(ctx context.Context, userID, toolID string) error
}

type toolServiceImpl struct {
	toolRepo repository.ToolRepo
	userRepo repository.UserRepo
	searcher es.ToolRepo
	cache    Cache
	tracker  ActivityTracker
}

func NewToolService(
	toolRepo repository.ToolRepo,
	userRepo repository.UserRepo,
	searcher es.ToolRepo,
	cache Cache,
	tracker ActivityTracker,
) ToolService {
	return &toolServiceImpl{
		toolRepo: toolRepo,
		userRepo: userRepo,
		searcher: searcher,
		cache:    cache,
		tracker:  tracker,
	}
}

// trackQuietly 主操作已成功，记录失败只打日志
func trackQuietly(ctx context.Context, tracker ActivityTracker, p TrackParams) {
	if _, err := tracker.Track(ctx, p); err != nil {
		log.WarnContext(ctx, "track activity failed", "type", p.Type, "tool_id", p.ToolID, "err", err)
	}
}

func parseToolID(toolID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(toolID)
	if err != nil {
		return primitive.NilObjectID, ErrToolNotFound
	}
	return id, nil
}

// loadTool 不存在时返回 ErrToolNotFound
func loadTool(ctx context.Context, toolRepo repository.ToolRepo, toolID string) (*model.Tool, error) {
	id, err := parseToolID(toolID)
	if err != nil {
		return nil, err
	}
	tool, err := toolRepo.GetToolByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tool == nil {
		return nil, ErrToolNotFound
	}
	return tool, nil
}

func (s *toolServiceImpl) markDirty(ctx context.Context, toolID primitive.ObjectID) {
	if err := s.cache.SAdd(ctx, consts.ToolDirtyKey, toolID.Hex()); err != nil {
		log.WarnContext(ctx, "mark tool dirty failed", "tool_id", toolID.Hex(), "err", err)
	}
}

func (s *toolServiceImpl) CreateTool(ctx context.Context, userID string, req *dto.CreateToolDTO) (*dto.ToolDTO, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrAuthRequired
	}
	author, err := s.userRepo.GetUserByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrUserNotFound
	}

	tool := &model.Tool{
		Name:             strings.TrimSpace(req.Name),
		ShortDescription: strings.TrimSpace(req.ShortDescription),
		Description:      strings.TrimSpace(req.Description),
		DeployedURL:      strings.TrimSpace(req.DeployedURL),
		RepositoryURL:    strings.TrimSpace(req.RepositoryURL),
		Technology:       strings.TrimSpace(req.Technology),
		Tags:             util.NormalizeTags(req.Tags),
		Image:            strings.TrimSpace(req.Image),
		Author:           uid,
	}
	if tool.Name == "" || tool.ShortDescription == "" || tool.Description == "" || tool.DeployedURL == "" || tool.Image == "" {
		return nil, ErrMissingFields
	}

	if err = s.toolRepo.CreateTool(ctx, tool); err != nil {
		return nil, err
	}
	s.markDirty(ctx, tool.ID)

	return toToolDTO(tool, author), nil
}

// ListTools 关键词走 ES，ES 不可用时退回 Mongo 正则
func (s *toolServiceImpl) ListTools(ctx context.Context, query *dto.ToolListQuery) (*dto.ToolListDTO, error) {
	page, limit := query.Page, query.Limit
	if page < 1 {
		page = consts.DefaultPage
	}
	if limit < 1 {
		limit = consts.DefaultPageSize
	}
	if limit > consts.MaxPageSize {
		limit = consts.MaxPageSize
	}
	skip := (page - 1) * limit
	search := strings.TrimSpace(query.Search)

	var (
		tools []*model.Tool
		total int64
		err   error
	)
	if search != "" && s.searcher != nil {
		tools, total, err = s.searchTools(ctx, search, query.Tag, skip, limit)
		if err != nil {
			log.WarnContext(ctx, "tool search unavailable, falling back to mongo", "err", err)
		}
	}
	if tools == nil {
		tools, total, err = s.toolRepo.ListTools(ctx, repository.ToolFilter{Tag: query.Tag, Search: search}, int64(skip), int64(limit))
		if err != nil {
			return nil, err
		}
	}

	authors, err := loadAuthors(ctx, s.userRepo, tools)
	if err != nil {
		return nil, err
	}

	return &dto.ToolListDTO{
		Tools:      toToolDTOs(tools, authors),
		Total:      total,
		Page:       page,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// searchTools 按 ES 相关度顺序返回 Mongo 中的最新数据
func (s *toolServiceImpl) searchTools(ctx context.Context, keyword, tag string, skip, limit int) ([]*model.Tool, int64, error) {
	hexIDs, total, err := s.searcher.SearchTools(ctx, keyword, tag, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	ids := util.StrSliceToObjectIDs(hexIDs)

	found, err := s.toolRepo.GetToolsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[primitive.ObjectID]*model.Tool, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}

	tools := make([]*model.Tool, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			tools = append(tools, t)
		}
	}
	return tools, total, nil
}

func (s *toolServiceImpl) GetUserTools(ctx context.Context, userID string) ([]*dto.ToolDTO, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrAuthRequired
	}
	tools, err := s.toolRepo.GetToolsByAuthor(ctx, uid)
	if err != nil {
		return nil, err
	}
	authors, err := loadAuthors(ctx, s.userRepo, tools)
	if err != nil {
		return nil, err
	}
	return toToolDTOs(tools, authors), nil
}

func (s *toolServiceImpl) GetTool(ctx context.Context, toolID string) (*dto.ToolDTO, error) {
	tool, err := loadTool(ctx, s.toolRepo, toolID)
	if err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetUserByID(ctx, tool.Author)
	if err != nil {
		return nil, err
	}
	return toToolDTO(tool, author), nil
}

// authorize 只有作者可以修改或删除
func (s *toolServiceImpl) authorize(ctx context.Context, userID, toolID string) (*model.Tool, error) {
	tool, err := loadTool(ctx, s.toolRepo, toolID)
	if err != nil {
		return nil, err
	}
	if tool.Author.Hex() != userID {
		return nil, ErrForbidden
	}
	return tool, nil
}

func (s *toolServiceImpl) UpdateTool(ctx context.Context, userID, toolID string, req *dto.UpdateToolDTO) (*dto.ToolDTO, error) {
	tool, err := s.authorize(ctx, userID, toolID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tool.Name = strings.TrimSpace(*req.Name)
	}
	if req.ShortDescription != nil {
		tool.ShortDescription = strings.TrimSpace(*req.ShortDescription)
	}
	if req.Description != nil {
		tool.Description = strings.TrimSpace(*req.Description)
	}
	if req.DeployedURL != nil {
		tool.DeployedURL = strings.TrimSpace(*req.DeployedURL)
	}
	if req.RepositoryURL != nil {
		tool.RepositoryURL = strings.TrimSpace(*req.RepositoryURL)
	}
	if req.Technology != nil {
		tool.Technology = strings.TrimSpace(*req.Technology)
	}
	if req.Tags != nil {
		tool.Tags = util.NormalizeTags(*req.Tags)
	}
	if req.Image != nil {
		tool.Image = strings.TrimSpace(*req.Image)
	}
	if tool.Name == "" || tool.ShortDescription == "" || tool.Description == "" || tool.DeployedURL == "" || tool.Image == "" {
		return nil, ErrMissingFields
	}

	if err = s.toolRepo.UpdateContent(ctx, tool); err != nil {
		return nil, err
	}
	s.markDirty(ctx, tool.ID)
	trackQuietly(ctx, s.tracker, TrackParams{UserID: userID, ToolID: toolID, Type: model.ActivityUpdate})

	author, err := s.userRepo.GetUserByID(ctx, tool.Author)
	if err != nil {
		return nil, err
	}
	return toToolDTO(tool, author), nil
}

func (s *toolServiceImpl) DeleteTool(ctx context.Context, userID, toolID string) error {
	tool, err := s.authorize(ctx, userID, toolID)
	if err != nil {
		return err
	}

	if err = s.toolRepo.DeleteTool(ctx, tool.ID); err != nil {
		return err
	}
	if err = s.searcher.DeleteTool(ctx, tool.ID.Hex()); err != nil {
		// 索引任务发现工具已不存在时会删除文档
		log.WarnContext(ctx, "delete tool doc failed", "tool_id", tool.ID.Hex(), "err", err)
		s.markDirty(ctx, tool.ID)
	}
	if err = s.userRepo.PullFavoriteFromAll(ctx, []primitive.ObjectID{tool.ID}); err != nil {
		log.WarnContext(ctx, "pull deleted tool from favorites failed", "tool_id", tool.ID.Hex(), "err", err)
	}
	_ = s.cache.DeleteKey(ctx, consts.DashboardStatsKey+userID)
	return nil
}
