package service

import (
	"BuilderCentral/internal/api/dto"
	"BuilderCentral/internal/model"
	"BuilderCentral/internal/pkg/consts"
	"BuilderCentral/internal/pkg/es"
	"BuilderCentral/internal/pkg/security"
	"BuilderCentral/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterDTO) (*dto.AuthResultDTO, error)
	Login(ctx context.Context, req *dto.LoginDTO) (*dto.AuthResultDTO, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, userID string) (*dto.ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileDTO) (*dto.ProfileDTO, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordDTO) error
	DeleteAccount(ctx context.Context, userID string) error
	GetFavorites(ctx context.Context, userID string) ([]*dto.ToolDTO, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepo
	toolRepo repository.ToolRepo
	searcher es.ToolRepo
	cache    Cache
	jwt      *security.JWTManager
}

func NewUserService(
	userRepo repository.UserRepo,
	toolRepo repository.ToolRepo,
	searcher es.ToolRepo,
	cache Cache,
	jwt *security.JWTManager,
) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		toolRepo: toolRepo,
		searcher: searcher,
		cache:    cache,
		jwt:      jwt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) (*dto.AuthResultDTO, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" {
		return nil, ErrMissingFields
	}
	if len(req.Password) < 6 {
		return nil, ErrPasswordTooShort
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExist
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Name: name, Email: email, Password: hash}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserExist
		}
		return nil, err
	}

	return s.authResult(user)
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginDTO) (*dto.AuthResultDTO, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(req.Password, user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}
	return s.authResult(user)
}

func (s *userServiceImpl) authResult(user *model.User) (*dto.AuthResultDTO, error) {
	token, err := s.jwt.GenerateToken(user.ID.Hex(), user.Email, user.Name)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResultDTO{User: toUserSummary(user), Token: token}, nil
}

// Logout 签名加入黑名单，直到 token 自然过期
func (s *userServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return ErrAuthRequired
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrAuthRequired
	}

	ttl := s.jwt.Expiration()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return s.cache.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, "1", ttl)
}

func (s *userServiceImpl) loadUser(ctx context.Context, userID string) (*model.User, error) {
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
	return user, nil
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.ProfileDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tools, err := s.toolRepo.GetToolsByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	favorites, err := s.toolRepo.GetToolsByIDs(ctx, user.Favorites)
	if err != nil {
		return nil, err
	}

	profile := &dto.ProfileDTO{}
	if err = copier.CopyWithOption(profile, user, copyOption); err != nil {
		return nil, err
	}
	profile.Tools = toToolDTOs(tools, map[primitive.ObjectID]*model.User{user.ID: user})
	profile.Favorites = toToolDTOs(favorites, nil)
	return profile, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileDTO) (*dto.ProfileDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrParamInvalid
		}
		user.Name = name
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Avatar != nil {
		user.Avatar = strings.TrimSpace(*req.Avatar)
	}

	if err = s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

func (s *userServiceImpl) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordDTO) error {
	if len(req.NewPassword) < 6 {
		return ErrPasswordTooShort
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if err = security.CheckPasswordHash(req.CurrentPassword, user.Password); err != nil {
		return ErrCurrentPassword
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, hash)
}

// DeleteAccount 先删作者的工具，再删用户；活动日志保留
func (s *userServiceImpl) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	toolIDs, err := s.toolRepo.DeleteToolsByAuthor(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, id := range toolIDs {
		if err = s.searcher.DeleteTool(ctx, id.Hex()); err != nil {
			log.WarnContext(ctx, "delete tool doc failed", "tool_id", id.Hex(), "err", err)
			_ = s.cache.SAdd(ctx, consts.ToolDirtyKey, id.Hex())
		}
	}
	if err = s.userRepo.PullFavoriteFromAll(ctx, toolIDs); err != nil {
		log.WarnContext(ctx, "pull deleted tools from favorites failed", "err", err)
	}

	if err = s.userRepo.DeleteUser(ctx, user.ID); err != nil {
		return err
	}
	_ = s.cache.DeleteKey(ctx, consts.DashboardStatsKey+userID)
	return nil
}

func (s *userServiceImpl) GetFavorites(ctx context.Context, userID string) ([]*dto.ToolDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tools, err := s.toolRepo.GetToolsByIDs(ctx, user.Favorites)
	if err != nil {
		return nil, err
	}
	authors, err := loadAuthors(ctx, s.userRepo, tools)
	if err != nil {
		return nil, err
	}
	return toToolDTOs(tools, authors), nil
}

// loadAuthors 批量查询作者
func loadAuthors(ctx context.Context, userRepo repository.UserRepo, tools []*model.Tool) (map[primitive.ObjectID]*model.User, error) {
	ids := make([]primitive.ObjectID, 0, len(tools))
	seen := make(map[primitive.ObjectID]struct{}, len(tools))
	for _, t := range tools {
		if _, ok := seen[t.Author]; ok {
			continue
		}
		seen[t.Author] = struct{}{}
		ids = append(ids, t.Author)
	}

	users, err := userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	authors := make(map[primitive.ObjectID]*model.User, len(users))
	for _, u := range users {
		authors[u.ID] = u
	}
	return authors, nil
}
