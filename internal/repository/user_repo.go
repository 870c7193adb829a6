package repository

import (
	"BuilderCentral/internal/model"
	mongodb "BuilderCentral/internal/pkg/mongo"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepo interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	AddFavorite(ctx context.Context, userID, toolID primitive.ObjectID) error
	RemoveFavorite(ctx context.Context, userID, toolID primitive.ObjectID) error
	PullFavoriteFromAll(ctx context.Context, toolIDs []primitive.ObjectID) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

type UserRepoImpl struct {
	col *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepo {
	return &UserRepoImpl{col: db.Collection(mongodb.UserCollection)}
}

func (s *UserRepoImpl) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	user := &model.User{}
	if err := s.col.FindOne(ctx, filter).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *UserRepoImpl) GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *UserRepoImpl) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserRepoImpl) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	users := make([]*model.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}
	user.CreatedAt, user.UpdatedAt = now, now

	if _, err := s.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (s *UserRepoImpl) UpdateProfile(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()
	_, err := s.col.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"name":      user.Name,
		"bio":       user.Bio,
		"avatar":    user.Avatar,
		"updatedAt": user.UpdatedAt,
	}})
	return err
}

func (s *UserRepoImpl) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password":  hash,
		"updatedAt": time.Now(),
	}})
	return err
}

// AddFavorite $addToSet 保证同一工具只收藏一次
func (s *UserRepoImpl) AddFavorite(ctx context.Context, userID, toolID primitive.ObjectID) error {
	_, err := s.col.UpdateByID(ctx, userID, bson.M{"$addToSet": bson.M{"favorites": toolID}})
	return err
}

func (s *UserRepoImpl) RemoveFavorite(ctx context.Context, userID, toolID primitive.ObjectID) error {
	_, err := s.col.UpdateByID(ctx, userID, bson.M{"$pull": bson.M{"favorites": toolID}})
	return err
}

// PullFavoriteFromAll 工具删除后清理所有用户的收藏
func (s *UserRepoImpl) PullFavoriteFromAll(ctx context.Context, toolIDs []primitive.ObjectID) error {
	if len(toolIDs) == 0 {
		return nil
	}
	_, err := s.col.UpdateMany(ctx,
		bson.M{"favorites": bson.M{"$in": toolIDs}},
		bson.M{"$pull": bson.M{"favorites": bson.M{"$in": toolIDs}}},
	)
	return err
}

func (s *UserRepoImpl) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
