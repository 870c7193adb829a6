package repository

import (
	"BuilderCentral/internal/model"
	mongodb "BuilderCentral/internal/pkg/mongo"
	"BuilderCentral/internal/pkg/util"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityRepo 活动日志只追加，不提供修改与删除
type ActivityRepo interface {
	CreateActivity(ctx context.Context, activity *model.Activity) error
	CountByTypeInRange(ctx context.Context, typ model.ActivityType, toolIDs []primitive.ObjectID, r util.DateRange) (int64, error)
	FindRecent(ctx context.Context, userID primitive.ObjectID, toolIDs []primitive.ObjectID, limit int64) ([]*model.Activity, error)
}

type ActivityRepoImpl struct {
	col *mongo.Collection
}

func NewActivityRepo(db *mongo.Database) ActivityRepo {
	return &ActivityRepoImpl{col: db.Collection(mongodb.ActivityCollection)}
}

func (s *ActivityRepoImpl) CreateActivity(ctx context.Context, activity *model.Activity) error {
	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, activity)
	return err
}

// CountByTypeInRange 区间两端闭合
func (s *ActivityRepoImpl) CountByTypeInRange(ctx context.Context, typ model.ActivityType, toolIDs []primitive.ObjectID, r util.DateRange) (int64, error) {
	if len(toolIDs) == 0 {
		return 0, nil
	}
	return s.col.CountDocuments(ctx, bson.M{
		"type":      typ,
		"toolId":    bson.M{"$in": toolIDs},
		"timestamp": bson.M{"$gte": r.Start, "$lte": r.End},
	})
}

// FindRecent 本人产生的或发生在其工具上的最新活动
func (s *ActivityRepoImpl) FindRecent(ctx context.Context, userID primitive.ObjectID, toolIDs []primitive.ObjectID, limit int64) ([]*model.Activity, error) {
	or := bson.A{bson.M{"userId": userID}}
	if len(toolIDs) > 0 {
		or = append(or, bson.M{"toolId": bson.M{"$in": toolIDs}})
	}

	cursor, err := s.col.Find(ctx, bson.M{"$or": or}, options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	activities := make([]*model.Activity, 0, limit)
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}
