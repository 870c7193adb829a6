package repository

import (
	"BuilderCentral/internal/model"
	mongodb "BuilderCentral/internal/pkg/mongo"
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ToolFilter 列表过滤条件
type ToolFilter struct {
	Tag    string
	Search string
	IDs    []primitive.ObjectID
}

type ToolRepo interface {
	CreateTool(ctx context.Context, tool *model.Tool) error
	GetToolByID(ctx context.Context, id primitive.ObjectID) (*model.Tool, error)
	GetToolsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Tool, error)
	GetToolNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
	GetToolsByAuthor(ctx context.Context, author primitive.ObjectID) ([]*model.Tool, error)
	ListTools(ctx context.Context, filter ToolFilter, skip, limit int64) ([]*model.Tool, int64, error)
	FindTopByViews(ctx context.Context, limit int64) ([]*model.Tool, error)
	UpdateContent(ctx context.Context, tool *model.Tool) error
	DeleteTool(ctx context.Context, id primitive.ObjectID) error
	DeleteToolsByAuthor(ctx context.Context, author primitive.ObjectID) ([]primitive.ObjectID, error)

	IncViews(ctx context.Context, id primitive.ObjectID) error
	IncViewHistory(ctx context.Context, id primitive.ObjectID, day string) error
	IncShares(ctx context.Context, id primitive.ObjectID) error
	AddLove(ctx context.Context, toolID, userID primitive.ObjectID) error
	RemoveLove(ctx context.Context, toolID, userID primitive.ObjectID) error
	SaveRatings(ctx context.Context, tool *model.Tool) error
	AddComment(ctx context.Context, toolID primitive.ObjectID, comment model.Comment) error
}

type ToolRepoImpl struct {
	col *mongo.Collection
}

func NewToolRepo(db *mongo.Database) ToolRepo {
	return &ToolRepoImpl{col: db.Collection(mongodb.ToolCollection)}
}

func (s *ToolRepoImpl) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*model.Tool, error) {
	cursor, err := s.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	tools := make([]*model.Tool, 0)
	if err = cursor.All(ctx, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

func (s *ToolRepoImpl) CreateTool(ctx context.Context, tool *model.Tool) error {
	now := time.Now()
	if tool.ID.IsZero() {
		tool.ID = primitive.NewObjectID()
	}
	tool.CreatedAt, tool.UpdatedAt = now, now
	if tool.Tags == nil {
		tool.Tags = []string{}
	}
	if tool.Loves == nil {
		tool.Loves = []primitive.ObjectID{}
	}
	if tool.Ratings == nil {
		tool.Ratings = []model.Rating{}
	}
	if tool.Comments == nil {
		tool.Comments = []model.Comment{}
	}
	if tool.ViewHistory == nil {
		tool.ViewHistory = []model.ViewRecord{}
	}
	_, err := s.col.InsertOne(ctx, tool)
	return err
}

func (s *ToolRepoImpl) GetToolByID(ctx context.Context, id primitive.ObjectID) (*model.Tool, error) {
	tool := &model.Tool{}
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(tool); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return tool, nil
}

func (s *ToolRepoImpl) GetToolsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Tool, error) {
	if len(ids) == 0 {
		return []*model.Tool{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// GetToolNames 只取名称，用于动态流
func (s *ToolRepoImpl) GetToolNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	tools, err := s.find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1}),
	)
	if err != nil {
		return nil, err
	}
	for _, t := range tools {
		names[t.ID] = t.Name
	}
	return names, nil
}

func (s *ToolRepoImpl) GetToolsByAuthor(ctx context.Context, author primitive.ObjectID) ([]*model.Tool, error) {
	return s.find(ctx, bson.M{"author": author}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (s *ToolRepoImpl) ListTools(ctx context.Context, filter ToolFilter, skip, limit int64) ([]*model.Tool, int64, error) {
	query := bson.M{}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}
	if filter.IDs != nil {
		query["_id"] = bson.M{"$in": filter.IDs}
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"shortDescription": pattern},
			bson.M{"description": pattern},
		}
	}

	total, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	tools, err := s.find(ctx, query, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit),
	)
	if err != nil {
		return nil, 0, err
	}
	return tools, total, nil
}

func (s *ToolRepoImpl) FindTopByViews(ctx context.Context, limit int64) ([]*model.Tool, error) {
	return s.find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "views", Value: -1}}).
		SetLimit(limit),
	)
}

func (s *ToolRepoImpl) UpdateContent(ctx context.Context, tool *model.Tool) error {
	tool.UpdatedAt = time.Now()
	_, err := s.col.UpdateByID(ctx, tool.ID, bson.M{"$set": bson.M{
		"name":             tool.Name,
		"shortDescription": tool.ShortDescription,
		"description":      tool.Description,
		"deployedUrl":      tool.DeployedURL,
		"repositoryUrl":    tool.RepositoryURL,
		"technology":       tool.Technology,
		"tags":             tool.Tags,
		"image":            tool.Image,
		"updatedAt":        tool.UpdatedAt,
	}})
	return err
}

func (s *ToolRepoImpl) DeleteTool(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteToolsByAuthor 返回被删除的工具 ID，便于清理索引与收藏
func (s *ToolRepoImpl) DeleteToolsByAuthor(ctx context.Context, author primitive.ObjectID) ([]primitive.ObjectID, error) {
	tools, err := s.find(ctx, bson.M{"author": author}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(tools))
	for _, t := range tools {
		ids = append(ids, t.ID)
	}
	if len(ids) == 0 {
		return ids, nil
	}
	if _, err = s.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *ToolRepoImpl) IncViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

// IncViewHistory 当天桶存在则 +1，否则追加 {date, 1}
func (s *ToolRepoImpl) IncViewHistory(ctx context.Context, id primitive.ObjectID, day string) error {
	matched, err := s.incViewBucket(ctx, id, day)
	if err != nil || matched {
		return err
	}
	// 条件中排除已存在的桶，避免并发下同一天出现两条
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "viewHistory.date": bson.M{"$ne": day}},
		bson.M{"$push": bson.M{"viewHistory": model.ViewRecord{Date: day, Count: 1}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	// 两次更新之间桶已被其他请求创建
	_, err = s.incViewBucket(ctx, id, day)
	return err
}

func (s *ToolRepoImpl) incViewBucket(ctx context.Context, id primitive.ObjectID, day string) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "viewHistory.date": day},
		bson.M{"$inc": bson.M{"viewHistory.$.count": 1}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *ToolRepoImpl) IncShares(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"shares": 1}})
	return err
}

func (s *ToolRepoImpl) AddLove(ctx context.Context, toolID, userID primitive.ObjectID) error {
	_, err := s.col.UpdateByID(ctx, toolID, bson.M{"$addToSet": bson.M{"loves": userID}})
	return err
}

func (s *ToolRepoImpl) RemoveLove(ctx context.Context, toolID, userID primitive.ObjectID) error {
	_, err := s.col.UpdateByID(ctx, toolID, bson.M{"$pull": bson.M{"loves": userID}})
	return err
}

func (s *ToolRepoImpl) SaveRatings(ctx context.Context, tool *model.Tool) error {
	_, err := s.col.UpdateByID(ctx, tool.ID, bson.M{"$set": bson.M{
		"ratings":       tool.Ratings,
		"averageRating": tool.AverageRating,
	}})
	return err
}

func (s *ToolRepoImpl) AddComment(ctx context.Context, toolID primitive.ObjectID, comment model.Comment) error {
	_, err := s.col.UpdateByID(ctx, toolID, bson.M{"$push": bson.M{"comments": comment}})
	return err
}
