package repository

import (
	"BuilderCentral/internal/model"
	"BuilderCentral/internal/pkg/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func updated(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

// nextCommand 取下一条发出的命令，没有时测试失败
func nextCommand(mt *mtest.T) *event.CommandStartedEvent {
	evt := mt.GetStartedEvent()
	require.NotNil(mt, evt)
	return evt
}

func TestToolRepo_IncViewHistory(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	toolID := primitive.NewObjectID()

	mt.Run("existing bucket", func(mt *mtest.T) {
		repo := NewToolRepo(mt.DB)
		mt.AddMockResponses(updated(1))

		require.NoError(mt, repo.IncViewHistory(context.Background(), toolID, "2024-06-15"))

		cmd := nextCommand(mt)
		assert.Equal(mt, "update", cmd.CommandName)
		assert.Contains(mt, cmd.Command.String(), `"viewHistory.$.count"`)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("new bucket", func(mt *mtest.T) {
		repo := NewToolRepo(mt.DB)
		mt.AddMockResponses(updated(0), updated(1))

		require.NoError(mt, repo.IncViewHistory(context.Background(), toolID, "2024-06-15"))

		assert.Contains(mt, nextCommand(mt).Command.String(), `"$inc"`)
		push := nextCommand(mt).Command.String()
		assert.Contains(mt, push, `"$push"`)
		assert.Contains(mt, push, `"$ne"`)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("bucket created concurrently", func(mt *mtest.T) {
		repo := NewToolRepo(mt.DB)
		mt.AddMockResponses(updated(0), updated(0), updated(1))

		require.NoError(mt, repo.IncViewHistory(context.Background(), toolID, "2024-06-15"))

		assert.Contains(mt, nextCommand(mt).Command.String(), `"$inc"`)
		assert.Contains(mt, nextCommand(mt).Command.String(), `"$push"`)
		assert.Contains(mt, nextCommand(mt).Command.String(), `"viewHistory.$.count"`)
	})
}

func TestToolRepo_LoveSetOperators(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	toolID, userID := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("add and remove", func(mt *mtest.T) {
		repo := NewToolRepo(mt.DB)
		mt.AddMockResponses(updated(1), updated(1))

		require.NoError(mt, repo.AddLove(context.Background(), toolID, userID))
		require.NoError(mt, repo.RemoveLove(context.Background(), toolID, userID))

		assert.Contains(mt, nextCommand(mt).Command.String(), `"$addToSet"`)
		assert.Contains(mt, nextCommand(mt).Command.String(), `"$pull"`)
	})
}

func TestActivityRepo_CountByTypeInRange(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	current := util.GetDateRanges(now).Current

	mt.Run("inclusive bounds", func(mt *mtest.T) {
		repo := NewActivityRepo(mt.DB)
		ns := mt.DB.Name() + ".activities"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}))

		n, err := repo.CountByTypeInRange(context.Background(), model.ActivityView, []primitive.ObjectID{primitive.NewObjectID()}, current)
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)

		cmd := nextCommand(mt)
		assert.Equal(mt, "aggregate", cmd.CommandName)
		pipeline := cmd.Command.String()
		assert.Contains(mt, pipeline, `"$gte"`)
		assert.Contains(mt, pipeline, `"$lte"`)
		assert.Contains(mt, pipeline, `"$in"`)
	})

	mt.Run("no tools skips the query", func(mt *mtest.T) {
		repo := NewActivityRepo(mt.DB)

		n, err := repo.CountByTypeInRange(context.Background(), model.ActivityLike, nil, current)
		require.NoError(mt, err)
		assert.Zero(mt, n)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestActivityRepo_FindRecent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	userID, toolID := primitive.NewObjectID(), primitive.NewObjectID()
	ts := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	mt.Run("own activity or activity on own tools", func(mt *mtest.T) {
		repo := NewActivityRepo(mt.DB)
		ns := mt.DB.Name() + ".activities"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "userId", Value: userID},
				{Key: "toolId", Value: toolID},
				{Key: "type", Value: "view"},
				{Key: "message", Value: "Ada viewed the tool \"Compass\""},
				{Key: "timestamp", Value: ts},
			},
		))

		activities, err := repo.FindRecent(context.Background(), userID, []primitive.ObjectID{toolID}, 10)
		require.NoError(mt, err)
		require.Len(mt, activities, 1)
		assert.Equal(mt, model.ActivityView, activities[0].Type)
		assert.Equal(mt, toolID, activities[0].ToolID)
		assert.True(mt, ts.Equal(activities[0].Timestamp))

		cmd := nextCommand(mt)
		assert.Equal(mt, "find", cmd.CommandName)
		assert.Contains(mt, cmd.Command.String(), `"$or"`)
	})
}
