package service

import (
	"BuilderCentral/internal/model"
	"BuilderCentral/internal/pkg/consts"
	"BuilderCentral/internal/pkg/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func history(current, previous int64) []model.ViewRecord {
	records := make([]model.ViewRecord, 0, 2)
	if current > 0 {
		records = append(records, model.ViewRecord{Date: "2024-06-10", Count: current})
	}
	if previous > 0 {
		records = append(records, model.ViewRecord{Date: "2024-05-01", Count: previous})
	}
	return records
}

func TestRankTrendingTools_KeepsNegativeTrendsAndDropsZero(t *testing.T) {
	author := primitive.NewObjectID()
	a := newTool("A", author)
	a.ViewHistory = history(14, 10)
	b := newTool("B", author)
	b.ViewHistory = history(10, 10)
	c := newTool("C", author)
	c.ViewHistory = history(9, 10)
	d := newTool("D", author)
	d.ViewHistory = history(30, 10)

	ranked := RankTrendingTools([]*model.Tool{a, b, c, d}, util.GetDateRanges(fixedNow))

	require.Len(t, ranked, 3)
	assert.Equal(t, "D", ranked[0].Name)
	assert.Equal(t, 200, ranked[0].Trend)
	assert.Equal(t, "A", ranked[1].Name)
	assert.Equal(t, 40, ranked[1].Trend)
	assert.Equal(t, "C", ranked[2].Name)
	assert.Equal(t, -10, ranked[2].Trend)
}

func TestRankTrendingTools_LimitAndCategory(t *testing.T) {
	author := primitive.NewObjectID()
	tools := make([]*model.Tool, 0, 8)
	for i := 0; i < 8; i++ {
		tool := newTool("T", author)
		tool.ViewHistory = history(int64(i+1), 0)
		tools = append(tools, tool)
	}
	tools[0].Tags = []string{"devops", "cli"}

	ranked := RankTrendingTools(tools, util.GetDateRanges(fixedNow))
	require.Len(t, ranked, consts.TrendingLimit)
	assert.Equal(t, "devops", ranked[0].Category)
	assert.Equal(t, consts.DefaultCategory, ranked[1].Category)
}

func TestRankTrendingTools_SkipsMalformedDays(t *testing.T) {
	tool := newTool("X", primitive.NewObjectID())
	tool.ViewHistory = []model.ViewRecord{{Date: "not-a-date", Count: 50}}

	assert.Empty(t, RankTrendingTools([]*model.Tool{tool}, util.GetDateRanges(fixedNow)))
}

type dashboardFixture struct {
	svc        *dashboardServiceImpl
	cache      *memCache
	activities *memActivities
	owner      *model.User
	other      *model.User
	toolA      *model.Tool
	toolB      *model.Tool
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		owner:      newUser("Owner"),
		other:      newUser("Other"),
		activities: &memActivities{},
		cache:      newMemCache(),
	}
	f.toolA = newTool("Alpha", f.owner.ID)
	f.toolA.Views = 40
	f.toolA.Shares = 2
	f.toolA.Loves = []primitive.ObjectID{f.other.ID}
	f.toolB = newTool("Beta", f.owner.ID)
	f.toolB.Views = 10
	f.toolB.Shares = 1
	f.toolB.Loves = []primitive.ObjectID{f.other.ID, f.owner.ID}
	foreign := newTool("Gamma", primitive.NewObjectID())
	foreign.Views = 1000

	svc := NewDashboardService(
		newMemUsers(f.owner, f.other),
		newMemTools(f.toolA, f.toolB, foreign),
		f.activities,
		f.cache,
		time.Minute,
	).(*dashboardServiceImpl)
	svc.now = fixedClock
	f.svc = svc
	return f
}

func (f *dashboardFixture) add(user primitive.ObjectID, tool primitive.ObjectID, typ model.ActivityType, ago time.Duration) {
	_ = f.activities.CreateActivity(context.Background(), &model.Activity{
		UserID:    user,
		ToolID:    tool,
		Type:      typ,
		Message:   string(typ),
		Timestamp: fixedNow.Add(-ago),
	})
}

func TestComputeDashboard_TotalsAndTrends(t *testing.T) {
	f := newDashboardFixture()
	day := 24 * time.Hour
	f.add(f.other.ID, f.toolA.ID, model.ActivityView, 2*day)
	f.add(f.other.ID, f.toolB.ID, model.ActivityView, 10*day)
	f.add(f.other.ID, f.toolA.ID, model.ActivityView, 45*day)
	f.add(f.other.ID, f.toolA.ID, model.ActivityLike, 3*day)
	// 超出两个窗口
	f.add(f.other.ID, f.toolA.ID, model.ActivityView, 90*day)

	stats, err := f.svc.ComputeDashboard(context.Background(), f.owner.ID.Hex())
	require.NoError(t, err)

	assert.EqualValues(t, 50, stats.Views.Total)
	assert.Equal(t, 100, stats.Views.Trend)
	assert.EqualValues(t, 3, stats.Likes.Total)
	assert.Equal(t, 100, stats.Likes.Trend)
	assert.EqualValues(t, 3, stats.Shares.Total)
	assert.Equal(t, 0, stats.Shares.Trend)
}

func TestComputeDashboard_RecentActivityFeed(t *testing.T) {
	f := newDashboardFixture()
	deleted := primitive.NewObjectID()
	f.add(f.other.ID, f.toolA.ID, model.ActivityComment, 2*time.Hour)
	f.add(f.owner.ID, deleted, model.ActivityView, 30*time.Second)
	f.add(f.owner.ID, f.toolB.ID, model.ActivityUpdate, 24*time.Hour)
	// 与本人无关
	f.add(f.other.ID, primitive.NewObjectID(), model.ActivityView, time.Minute)

	stats, err := f.svc.ComputeDashboard(context.Background(), f.owner.ID.Hex())
	require.NoError(t, err)
	require.Len(t, stats.Activities, 3)

	first := stats.Activities[0]
	assert.Equal(t, deleted.Hex(), first.ToolID)
	assert.Empty(t, first.ToolName)
	assert.Equal(t, "Just now", first.Time)

	assert.Equal(t, "Alpha", stats.Activities[1].ToolName)
	assert.Equal(t, "2 hours ago", stats.Activities[1].Time)
	assert.Equal(t, "Beta", stats.Activities[2].ToolName)
	assert.Equal(t, "Yesterday", stats.Activities[2].Time)
}

func TestComputeDashboard_FeedIsCapped(t *testing.T) {
	f := newDashboardFixture()
	for i := 0; i < consts.RecentActivityLimit+5; i++ {
		f.add(f.other.ID, f.toolA.ID, model.ActivityView, time.Duration(i)*time.Minute)
	}

	stats, err := f.svc.ComputeDashboard(context.Background(), f.owner.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, stats.Activities, consts.RecentActivityLimit)
}

func TestComputeDashboard_UserWithoutTools(t *testing.T) {
	f := newDashboardFixture()
	f.add(f.owner.ID, f.toolA.ID, model.ActivityView, time.Hour)

	stats, err := f.svc.ComputeDashboard(context.Background(), f.other.ID.Hex())
	require.NoError(t, err)
	assert.Zero(t, stats.Views.Total)
	assert.Zero(t, stats.Views.Trend)
	assert.Empty(t, stats.Activities)
}

func TestComputeDashboard_UnknownUser(t *testing.T) {
	f := newDashboardFixture()

	_, err := f.svc.ComputeDashboard(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.ComputeDashboard(context.Background(), "bad-id")
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestGetDashboardStats_ServesFromCache(t *testing.T) {
	f := newDashboardFixture()
	ctx := context.Background()

	first, err := f.svc.GetDashboardStats(ctx, f.owner.ID.Hex())
	require.NoError(t, err)
	cached, _ := f.cache.GetValue(ctx, consts.DashboardStatsKey+f.owner.ID.Hex())
	assert.NotEmpty(t, cached)

	f.add(f.other.ID, f.toolA.ID, model.ActivityView, time.Minute)
	second, err := f.svc.GetDashboardStats(ctx, f.owner.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, first.Views, second.Views)
	assert.Len(t, second.Activities, len(first.Activities))

	require.NoError(t, f.cache.DeleteKey(ctx, consts.DashboardStatsKey+f.owner.ID.Hex()))
	third, err := f.svc.GetDashboardStats(ctx, f.owner.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, third.Activities, len(first.Activities)+1)
}
