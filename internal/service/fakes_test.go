package service

import (
	"BuilderCentral/internal/model"
	"BuilderCentral/internal/pkg/es"
	"BuilderCentral/internal/pkg/preview"
	"BuilderCentral/internal/pkg/util"
	"BuilderCentral/internal/repository"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*model.User
}

func newMemUsers(users ...*model.User) *memUsers {
	m := &memUsers{users: map[primitive.ObjectID]*model.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) GetUserByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	m.users[user.ID] = user
	return nil
}

func (m *memUsers) UpdateProfile(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.Password = hash
	}
	return nil
}

func (m *memUsers) AddFavorite(_ context.Context, userID, toolID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.HasFavorite(toolID) {
		return nil
	}
	u.Favorites = append(u.Favorites, toolID)
	return nil
}

func (m *memUsers) RemoveFavorite(_ context.Context, userID, toolID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.Favorites = without(u.Favorites, toolID)
	}
	return nil
}

func (m *memUsers) PullFavoriteFromAll(_ context.Context, toolIDs []primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		for _, id := range toolIDs {
			u.Favorites = without(u.Favorites, id)
		}
	}
	return nil
}

func (m *memUsers) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func without(ids []primitive.ObjectID, target primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

type memTools struct {
	mu    sync.Mutex
	tools map[primitive.ObjectID]*model.Tool
}

func newMemTools(tools ...*model.Tool) *memTools {
	m := &memTools{tools: map[primitive.ObjectID]*model.Tool{}}
	for _, t := range tools {
		m.tools[t.ID] = t
	}
	return m
}

func (m *memTools) sorted(match func(*model.Tool) bool) []*model.Tool {
	out := make([]*model.Tool, 0)
	for _, t := range m.tools {
		if match(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memTools) CreateTool(_ context.Context, tool *model.Tool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tool.ID = primitive.NewObjectID()
	tool.CreatedAt = time.Now()
	tool.UpdatedAt = tool.CreatedAt
	m.tools[tool.ID] = tool
	return nil
}

func (m *memTools) GetToolByID(_ context.Context, id primitive.ObjectID) (*model.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tools[id]
	if !ok {
		return nil, nil
	}
	clone := *t
	return &clone, nil
}

func (m *memTools) GetToolsByIDs(_ context.Context, ids []primitive.ObjectID) ([]*model.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Tool, 0, len(ids))
	for _, id := range ids {
		if t, ok := m.tools[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTools) GetToolNames(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		if t, ok := m.tools[id]; ok {
			names[id] = t.Name
		}
	}
	return names, nil
}

func (m *memTools) GetToolsByAuthor(_ context.Context, author primitive.ObjectID) ([]*model.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(t *model.Tool) bool { return t.Author == author }), nil
}

func (m *memTools) ListTools(_ context.Context, filter repository.ToolFilter, skip, limit int64) ([]*model.Tool, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	search := strings.ToLower(filter.Search)
	all := m.sorted(func(t *model.Tool) bool {
		if filter.Tag != "" && !containsStr(t.Tags, filter.Tag) {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Name+" "+t.ShortDescription+" "+t.Description), search) {
			return false
		}
		return true
	})
	total := int64(len(all))
	if skip >= total {
		return []*model.Tool{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return all[skip:end], total, nil
}

func containsStr(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func (m *memTools) FindTopByViews(_ context.Context, limit int64) ([]*model.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sorted(func(*model.Tool) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memTools) UpdateContent(_ context.Context, tool *model.Tool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tools[tool.ID] = tool
	return nil
}

func (m *memTools) DeleteTool(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tools, id)
	return nil
}

func (m *memTools) DeleteToolsByAuthor(_ context.Context, author primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]primitive.ObjectID, 0)
	for id, t := range m.tools {
		if t.Author == author {
			ids = append(ids, id)
			delete(m.tools, id)
		}
	}
	return ids, nil
}

func (m *memTools) update(id primitive.ObjectID, fn func(*model.Tool)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tools[id]; ok {
		fn(t)
	}
	return nil
}

func (m *memTools) IncViews(_ context.Context, id primitive.ObjectID) error {
	return m.update(id, func(t *model.Tool) { t.Views++ })
}

func (m *memTools) IncViewHistory(_ context.Context, id primitive.ObjectID, day string) error {
	return m.update(id, func(t *model.Tool) {
		for i := range t.ViewHistory {
			if t.ViewHistory[i].Date == day {
				t.ViewHistory[i].Count++
				return
			}
		}
		t.ViewHistory = append(t.ViewHistory, model.ViewRecord{Date: day, Count: 1})
	})
}

func (m *memTools) IncShares(_ context.Context, id primitive.ObjectID) error {
	return m.update(id, func(t *model.Tool) { t.Shares++ })
}

func (m *memTools) AddLove(_ context.Context, toolID, userID primitive.ObjectID) error {
	return m.update(toolID, func(t *model.Tool) {
		if !t.IsLovedBy(userID) {
			t.Loves = append(t.Loves, userID)
		}
	})
}

func (m *memTools) RemoveLove(_ context.Context, toolID, userID primitive.ObjectID) error {
	return m.update(toolID, func(t *model.Tool) { t.Loves = without(t.Loves, userID) })
}

func (m *memTools) SaveRatings(_ context.Context, tool *model.Tool) error {
	return m.update(tool.ID, func(t *model.Tool) {
		t.Ratings = tool.Ratings
		t.AverageRating = tool.AverageRating
	})
}

func (m *memTools) AddComment(_ context.Context, toolID primitive.ObjectID, comment model.Comment) error {
	return m.update(toolID, func(t *model.Tool) { t.Comments = append(t.Comments, comment) })
}

// get 测试中读取当前状态
func (m *memTools) get(id primitive.ObjectID) *model.Tool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tools[id]
}

type memActivities struct {
	mu   sync.Mutex
	list []*model.Activity
}

func (m *memActivities) CreateActivity(_ context.Context, activity *model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}
	m.list = append(m.list, activity)
	return nil
}

func (m *memActivities) CountByTypeInRange(_ context.Context, typ model.ActivityType, toolIDs []primitive.ObjectID, r util.DateRange) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.list {
		if a.Type == typ && containsID(toolIDs, a.ToolID) && r.Contains(a.Timestamp) {
			n++
		}
	}
	return n, nil
}

func (m *memActivities) FindRecent(_ context.Context, userID primitive.ObjectID, toolIDs []primitive.ObjectID, limit int64) ([]*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Activity, 0)
	for _, a := range m.list {
		if a.UserID == userID || containsID(toolIDs, a.ToolID) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memActivities) byType(typ model.ActivityType) []*model.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Activity, 0)
	for _, a := range m.list {
		if a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}

func containsID(ids []primitive.ObjectID, target primitive.ObjectID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

type memCache struct {
	mu     sync.Mutex
	values map[string]string
	sets   map[string]map[string]struct{}
	setErr error
}

func newMemCache() *memCache {
	return &memCache{values: map[string]string{}, sets: map[string]map[string]struct{}{}}
}

func (m *memCache) GetValue(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memCache) SetWithExpiration(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	default:
		m.values[key] = fmt.Sprint(v)
	}
	return nil
}

func (m *memCache) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	if !ok {
		_, ok = m.sets[key]
	}
	return ok, nil
}

func (m *memCache) SAdd(_ context.Context, key string, members ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sets[key] == nil {
		m.sets[key] = map[string]struct{}{}
	}
	for _, member := range members {
		m.sets[key][fmt.Sprint(member)] = struct{}{}
	}
	return nil
}

func (m *memCache) DeleteKey(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
		delete(m.sets, k)
	}
	return nil
}

func (m *memCache) isMember(key, member string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sets[key][member]
	return ok
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []*model.Activity
	err       error
}

func (p *recordingPublisher) PublishActivity(_ context.Context, activity *model.Activity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, activity)
	return nil
}

type stubSearcher struct {
	ids     []string
	total   int64
	err     error
	deleted []string
}

func (s *stubSearcher) SearchTools(context.Context, string, string, int, int) ([]string, int64, error) {
	return s.ids, s.total, s.err
}

func (s *stubSearcher) IndexTool(context.Context, *es.ToolES) error {
	return nil
}

func (s *stubSearcher) DeleteTool(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubFetcher struct {
	calls int
	page  *preview.LinkPreview
}

func (f *stubFetcher) Fetch(_ context.Context, rawURL string) (*preview.LinkPreview, error) {
	f.calls++
	if f.page == nil {
		return nil, errors.New("connection refused")
	}
	page := *f.page
	page.URL = rawURL
	return &page, nil
}

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newUser(name string) *model.User {
	return &model.User{
		ID:    primitive.NewObjectID(),
		Name:  name,
		Email: strings.ToLower(name) + "@example.com",
	}
}

func newTool(name string, author primitive.ObjectID) *model.Tool {
	return &model.Tool{
		ID:               primitive.NewObjectID(),
		Name:             name,
		ShortDescription: name + " short",
		Description:      name + " description",
		DeployedURL:      "https://example.com/" + strings.ToLower(name),
		Image:            "https://cdn.example.com/" + strings.ToLower(name) + ".jpg",
		Author:           author,
		CreatedAt:        fixedNow.Add(-time.Hour),
	}
}
