package handler_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/streaming-catalog/internal/model"
	"github.com/iliyamo/streaming-catalog/internal/queue"
	"github.com/iliyamo/streaming-catalog/internal/repository"
	"github.com/iliyamo/streaming-catalog/internal/utils"
)

type memUsers struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*model.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uint64]*model.User{}} }

func (m *memUsers) Create(_ context.Context, username, email, password string, cost int) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
		if u.Username == username {
			return 0, repository.ErrUsernameExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	m.nextID++
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.byID[m.nextID] = &model.User{ID: m.nextID, Username: username, Email: email, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}
	return m.nextID, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type memRevocations struct {
	mu   sync.Mutex
	jtis map[string]time.Time
}

func newMemRevocations() *memRevocations { return &memRevocations{jtis: map[string]time.Time{}} }

func (m *memRevocations) Revoke(_ context.Context, jti string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jtis[jti] = exp
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jtis[jti]
	return ok, nil
}

// memCatalog holds contents, categories and their links.
type memCatalog struct {
	contents   []model.Content
	categories []model.Category
	links      map[uint64][]uint64 // category id -> content ids
}

func strp(s string) *string { return &s }

func newMemCatalog() *memCatalog {
	return &memCatalog{
		contents: []model.Content{
			{ID: 1, Title: "Inception", Description: strp("A thief steals secrets through dreams"), Type: model.ContentTypeMovie},
			{ID: 2, Title: "Breaking Bad", Description: strp("A chemistry teacher turns to crime"), Type: model.ContentTypeSeries},
			{ID: 3, Title: "Interstellar", Type: model.ContentTypeMovie},
		},
		categories: []model.Category{
			{ID: 1, Name: "Sci-Fi"},
			{ID: 2, Name: "Drama"},
			{ID: 3, Name: "Documentary"},
		},
		links: map[uint64][]uint64{1: {1, 3}, 2: {2}},
	}
}

func (m *memCatalog) find(id uint64) (model.Content, bool) {
	for _, c := range m.contents {
		if c.ID == id {
			return c, true
		}
	}
	return model.Content{}, false
}

type memContents struct{ *memCatalog }

func (m memContents) ListAll(context.Context) ([]model.Content, error) {
	return append([]model.Content{}, m.contents...), nil
}

func (m memContents) GetByID(_ context.Context, id uint64) (*model.Content, error) {
	c, ok := m.find(id)
	if !ok {
		return nil, repository.ErrContentNotFound
	}
	return &c, nil
}

func (m memContents) ListByCategory(_ context.Context, categoryID uint64) ([]model.Content, error) {
	out := []model.Content{}
	for _, id := range m.links[categoryID] {
		if c, ok := m.find(id); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m memContents) Search(_ context.Context, query string) ([]model.Content, error) {
	q := strings.ToLower(query)
	out := []model.Content{}
	for _, c := range m.contents {
		desc := ""
		if c.Description != nil {
			desc = *c.Description
		}
		if strings.Contains(strings.ToLower(c.Title), q) || strings.Contains(strings.ToLower(desc), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

type memCategories struct{ *memCatalog }

func (m memCategories) ListAll(context.Context) ([]model.Category, error) {
	return append([]model.Category{}, m.categories...), nil
}

type userContent struct{ user, content uint64 }

// memUserState keeps favorites and history keyed by (user, content).
type memUserState struct {
	mu        sync.Mutex
	catalog   *memCatalog
	favorites map[userContent]model.Favorite
	history   map[userContent]model.WatchHistory
	clock     time.Time
}

func newMemUserState(catalog *memCatalog) *memUserState {
	return &memUserState{
		catalog:   catalog,
		favorites: map[userContent]model.Favorite{},
		history:   map[userContent]model.WatchHistory{},
		clock:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memUserState) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memUserState) ListContents(_ context.Context, userID uint64) ([]model.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	type fav struct {
		c  model.Content
		at time.Time
	}
	var favs []fav
	for k, f := range m.favorites {
		if k.user != userID {
			continue
		}
		if c, ok := m.catalog.find(k.content); ok {
			favs = append(favs, fav{c, f.CreatedAt})
		}
	}
	sort.Slice(favs, func(i, j int) bool { return favs[i].at.After(favs[j].at) })
	out := []model.Content{}
	for _, f := range favs {
		out = append(out, f.c)
	}
	return out, nil
}

func (m *memUserState) Add(_ context.Context, userID, contentID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.catalog.find(contentID); !ok {
		return false, repository.ErrContentNotFound
	}
	k := userContent{userID, contentID}
	if _, ok := m.favorites[k]; ok {
		return false, nil
	}
	m.favorites[k] = model.Favorite{UserID: userID, ContentID: contentID, CreatedAt: m.tick()}
	return true, nil
}

func (m *memUserState) Remove(_ context.Context, userID, contentID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := userContent{userID, contentID}
	if _, ok := m.favorites[k]; !ok {
		return repository.ErrFavoriteNotFound
	}
	delete(m.favorites, k)
	return nil
}

func (m *memUserState) List(_ context.Context, userID uint64) ([]model.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.HistoryEntry{}
	for k, h := range m.history {
		if k.user != userID {
			continue
		}
		c, _ := m.catalog.find(k.content)
		out = append(out, model.HistoryEntry{
			Content:       model.ContentSummary{ID: c.ID, Title: c.Title, ImageURL: c.ImageURL, Type: c.Type},
			WatchPosition: h.WatchPosition,
			LastWatched:   h.LastWatched,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastWatched.After(out[j].LastWatched) })
	return out, nil
}

func (m *memUserState) Upsert(_ context.Context, userID, contentID uint64, position uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.catalog.find(contentID); !ok {
		return repository.ErrContentNotFound
	}
	k := userContent{userID, contentID}
	now := m.tick()
	h, ok := m.history[k]
	if !ok {
		h = model.WatchHistory{UserID: userID, ContentID: contentID, CreatedAt: now}
	}
	h.WatchPosition = position
	h.LastWatched = now
	h.UpdatedAt = now
	m.history[k] = h
	return nil
}

func (m *memUserState) favoriteCount(userID uint64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.favorites {
		if k.user == userID {
			n++
		}
	}
	return n
}

func (m *memUserState) historyRows(userID uint64) []model.WatchHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.WatchHistory
	for k, h := range m.history {
		if k.user == userID {
			out = append(out, h)
		}
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) recorded() []queue.ActivityEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.ActivityEvent{}, p.events...)
}
