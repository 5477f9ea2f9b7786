package events

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"stagepass/internal/shared/constants"
	"stagepass/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockRepository mocks the event repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, event *Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockRepository) GetAll(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]Event), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// stubCache is an in-memory cache.Service that records invalidations and
// counts cache-aside fetches.
type stubCache struct {
	mu       sync.Mutex
	store    map[string][]byte
	deleted  []string
	patterns []string
	fetches  int
}

func newStubCache() *stubCache {
	return &stubCache{store: make(map[string][]byte)}
}

func (c *stubCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.store[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = data
	return nil
}

func (c *stubCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.store, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

func (c *stubCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.store {
		if strings.HasPrefix(key, prefix) {
			delete(c.store, key)
		}
	}
	return nil
}

func (c *stubCache) Exists(ctx context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

func (c *stubCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	c.mu.Lock()
	c.fetches++
	c.mu.Unlock()
	value, err := fetcher()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *stubCache) Ping(ctx context.Context) error { return nil }

func TestCreateEvent_DefaultsToDraft(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *Event) bool {
		return e.Status == StatusDraft && e.Name == "Jazz Night"
	})).Return(nil)

	svc := NewService(repo)
	event, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		Name:     "Jazz Night",
		Venue:    "Blue Room",
		DateTime: time.Now().UTC().Add(24 * time.Hour),
	})

	require.NoError(t, err)
	assert.Equal(t, StatusDraft, event.Status)
	assert.NotEqual(t, uuid.Nil, event.ID)
	repo.AssertExpectations(t)
}

func TestGetEventByID_NotFound(t *testing.T) {
	repo := new(MockRepository)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(repo)
	_, err := svc.GetEventByID(context.Background(), id.String())

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestGetEventByID_InvalidID(t *testing.T) {
	svc := NewService(new(MockRepository))
	_, err := svc.GetEventByID(context.Background(), "not-a-uuid")
	assert.Error(t, err)
}

// The detail cache stores events as JSON, so every field the response layer
// derives from must survive the round-trip. FloorPlanHash in particular
// drives has_seats; losing it would make cache hits disagree with misses.
func TestGetEventByID_CacheHitKeepsCatalogFlag(t *testing.T) {
	repo := new(MockRepository)
	id := uuid.New()
	event := &Event{
		ID:            id,
		Name:          "Jazz Night",
		Venue:         "Blue Room",
		DateTime:      time.Now().UTC().Add(24 * time.Hour),
		Status:        StatusOnSale,
		FloorPlanHash: "a3f8c2",
	}
	repo.On("GetByID", mock.Anything, id).Return(event, nil).Once()

	svc := NewService(repo)
	cacheStub := newStubCache()
	svc.SetCacheService(cacheStub)

	fresh, err := svc.GetEventByID(context.Background(), id.String())
	require.NoError(t, err)
	require.True(t, fresh.HasSeatCatalog())

	// Second read is served from the cache; the repo mock allows one call only
	cached, err := svc.GetEventByID(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, "a3f8c2", cached.FloorPlanHash)
	assert.True(t, cached.HasSeatCatalog())
	assert.True(t, cached.ToResponse().HasSeats)
	repo.AssertExpectations(t)
}

func TestGetEvents_SecondReadServesCachedPage(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetAll", mock.Anything, EventListQuery{}).Return([]Event{
		{ID: uuid.New(), Name: "Jazz Night", Venue: "Blue Room", Status: StatusOnSale},
	}, int64(1), nil).Once()

	svc := NewService(repo)
	svc.SetCacheService(newStubCache())

	first, err := svc.GetEvents(context.Background(), EventListQuery{})
	require.NoError(t, err)
	second, err := svc.GetEvents(context.Background(), EventListQuery{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), second.Total)
	repo.AssertExpectations(t)
}

func TestUpdateEventStatus_PersistsAndInvalidates(t *testing.T) {
	repo := new(MockRepository)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&Event{ID: id, Status: StatusDraft}, nil)
	repo.On("UpdateStatus", mock.Anything, id, StatusOnSale).Return(nil)

	svc := NewService(repo)
	cacheStub := newStubCache()
	svc.SetCacheService(cacheStub)

	event, err := svc.UpdateEventStatus(context.Background(), id.String(), StatusOnSale)
	require.NoError(t, err)

	assert.Equal(t, StatusOnSale, event.Status)
	assert.Contains(t, cacheStub.deleted, constants.BuildEventDetailKey(id.String()))
	assert.Contains(t, cacheStub.patterns, constants.CACHE_KEY_EVENTS_LIST+"*")
	repo.AssertExpectations(t)
}

func TestUpdateEventStatus_NotFound(t *testing.T) {
	repo := new(MockRepository)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(repo)
	_, err := svc.UpdateEventStatus(context.Background(), id.String(), StatusArchived)

	assert.ErrorIs(t, err, ErrEventNotFound)
}
