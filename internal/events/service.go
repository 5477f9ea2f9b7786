package events

import (
	"context"
	"errors"
	"fmt"

	"stagepass/internal/shared/constants"
	"stagepass/pkg/cache"
	"stagepass/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrEventNotFound is returned when the referenced event does not exist
var ErrEventNotFound = errors.New("event not found")

type Service interface {
	CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error)
	GetEventByID(ctx context.Context, id string) (*Event, error)
	GetEvents(ctx context.Context, query EventListQuery) (*EventListPage, error)
	UpdateEventStatus(ctx context.Context, id string, status Status) (*Event, error)
	SetCacheService(cacheService cache.Service)
}

// EventListPage is the cached shape of a listing query
type EventListPage struct {
	Events []EventResponse `json:"events"`
	Total  int64           `json:"total"`
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	event := &Event{
		ID:       uuid.New(),
		Name:     req.Name,
		Venue:    req.Venue,
		DateTime: req.DateTime,
		Status:   StatusDraft,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.DeletePattern(ctx, constants.CACHE_KEY_EVENTS_LIST+"*"); err != nil {
			logger.GetDefault().DebugWithContext(ctx, "failed to invalidate events list cache", map[string]interface{}{"error": err})
		}
	}

	return event, nil
}

func (s *service) GetEventByID(ctx context.Context, id string) (*Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	cacheKey := constants.BuildEventDetailKey(id)
	if s.cacheService != nil {
		var cached Event
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, event, constants.TTL_EVENT_DETAIL); err != nil {
			logger.GetDefault().DebugWithContext(ctx, "failed to cache event detail", map[string]interface{}{"error": err})
		}
	}

	return event, nil
}

func (s *service) GetEvents(ctx context.Context, query EventListQuery) (*EventListPage, error) {
	if s.cacheService != nil {
		var page EventListPage
		cacheKey := constants.BuildEventsListKey(query.Status, query.Page, query.Limit)
		err := s.cacheService.GetOrSet(ctx, cacheKey, constants.TTL_EVENTS_LIST, func() (interface{}, error) {
			return s.listFresh(ctx, query)
		}, &page)
		if err != nil {
			return nil, err
		}
		return &page, nil
	}

	return s.listFresh(ctx, query)
}

func (s *service) listFresh(ctx context.Context, query EventListQuery) (*EventListPage, error) {
	events, total, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, events[i].ToResponse())
	}

	return &EventListPage{Events: responses, Total: total}, nil
}

// UpdateEventStatus moves an event through its lifecycle. The transition is
// admin-only at the route layer; any of the known statuses is a valid target.
func (s *service) UpdateEventStatus(ctx context.Context, id string, status Status) (*Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if err := s.repo.UpdateStatus(ctx, eventID, status); err != nil {
		return nil, fmt.Errorf("failed to update event status: %w", err)
	}
	event.Status = status

	if s.cacheService != nil {
		if err := s.cacheService.Delete(ctx, constants.BuildEventDetailKey(id)); err != nil {
			logger.GetDefault().DebugWithContext(ctx, "failed to invalidate event detail cache", map[string]interface{}{"error": err})
		}
		if err := s.cacheService.DeletePattern(ctx, constants.CACHE_KEY_EVENTS_LIST+"*"); err != nil {
			logger.GetDefault().DebugWithContext(ctx, "failed to invalidate events list cache", map[string]interface{}{"error": err})
		}
	}

	return event, nil
}
