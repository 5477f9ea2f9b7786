package availability

import (
	"context"
	"fmt"
	"time"

	"stagepass/internal/seats"
	"stagepass/internal/shared/constants"
	"stagepass/pkg/cache"

	"github.com/google/uuid"
)

// Service builds the public availability snapshot. The snapshot is a cached
// read model: the reservation engine never consults it, so a stale snapshot
// can mislead a browser for at most one TTL but can never corrupt a hold.
type Service interface {
	GetEventAvailability(ctx context.Context, eventID string, filters Filters) (*EventAvailability, error)
	SetCacheService(cacheService cache.Service)
}

type service struct {
	seatRepo     seats.Repository
	cacheService cache.Service
}

func NewService(seatRepo seats.Repository) Service {
	return &service{seatRepo: seatRepo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetEventAvailability(ctx context.Context, eventID string, filters Filters) (*EventAvailability, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	if s.cacheService != nil {
		cacheKey := cacheKeyFor(eventID, filters)
		var view EventAvailability
		err := s.cacheService.GetOrSet(ctx, cacheKey, constants.TTL_AVAILABILITY, func() (interface{}, error) {
			return s.buildFresh(ctx, eventUUID, eventID, filters)
		}, &view)
		if err != nil {
			return nil, err
		}
		return &view, nil
	}

	return s.buildFresh(ctx, eventUUID, eventID, filters)
}

func (s *service) buildFresh(ctx context.Context, eventUUID uuid.UUID, eventID string, filters Filters) (*EventAvailability, error) {
	seatRows, err := s.seatRepo.GetSeatsByEvent(ctx, eventUUID, seats.ListFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}
	return buildView(eventID, seatRows, filters, time.Now().UTC()), nil
}

// cacheKeyFor keys the cache per filter combination so a filtered view
// never serves an unfiltered request. All variants share the event prefix
// the invalidation pattern matches.
func cacheKeyFor(eventID string, filters Filters) string {
	key := constants.BuildAvailabilityKey(eventID)
	if filters.Category != "" {
		key += ":cat:" + filters.Category
	}
	if filters.AvailableOnly {
		key += ":avail"
	}
	return key
}
