package seats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagepass/internal/floorplan"
	"stagepass/internal/shared/constants"
	"stagepass/pkg/cache"
	"stagepass/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAlreadyGenerated is returned when generation is attempted with a config
// that differs from the one the catalog was built from. Regeneration with an
// unchanged config is NOT an error: it returns the existing seat set.
var ErrAlreadyGenerated = errors.New("seats already generated for this event with a different config")

// ErrSeatNotFound is returned by single-seat lookups
var ErrSeatNotFound = errors.New("seat not found")

type Service interface {
	// Catalog generation (idempotent per config)
	GenerateSeats(ctx context.Context, eventID string, cfg floorplan.Config) (*GenerateResult, error)

	// Pure reads
	ListByEvent(ctx context.Context, eventID string, filters ListFilters) ([]SeatResponse, error)
	GetSeatByID(ctx context.Context, eventID, seatID string) (*Seat, error)

	// Administrative cancellation (BOOKED -> AVAILABLE)
	CancelBookedSeats(ctx context.Context, eventID string, seatIDs []string) (*CancelResult, error)

	SetCacheService(cacheService cache.Service)
}

// GenerateResult reports the outcome of a generation call
type GenerateResult struct {
	EventID   string         `json:"event_id"`
	PlanHash  string         `json:"plan_hash"`
	SeatCount int            `json:"seat_count"`
	Reused    bool           `json:"reused"` // true when an identical catalog already existed
	Seats     []SeatResponse `json:"seats,omitempty"`
}

// CancelResult reports per-seat outcomes of an admin cancellation
type CancelResult struct {
	Cancelled []string `json:"cancelled"`
	Skipped   []string `json:"skipped"`
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

// GenerateSeats materializes the floor plan into seat rows. Safe to call
// repeatedly: an identical config is a no-op returning the existing set, a
// different config is rejected with ErrAlreadyGenerated, and a failed insert
// rolls back completely.
func (s *service) GenerateSeats(ctx context.Context, eventID string, cfg floorplan.Config) (*GenerateResult, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	descriptors, err := floorplan.Generate(&cfg)
	if err != nil {
		return nil, err
	}

	planHash, err := floorplan.Hash(&cfg)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	seatRows := make([]Seat, 0, len(descriptors))
	for _, d := range descriptors {
		seatRows = append(seatRows, Seat{
			ID:        uuid.New(),
			EventID:   eventUUID,
			Section:   d.Section,
			RowLabel:  d.RowLabel,
			SeatLabel: d.SeatLabel,
			Category:  d.Category,
			BasePrice: d.BasePrice,
			X:         d.X,
			Y:         d.Y,
			Status:    StatusAvailable,
		})
	}

	err = s.repo.CreateCatalog(ctx, eventUUID, planHash, seatRows)
	switch {
	case err == nil:
		logger.GetDefault().LogFloorPlanGenerated(ctx, eventID, planHash, len(seatRows))
		s.invalidateEventCaches(ctx, eventID)
		return &GenerateResult{
			EventID:   eventID,
			PlanHash:  planHash,
			SeatCount: len(seatRows),
			Seats:     toResponses(seatRows, now),
		}, nil

	case errors.Is(err, ErrCatalogExists):
		// Report the hash on record, not the recomputed one; the stored
		// value is the authoritative idempotence key.
		storedHash, hashErr := s.repo.GetCatalogHash(ctx, eventUUID)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to load catalog hash: %w", hashErr)
		}
		existing, listErr := s.repo.GetSeatsByEvent(ctx, eventUUID, ListFilters{})
		if listErr != nil {
			return nil, fmt.Errorf("failed to load existing catalog: %w", listErr)
		}
		return &GenerateResult{
			EventID:   eventID,
			PlanHash:  storedHash,
			SeatCount: len(existing),
			Reused:    true,
			Seats:     toResponses(existing, now),
		}, nil

	case errors.Is(err, ErrPlanMismatch):
		return nil, ErrAlreadyGenerated

	default:
		return nil, fmt.Errorf("failed to generate seats: %w", err)
	}
}

func (s *service) ListByEvent(ctx context.Context, eventID string, filters ListFilters) ([]SeatResponse, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	if s.cacheService != nil {
		var responses []SeatResponse
		cacheKey := seatListCacheKey(eventID, filters)
		err := s.cacheService.GetOrSet(ctx, cacheKey, constants.TTL_SEAT_LIST, func() (interface{}, error) {
			return s.listFresh(ctx, eventUUID, filters)
		}, &responses)
		if err != nil {
			return nil, err
		}
		return responses, nil
	}

	return s.listFresh(ctx, eventUUID, filters)
}

func (s *service) listFresh(ctx context.Context, eventUUID uuid.UUID, filters ListFilters) ([]SeatResponse, error) {
	seats, err := s.repo.GetSeatsByEvent(ctx, eventUUID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}

	return toResponses(seats, time.Now().UTC()), nil
}

// seatListCacheKey keys the listing per filter combination. All variants
// share the event prefix the invalidation pattern matches; the reservation
// engine deletes that prefix on every status transition, so the listing TTL
// only bounds staleness when Redis invalidation itself fails.
func seatListCacheKey(eventID string, filters ListFilters) string {
	key := constants.BuildSeatListKey(eventID)
	if filters.Category != "" {
		key += ":cat:" + filters.Category
	}
	if filters.Section != "" {
		key += ":sec:" + filters.Section
	}
	if filters.AvailableOnly {
		key += ":avail"
	}
	return key
}

func (s *service) GetSeatByID(ctx context.Context, eventID, seatID string) (*Seat, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}
	seatUUID, err := uuid.Parse(seatID)
	if err != nil {
		return nil, fmt.Errorf("invalid seat ID: %w", err)
	}

	seat, err := s.repo.GetSeatByID(ctx, eventUUID, seatUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}

	return seat, nil
}

// CancelBookedSeats reverts booked seats to the pool. Seats that are not
// BOOKED at execution time are skipped, not errors; the cancellation rides
// the same atomic check-and-set as the reservation flow.
func (s *service) CancelBookedSeats(ctx context.Context, eventID string, seatIDs []string) (*CancelResult, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	result := &CancelResult{
		Cancelled: make([]string, 0, len(seatIDs)),
		Skipped:   make([]string, 0),
	}

	for _, idStr := range seatIDs {
		seatUUID, err := uuid.Parse(idStr)
		if err != nil {
			result.Skipped = append(result.Skipped, idStr)
			continue
		}

		cancelled, err := s.repo.CancelBookedSeat(ctx, eventUUID, seatUUID)
		if err != nil {
			return nil, fmt.Errorf("failed to cancel seat %s: %w", idStr, err)
		}
		if cancelled {
			result.Cancelled = append(result.Cancelled, idStr)
		} else {
			result.Skipped = append(result.Skipped, idStr)
		}
	}

	if len(result.Cancelled) > 0 {
		s.invalidateEventCaches(ctx, eventID)
	}

	return result, nil
}

// invalidateEventCaches drops every cached view a catalog change can stale:
// seat listings, availability, and the event detail record whose has_seats
// flag flips when a floor plan lands.
func (s *service) invalidateEventCaches(ctx context.Context, eventID string) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.BuildEventDetailKey(eventID)); err != nil {
		logger.GetDefault().DebugWithContext(ctx, "failed to invalidate event detail cache", map[string]interface{}{"error": err})
	}
	if err := s.cacheService.DeletePattern(ctx, constants.SeatListInvalidationPattern(eventID)); err != nil {
		logger.GetDefault().DebugWithContext(ctx, "failed to invalidate seat list cache", map[string]interface{}{"error": err})
	}
	if err := s.cacheService.DeletePattern(ctx, constants.AvailabilityInvalidationPattern(eventID)); err != nil {
		logger.GetDefault().DebugWithContext(ctx, "failed to invalidate availability cache", map[string]interface{}{"error": err})
	}
}

func toResponses(seats []Seat, now time.Time) []SeatResponse {
	responses := make([]SeatResponse, 0, len(seats))
	for i := range seats {
		responses = append(responses, seats[i].ToResponse(now))
	}
	return responses
}
