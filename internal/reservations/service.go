package reservations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"stagepass/internal/seats"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/constants"
	"stagepass/pkg/cache"
	"stagepass/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the reservation engine. Every operation resolves seat by seat
// through the conditional-update primitives in seats.Repository, so two
// concurrent requests for the same seat always produce exactly one winner.
// Partial success is the normal case and is reported in the result, not as
// an error.
type Service interface {
	HoldSeats(ctx context.Context, eventID string, seatIDs []string, holderID string, ttl time.Duration) (*HoldResult, error)
	ReleaseSeats(ctx context.Context, eventID string, seatIDs []string, holderID string) (*ReleaseResult, error)
	ConfirmBooking(ctx context.Context, eventID string, seatIDs []string, holderID string) (*ConfirmResult, error)
	ExpireStaleHolds(ctx context.Context, now time.Time) (int64, error)

	SetCacheService(cacheService cache.Service)
}

type service struct {
	seatRepo     seats.Repository
	cfg          *config.Config
	cacheService cache.Service
}

func NewService(seatRepo seats.Repository, cfg *config.Config) Service {
	return &service{seatRepo: seatRepo, cfg: cfg}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// HoldSeats places a time-boxed hold on each requested seat the caller can
// win. Duplicate seat IDs are collapsed and seats are processed in sorted ID
// order. A seat already live-held by the same caller gets its expiry
// refreshed and counts as granted.
func (s *service) HoldSeats(ctx context.Context, eventID string, seatIDs []string, holderID string, ttl time.Duration) (*HoldResult, error) {
	eventUUID, holderUUID, err := parseParties(eventID, holderID)
	if err != nil {
		return nil, err
	}

	requested, invalid := normalizeSeatIDs(seatIDs)
	if len(requested)+len(invalid) == 0 {
		return nil, ErrNoSeatsRequested
	}
	if len(requested)+len(invalid) > s.cfg.Reservation.MaxSeatsPerRequest {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManySeats, s.cfg.Reservation.MaxSeatsPerRequest)
	}

	now := time.Now().UTC()
	effectiveTTL := s.cfg.ClampHoldTTL(ttl)
	expiresAt := now.Add(effectiveTTL)

	result := &HoldResult{
		Granted: make([]seats.SeatResponse, 0, len(requested)),
		Denied:  make([]DeniedSeat, 0),
	}
	for _, raw := range invalid {
		result.Denied = append(result.Denied, DeniedSeat{SeatID: raw, Reason: ReasonSeatNotFound})
	}

	grantedIDs := make([]uuid.UUID, 0, len(requested))
	for _, seatID := range requested {
		won, err := s.seatRepo.ClaimSeat(ctx, eventUUID, seatID, holderUUID, expiresAt, now)
		if err != nil {
			return nil, fmt.Errorf("failed to claim seat %s: %w", seatID, err)
		}
		if won {
			grantedIDs = append(grantedIDs, seatID)
			continue
		}
		result.Denied = append(result.Denied, DeniedSeat{
			SeatID: seatID.String(),
			Reason: s.classifyHoldDenial(ctx, eventUUID, seatID),
		})
	}

	if len(grantedIDs) > 0 {
		granted, err := s.seatRepo.GetSeatsByIDs(ctx, eventUUID, grantedIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load granted seats: %w", err)
		}
		for i := range granted {
			result.Granted = append(result.Granted, granted[i].ToResponse(now))
		}
		result.HoldExpiresAt = expiresAt.Format(time.RFC3339)

		logger.GetDefault().LogSeatsHeld(ctx, eventID, holderID, len(grantedIDs), len(result.Denied), effectiveTTL)
		s.invalidateAvailability(ctx, eventID)
	}

	return result, nil
}

// ReleaseSeats drops the caller's live holds on the requested seats. Seats
// the caller does not hold are skipped, which makes repeated release calls
// idempotent.
func (s *service) ReleaseSeats(ctx context.Context, eventID string, seatIDs []string, holderID string) (*ReleaseResult, error) {
	eventUUID, holderUUID, err := parseParties(eventID, holderID)
	if err != nil {
		return nil, err
	}

	requested, invalid := normalizeSeatIDs(seatIDs)
	if len(requested)+len(invalid) == 0 {
		return nil, ErrNoSeatsRequested
	}

	result := &ReleaseResult{
		Released: make([]string, 0, len(requested)),
		Skipped:  append(make([]string, 0, len(invalid)), invalid...),
	}

	for _, seatID := range requested {
		released, err := s.seatRepo.ReleaseSeat(ctx, eventUUID, seatID, holderUUID)
		if err != nil {
			return nil, fmt.Errorf("failed to release seat %s: %w", seatID, err)
		}
		if released {
			result.Released = append(result.Released, seatID.String())
		} else {
			result.Skipped = append(result.Skipped, seatID.String())
		}
	}

	if len(result.Released) > 0 {
		logger.GetDefault().LogSeatsReleased(ctx, eventID, holderID, len(result.Released), len(result.Skipped))
		s.invalidateAvailability(ctx, eventID)
	}

	return result, nil
}

// ConfirmBooking promotes the caller's live holds to permanent bookings.
// Every requested seat resolves independently; a hold that expired between
// the hold call and this one fails with hold_expired even if no sweep has
// run yet.
func (s *service) ConfirmBooking(ctx context.Context, eventID string, seatIDs []string, holderID string) (*ConfirmResult, error) {
	eventUUID, holderUUID, err := parseParties(eventID, holderID)
	if err != nil {
		return nil, err
	}

	requested, invalid := normalizeSeatIDs(seatIDs)
	if len(requested)+len(invalid) == 0 {
		return nil, ErrNoSeatsRequested
	}

	now := time.Now().UTC()

	result := &ConfirmResult{
		Booked: make([]seats.SeatResponse, 0, len(requested)),
		Failed: make([]DeniedSeat, 0),
	}
	for _, raw := range invalid {
		result.Failed = append(result.Failed, DeniedSeat{SeatID: raw, Reason: ReasonSeatNotFound})
	}

	bookedIDs := make([]uuid.UUID, 0, len(requested))
	for _, seatID := range requested {
		promoted, err := s.seatRepo.PromoteSeat(ctx, eventUUID, seatID, holderUUID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to confirm seat %s: %w", seatID, err)
		}
		if promoted {
			bookedIDs = append(bookedIDs, seatID)
			continue
		}

		reason, alreadyBooked := s.classifyConfirmFailure(ctx, eventUUID, seatID, holderUUID, now)
		if alreadyBooked {
			bookedIDs = append(bookedIDs, seatID)
			continue
		}
		result.Failed = append(result.Failed, DeniedSeat{SeatID: seatID.String(), Reason: reason})
	}

	if len(bookedIDs) > 0 {
		booked, err := s.seatRepo.GetSeatsByIDs(ctx, eventUUID, bookedIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load booked seats: %w", err)
		}
		for i := range booked {
			result.Booked = append(result.Booked, booked[i].ToResponse(now))
		}

		logger.GetDefault().LogBookingConfirmed(ctx, eventID, holderID, len(bookedIDs), len(result.Failed))
		s.invalidateAvailability(ctx, eventID)
	}

	return result, nil
}

// ExpireStaleHolds resets every lapsed hold in one statement. It is pure
// cleanup: reads and transitions already treat lapsed holds as AVAILABLE, so
// running it late, often, or concurrently changes nothing but row churn.
func (s *service) ExpireStaleHolds(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	count, err := s.seatRepo.SweepExpiredHolds(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired holds: %w", err)
	}
	if count > 0 {
		logger.GetDefault().LogHoldsExpired(ctx, int(count), time.Since(start))
		s.invalidateAllAvailability(ctx)
	}
	return count, nil
}

// classifyHoldDenial explains a lost claim after the fact. The explanation
// is advisory: the seat may have changed again since the claim, but the
// claim's outcome stands regardless.
func (s *service) classifyHoldDenial(ctx context.Context, eventID, seatID uuid.UUID) DenialReason {
	if _, err := s.seatRepo.GetSeatByID(ctx, eventID, seatID); errors.Is(err, gorm.ErrRecordNotFound) {
		return ReasonSeatNotFound
	}
	return ReasonSeatUnavailable
}

// classifyConfirmFailure explains a lost promote. A seat already BOOKED by
// the same caller reports alreadyBooked so repeated confirms stay idempotent.
func (s *service) classifyConfirmFailure(ctx context.Context, eventID, seatID, holderID uuid.UUID, now time.Time) (DenialReason, bool) {
	seat, err := s.seatRepo.GetSeatByID(ctx, eventID, seatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReasonSeatNotFound, false
		}
		return ReasonSeatUnavailable, false
	}

	switch seat.Status {
	case seats.StatusBooked:
		if seat.HolderID != nil && *seat.HolderID == holderID {
			return "", true
		}
		return ReasonSeatUnavailable, false
	case seats.StatusHeld:
		if seat.HolderID != nil && *seat.HolderID == holderID {
			return ReasonHoldExpired, false
		}
		return ReasonNotHolder, false
	default:
		// AVAILABLE: the hold lapsed and a sweep already reclaimed it
		return ReasonHoldExpired, false
	}
}

func (s *service) invalidateAvailability(ctx context.Context, eventID string) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.AvailabilityInvalidationPattern(eventID)); err != nil {
		logger.GetDefault().DebugWithContext(ctx, "failed to invalidate availability cache", map[string]interface{}{"error": err})
	}
	if err := s.cacheService.DeletePattern(ctx, constants.SeatListInvalidationPattern(eventID)); err != nil {
		logger.GetDefault().DebugWithContext(ctx, "failed to invalidate seat list cache", map[string]interface{}{"error": err})
	}
}

func (s *service) invalidateAllAvailability(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.CACHE_KEY_AVAILABILITY+"*"); err != nil {
		logger.GetDefault().DebugWithContext(ctx, "failed to invalidate availability caches", map[string]interface{}{"error": err})
	}
	if err := s.cacheService.DeletePattern(ctx, constants.CACHE_KEY_SEAT_LIST+"*"); err != nil {
		logger.GetDefault().DebugWithContext(ctx, "failed to invalidate seat list caches", map[string]interface{}{"error": err})
	}
}

func parseParties(eventID, holderID string) (uuid.UUID, uuid.UUID, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: event ID %q", ErrInvalidID, eventID)
	}
	holderUUID, err := uuid.Parse(holderID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: holder ID %q", ErrInvalidID, holderID)
	}
	return eventUUID, holderUUID, nil
}

// normalizeSeatIDs deduplicates the request and fixes the processing order.
// Unparseable IDs come back separately so callers can report them per seat
// instead of rejecting the whole request.
func normalizeSeatIDs(seatIDs []string) ([]uuid.UUID, []string) {
	seen := make(map[uuid.UUID]struct{}, len(seatIDs))
	seenRaw := make(map[string]struct{}, len(seatIDs))
	valid := make([]uuid.UUID, 0, len(seatIDs))
	invalid := make([]string, 0)

	for _, raw := range seatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			if _, dup := seenRaw[raw]; !dup {
				seenRaw[raw] = struct{}{}
				invalid = append(invalid, raw)
			}
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		valid = append(valid, id)
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].String() < valid[j].String()
	})
	return valid, invalid
}
