package seats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Catalog-level sentinel errors surfaced by CreateCatalog
var (
	// ErrCatalogExists means seats already exist under the same plan hash;
	// callers treat regeneration as an idempotent no-op.
	ErrCatalogExists = errors.New("seat catalog already generated for this config")
	// ErrPlanMismatch means seats exist under a different plan hash.
	ErrPlanMismatch = errors.New("seat catalog already generated with a different config")
)

// Repository is the only gateway to seat rows. The Claim/Promote/Release/
// Sweep methods are single conditional UPDATE statements; a true return
// means this caller won the transition, false means the predicate did not
// hold at execution time. Two concurrent callers can never both win the
// same seat.
type Repository interface {
	// Catalog generation and lookup
	CreateCatalog(ctx context.Context, eventID uuid.UUID, planHash string, seats []Seat) error
	GetCatalogHash(ctx context.Context, eventID uuid.UUID) (string, error)
	GetSeatByID(ctx context.Context, eventID, seatID uuid.UUID) (*Seat, error)
	GetSeatsByEvent(ctx context.Context, eventID uuid.UUID, filters ListFilters) ([]Seat, error)
	GetSeatsByIDs(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error)

	// Atomic status transitions (the load-bearing primitives)
	ClaimSeat(ctx context.Context, eventID, seatID, holderID uuid.UUID, expiresAt, now time.Time) (bool, error)
	PromoteSeat(ctx context.Context, eventID, seatID, holderID uuid.UUID, now time.Time) (bool, error)
	ReleaseSeat(ctx context.Context, eventID, seatID, holderID uuid.UUID) (bool, error)
	SweepExpiredHolds(ctx context.Context, now time.Time) (int64, error)
	CancelBookedSeat(ctx context.Context, eventID, seatID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CATALOG

// CreateCatalog inserts the full seat set for an event and records the plan
// hash on the event row in one transaction. The event row is locked first so
// two concurrent generations cannot interleave; regeneration is either a
// recognized no-op (same hash) or a rejected mismatch, never a partial mix.
func (r *repository) CreateCatalog(ctx context.Context, eventID uuid.UUID, planHash string, seats []Seat) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event struct {
			ID            uuid.UUID `gorm:"column:id"`
			FloorPlanHash string    `gorm:"column:floor_plan_hash"`
		}

		err := tx.Table("events").
			Select("id, floor_plan_hash").
			Where("id = ?", eventID).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("event %s not found", eventID)
			}
			return err
		}

		if event.FloorPlanHash != "" {
			if event.FloorPlanHash == planHash {
				return ErrCatalogExists
			}
			return ErrPlanMismatch
		}

		if err := tx.CreateInBatches(&seats, 500).Error; err != nil {
			return fmt.Errorf("failed to insert seats: %w", err)
		}

		return tx.Table("events").
			Where("id = ?", eventID).
			Update("floor_plan_hash", planHash).Error
	})
}

func (r *repository) GetCatalogHash(ctx context.Context, eventID uuid.UUID) (string, error) {
	var hash string
	err := r.db.WithContext(ctx).
		Table("events").
		Select("floor_plan_hash").
		Where("id = ?", eventID).
		Scan(&hash).Error
	return hash, err
}

func (r *repository) GetSeatByID(ctx context.Context, eventID, seatID uuid.UUID) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).
		Where("id = ? AND event_id = ?", seatID, eventID).
		First(&seat).Error
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *repository) GetSeatsByEvent(ctx context.Context, eventID uuid.UUID, filters ListFilters) ([]Seat, error) {
	db := r.db.WithContext(ctx).Where("event_id = ?", eventID)

	if filters.Category != "" {
		db = db.Where("category = ?", filters.Category)
	}
	if filters.Section != "" {
		db = db.Where("section = ?", filters.Section)
	}
	if filters.AvailableOnly {
		// Expired holds count as available; the predicate mirrors EffectiveStatus
		db = db.Where("status = ? OR (status = ? AND hold_expires_at <= ?)",
			StatusAvailable, StatusHeld, time.Now().UTC())
	}

	var seats []Seat
	err := db.Order("section ASC, row_label ASC, seat_label ASC").Find(&seats).Error
	return seats, err
}

func (r *repository) GetSeatsByIDs(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND id IN ?", eventID, seatIDs).
		Find(&seats).Error
	return seats, err
}

// ATOMIC STATUS TRANSITIONS

// ClaimSeat transitions a seat to HELD for holderID when it is AVAILABLE,
// carries an expired hold, or is already HELD by the same holder (re-hold
// refreshes the expiry). One UPDATE, linearizable per seat.
func (r *repository) ClaimSeat(ctx context.Context, eventID, seatID, holderID uuid.UUID, expiresAt, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("id = ? AND event_id = ?", seatID, eventID).
		Where(
			r.db.Where("status = ?", StatusAvailable).
				Or("status = ? AND hold_expires_at <= ?", StatusHeld, now).
				Or("status = ? AND holder_id = ?", StatusHeld, holderID),
		).
		Updates(map[string]interface{}{
			"status":          StatusHeld,
			"holder_id":       holderID,
			"hold_expires_at": expiresAt,
			"updated_at":      now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// PromoteSeat transitions HELD -> BOOKED for the current holder only, and
// only while the hold is live. The expired-hold race against a concurrent
// sweep resolves here: whichever UPDATE matches first wins, the other
// affects zero rows.
func (r *repository) PromoteSeat(ctx context.Context, eventID, seatID, holderID uuid.UUID, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("id = ? AND event_id = ? AND status = ? AND holder_id = ? AND hold_expires_at > ?",
			seatID, eventID, StatusHeld, holderID, now).
		Updates(map[string]interface{}{
			"status":          StatusBooked,
			"hold_expires_at": nil,
			"updated_at":      now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ReleaseSeat transitions HELD -> AVAILABLE for the current holder only
func (r *repository) ReleaseSeat(ctx context.Context, eventID, seatID, holderID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("id = ? AND event_id = ? AND status = ? AND holder_id = ?",
			seatID, eventID, StatusHeld, holderID).
		Updates(map[string]interface{}{
			"status":          StatusAvailable,
			"holder_id":       nil,
			"hold_expires_at": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// SweepExpiredHolds reverts every lapsed hold across all events. Running it
// concurrently with itself or with claims/promotes is safe: each row flips
// exactly once because the predicate re-checks status and expiry.
func (r *repository) SweepExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("status = ? AND hold_expires_at <= ?", StatusHeld, now).
		Updates(map[string]interface{}{
			"status":          StatusAvailable,
			"holder_id":       nil,
			"hold_expires_at": nil,
		})
	return result.RowsAffected, result.Error
}

// CancelBookedSeat is the administrative BOOKED -> AVAILABLE transition. It
// rides the same check-and-set shape as every other mutation.
func (r *repository) CancelBookedSeat(ctx context.Context, eventID, seatID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("id = ? AND event_id = ? AND status = ?", seatID, eventID, StatusBooked).
		Updates(map[string]interface{}{
			"status":          StatusAvailable,
			"holder_id":       nil,
			"hold_expires_at": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
