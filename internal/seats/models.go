package seats

import (
	"time"

	"stagepass/internal/floorplan"

	"github.com/google/uuid"
)

// SeatStatus is the authoritative lifecycle state of a seat.
// AVAILABLE <-> HELD -> BOOKED; BOOKED -> AVAILABLE only via admin cancellation.
type SeatStatus string

const (
	StatusAvailable SeatStatus = "AVAILABLE"
	StatusHeld      SeatStatus = "HELD"
	StatusBooked    SeatStatus = "BOOKED"
)

// Seat is one bookable unit of an event's floor plan. Status, HolderID and
// HoldExpiresAt are mutated exclusively through the conditional-update
// primitives in Repository; every other field is immutable after generation.
type Seat struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	EventID   uuid.UUID          `gorm:"type:uuid;not null;index;uniqueIndex:idx_event_seat_coords" json:"event_id"`
	Section   string             `gorm:"not null;uniqueIndex:idx_event_seat_coords" json:"section"`
	RowLabel  string             `gorm:"not null;uniqueIndex:idx_event_seat_coords" json:"row_label"`
	SeatLabel string             `gorm:"not null;uniqueIndex:idx_event_seat_coords" json:"seat_label"`
	Category  floorplan.Category `gorm:"type:varchar(20);not null" json:"category"`
	BasePrice float64            `gorm:"not null" json:"base_price"`

	// Layout coordinates, presentation only
	X float64 `json:"x"`
	Y float64 `json:"y"`

	Status        SeatStatus `gorm:"type:varchar(20);check:status IN ('AVAILABLE', 'HELD', 'BOOKED');default:'AVAILABLE';index" json:"status"`
	HolderID      *uuid.UUID `gorm:"type:uuid" json:"-"`
	HoldExpiresAt *time.Time `gorm:"index" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Seat) TableName() string {
	return "seats"
}

// EffectiveStatus resolves the status as of now. A HELD seat whose hold has
// lapsed is logically AVAILABLE even before a sweep physically resets it.
func (s *Seat) EffectiveStatus(now time.Time) SeatStatus {
	if s.Status == StatusHeld && s.HoldExpiresAt != nil && !s.HoldExpiresAt.After(now) {
		return StatusAvailable
	}
	return s.Status
}

// IsAvailable reports whether the seat can be claimed as of now
func (s *Seat) IsAvailable(now time.Time) bool {
	return s.EffectiveStatus(now) == StatusAvailable
}

// HeldBy reports whether the seat carries a live hold by the given holder
func (s *Seat) HeldBy(holderID uuid.UUID, now time.Time) bool {
	return s.Status == StatusHeld &&
		s.HolderID != nil && *s.HolderID == holderID &&
		s.HoldExpiresAt != nil && s.HoldExpiresAt.After(now)
}

// SeatResponse is the API shape of a seat. Holder identity is never exposed.
type SeatResponse struct {
	ID        string  `json:"id"`
	Section   string  `json:"section"`
	RowLabel  string  `json:"row_label"`
	SeatLabel string  `json:"seat_label"`
	Category  string  `json:"category"`
	BasePrice float64 `json:"base_price"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Status    string  `json:"status"`
	Available bool    `json:"available"`
}

// ToResponse converts a seat to its API shape as of now
func (s *Seat) ToResponse(now time.Time) SeatResponse {
	effective := s.EffectiveStatus(now)
	return SeatResponse{
		ID:        s.ID.String(),
		Section:   s.Section,
		RowLabel:  s.RowLabel,
		SeatLabel: s.SeatLabel,
		Category:  string(s.Category),
		BasePrice: s.BasePrice,
		X:         s.X,
		Y:         s.Y,
		Status:    string(effective),
		Available: effective == StatusAvailable,
	}
}

// ListFilters narrows catalog listings
type ListFilters struct {
	Category      string `form:"category" binding:"omitempty,oneof=VIP PREMIUM STANDARD"`
	Section       string `form:"section" binding:"omitempty"`
	AvailableOnly bool   `form:"available_only"`
}
