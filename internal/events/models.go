package events

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusOnSale   Status = "ON_SALE"
	StatusArchived Status = "ARCHIVED"
)

// Event is the owning scope of a seat catalog. FloorPlanHash records the
// content hash of the config the catalog was last generated from; it is the
// idempotence key for regeneration. The hash must survive the JSON round-trip
// through the Redis detail cache, so it carries a JSON name here; client
// responses go through EventResponse, which omits it.
type Event struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name          string    `json:"name" gorm:"not null;size:255"`
	Venue         string    `json:"venue" gorm:"not null;size:255"`
	DateTime      time.Time `json:"date_time" gorm:"not null"`
	Status        Status    `json:"status" gorm:"type:varchar(20);default:'DRAFT'"`
	FloorPlanHash string    `json:"floor_plan_hash,omitempty" gorm:"size:64"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}

// HasSeatCatalog reports whether a floor plan has been generated for the event
func (e *Event) HasSeatCatalog() bool {
	return e.FloorPlanHash != ""
}

type EventResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Venue     string    `json:"venue"`
	DateTime  time.Time `json:"date_time"`
	Status    Status    `json:"status"`
	HasSeats  bool      `json:"has_seats"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		Venue:     e.Venue,
		DateTime:  e.DateTime,
		Status:    e.Status,
		HasSeats:  e.HasSeatCatalog(),
		CreatedAt: e.CreatedAt,
	}
}

type CreateEventRequest struct {
	Name     string    `json:"name" binding:"required,min=3,max=255"`
	Venue    string    `json:"venue" binding:"required,min=3,max=255"`
	DateTime time.Time `json:"date_time" binding:"required"`
}

type UpdateEventStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=DRAFT ON_SALE ARCHIVED"`
}

type EventListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=DRAFT ON_SALE ARCHIVED"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
