package reservations

// HoldSeatsRequest asks for time-boxed holds. TTLSeconds is optional; zero
// means the server default, and out-of-range values are clamped rather than
// rejected.
type HoldSeatsRequest struct {
	SeatIDs    []string `json:"seat_ids" validate:"required,min=1"`
	HolderID   string   `json:"holder_id" validate:"required,uuid"`
	TTLSeconds int      `json:"ttl_seconds" validate:"omitempty,min=0"`
}

type ReleaseSeatsRequest struct {
	SeatIDs  []string `json:"seat_ids" validate:"required,min=1"`
	HolderID string   `json:"holder_id" validate:"required,uuid"`
}

type ConfirmBookingRequest struct {
	SeatIDs  []string `json:"seat_ids" validate:"required,min=1"`
	HolderID string   `json:"holder_id" validate:"required,uuid"`
}
