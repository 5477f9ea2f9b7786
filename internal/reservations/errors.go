package reservations

import "errors"

// DenialReason explains, per seat, why a hold or confirm did not go through.
// Denials are data in the result payload, never Go errors: a partially
// granted request is a success whose result says which seats were denied.
type DenialReason string

const (
	// ReasonSeatNotFound: the seat ID does not exist under this event
	ReasonSeatNotFound DenialReason = "seat_not_found"
	// ReasonSeatUnavailable: the seat is live-held by someone else or booked
	ReasonSeatUnavailable DenialReason = "seat_unavailable"
	// ReasonHoldExpired: the caller's hold lapsed before confirmation
	ReasonHoldExpired DenialReason = "hold_expired"
	// ReasonNotHolder: the seat is held, but not by the caller
	ReasonNotHolder DenialReason = "not_holder"
)

var (
	// ErrInvalidID is returned when the event or holder ID is not a UUID
	ErrInvalidID = errors.New("invalid identifier")
	// ErrNoSeatsRequested is returned when the request carries no seat IDs
	ErrNoSeatsRequested = errors.New("no seat IDs in request")
	// ErrTooManySeats is returned when the request exceeds the per-request cap
	ErrTooManySeats = errors.New("too many seats in one request")
)
