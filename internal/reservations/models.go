package reservations

import "stagepass/internal/seats"

// DeniedSeat is one seat a hold or confirm could not act on
type DeniedSeat struct {
	SeatID string       `json:"seat_id"`
	Reason DenialReason `json:"reason"`
}

// HoldResult reports a hold request seat by seat. Granted and Denied
// partition the (deduplicated) request; both can be non-empty.
type HoldResult struct {
	Granted       []seats.SeatResponse `json:"granted"`
	Denied        []DeniedSeat         `json:"denied"`
	HoldExpiresAt string               `json:"hold_expires_at,omitempty"`
}

// ReleaseResult reports a release request. Skipped seats were not released
// because the caller held no live hold on them; that is never an error.
type ReleaseResult struct {
	Released []string `json:"released"`
	Skipped  []string `json:"skipped"`
}

// ConfirmResult reports a confirm request seat by seat
type ConfirmResult struct {
	Booked []seats.SeatResponse `json:"booked"`
	Failed []DeniedSeat         `json:"failed"`
}
