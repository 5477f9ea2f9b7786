package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTL values for the StagePass application.
// Pattern: stagepass:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

// Semi-static data (changes occasionally)
const (
	TTL_EVENT_DETAIL = 2 * time.Hour // event records
	TTL_EVENTS_LIST  = 1 * time.Hour // event listings
	TTL_SEAT_LIST    = 5 * time.Minute
)

// Highly dynamic data (real-time sensitive).
// Availability is a derived view polled by clients; its TTL must stay well
// under the minimum hold TTL so expired holds surface quickly.
const (
	TTL_AVAILABILITY = 30 * time.Second
)

// ================== REDIS KEY PREFIXES ==================

const CACHE_PREFIX = "stagepass"

const (
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:uuid:"  // + event-id
	CACHE_KEY_EVENTS_LIST  = CACHE_PREFIX + ":events:list"          // + :status:S:page:X:limit:Y
	CACHE_KEY_AVAILABILITY = CACHE_PREFIX + ":availability:event:"  // + event-id (+ :filters)
	CACHE_KEY_SEAT_LIST    = CACHE_PREFIX + ":seats:list:event:"    // + event-id
)

// ================== KEY BUILDERS ==================

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

// BuildEventsListKey keys listings per query so a filtered page never serves
// a different one. All variants fall under CACHE_KEY_EVENTS_LIST for
// pattern invalidation.
func BuildEventsListKey(status string, page, limit int) string {
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf("%s:status:%s:page:%d:limit:%d", CACHE_KEY_EVENTS_LIST, status, page, limit)
}

func BuildAvailabilityKey(eventID string) string {
	return CACHE_KEY_AVAILABILITY + eventID
}

func BuildSeatListKey(eventID string) string {
	return CACHE_KEY_SEAT_LIST + eventID
}

// SeatListInvalidationPattern matches every cached seat listing of an event,
// filter variants included.
func SeatListInvalidationPattern(eventID string) string {
	return CACHE_KEY_SEAT_LIST + eventID + "*"
}

// AvailabilityInvalidationPattern matches every cached availability view of
// an event, filter variants included.
func AvailabilityInvalidationPattern(eventID string) string {
	return CACHE_KEY_AVAILABILITY + eventID + "*"
}
