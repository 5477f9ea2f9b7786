package reservations

import (
	"context"
	"sync"
	"testing"
	"time"

	"stagepass/internal/floorplan"
	"stagepass/internal/seats"
	"stagepass/internal/shared/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memorySeatRepo reproduces the repository's conditional-update semantics in
// memory: every transition checks its predicate and flips the row under one
// lock, so at most one caller wins a contested seat, exactly as the SQL
// version guarantees.
type memorySeatRepo struct {
	mu    sync.Mutex
	seats map[uuid.UUID]*seats.Seat
}

func newMemorySeatRepo() *memorySeatRepo {
	return &memorySeatRepo{seats: make(map[uuid.UUID]*seats.Seat)}
}

func (r *memorySeatRepo) addSeat(eventID uuid.UUID, label string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.seats[id] = &seats.Seat{
		ID:        id,
		EventID:   eventID,
		Section:   "Orchestra",
		RowLabel:  "A",
		SeatLabel: label,
		Category:  floorplan.CategoryStandard,
		BasePrice: 50,
		Status:    seats.StatusAvailable,
	}
	return id
}

func (r *memorySeatRepo) setHold(seatID, holderID uuid.UUID, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat := r.seats[seatID]
	seat.Status = seats.StatusHeld
	seat.HolderID = &holderID
	seat.HoldExpiresAt = &expiresAt
}

func (r *memorySeatRepo) status(seatID uuid.UUID) seats.SeatStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seats[seatID].Status
}

func (r *memorySeatRepo) CreateCatalog(ctx context.Context, eventID uuid.UUID, planHash string, seatRows []seats.Seat) error {
	return nil
}

func (r *memorySeatRepo) GetCatalogHash(ctx context.Context, eventID uuid.UUID) (string, error) {
	return "", nil
}

func (r *memorySeatRepo) GetSeatByID(ctx context.Context, eventID, seatID uuid.UUID) (*seats.Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat, ok := r.seats[seatID]
	if !ok || seat.EventID != eventID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *seat
	return &copied, nil
}

func (r *memorySeatRepo) GetSeatsByEvent(ctx context.Context, eventID uuid.UUID, filters seats.ListFilters) ([]seats.Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []seats.Seat
	for _, seat := range r.seats {
		if seat.EventID == eventID {
			out = append(out, *seat)
		}
	}
	return out, nil
}

func (r *memorySeatRepo) GetSeatsByIDs(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) ([]seats.Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]seats.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		if seat, ok := r.seats[id]; ok && seat.EventID == eventID {
			out = append(out, *seat)
		}
	}
	return out, nil
}

func (r *memorySeatRepo) ClaimSeat(ctx context.Context, eventID, seatID, holderID uuid.UUID, expiresAt, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat, ok := r.seats[seatID]
	if !ok || seat.EventID != eventID {
		return false, nil
	}

	claimable := seat.Status == seats.StatusAvailable ||
		(seat.Status == seats.StatusHeld && seat.HoldExpiresAt != nil && !seat.HoldExpiresAt.After(now)) ||
		(seat.Status == seats.StatusHeld && seat.HolderID != nil && *seat.HolderID == holderID)
	if !claimable {
		return false, nil
	}

	seat.Status = seats.StatusHeld
	seat.HolderID = &holderID
	seat.HoldExpiresAt = &expiresAt
	return true, nil
}

func (r *memorySeatRepo) PromoteSeat(ctx context.Context, eventID, seatID, holderID uuid.UUID, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat, ok := r.seats[seatID]
	if !ok || seat.EventID != eventID {
		return false, nil
	}
	if seat.Status != seats.StatusHeld || seat.HolderID == nil || *seat.HolderID != holderID ||
		seat.HoldExpiresAt == nil || !seat.HoldExpiresAt.After(now) {
		return false, nil
	}

	seat.Status = seats.StatusBooked
	seat.HoldExpiresAt = nil
	return true, nil
}

func (r *memorySeatRepo) ReleaseSeat(ctx context.Context, eventID, seatID, holderID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat, ok := r.seats[seatID]
	if !ok || seat.EventID != eventID {
		return false, nil
	}
	if seat.Status != seats.StatusHeld || seat.HolderID == nil || *seat.HolderID != holderID {
		return false, nil
	}

	seat.Status = seats.StatusAvailable
	seat.HolderID = nil
	seat.HoldExpiresAt = nil
	return true, nil
}

func (r *memorySeatRepo) SweepExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, seat := range r.seats {
		if seat.Status == seats.StatusHeld && seat.HoldExpiresAt != nil && !seat.HoldExpiresAt.After(now) {
			seat.Status = seats.StatusAvailable
			seat.HolderID = nil
			seat.HoldExpiresAt = nil
			count++
		}
	}
	return count, nil
}

func (r *memorySeatRepo) CancelBookedSeat(ctx context.Context, eventID, seatID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat, ok := r.seats[seatID]
	if !ok || seat.EventID != eventID || seat.Status != seats.StatusBooked {
		return false, nil
	}
	seat.Status = seats.StatusAvailable
	seat.HolderID = nil
	return true, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Reservation: config.ReservationConfig{
			DefaultHoldTTL:     10 * time.Minute,
			MinHoldTTL:         30 * time.Second,
			MaxHoldTTL:         30 * time.Minute,
			SweepInterval:      30 * time.Second,
			MaxSeatsPerRequest: 10,
		},
	}
}

func newTestEngine() (Service, *memorySeatRepo) {
	repo := newMemorySeatRepo()
	return NewService(repo, testConfig()), repo
}

func TestHoldSeats_GrantsAvailableSeats(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()
	holderID := uuid.New()
	seatA := repo.addSeat(eventID, "1")
	seatB := repo.addSeat(eventID, "2")

	result, err := engine.HoldSeats(context.Background(), eventID.String(),
		[]string{seatA.String(), seatB.String()}, holderID.String(), 0)
	require.NoError(t, err)

	assert.Len(t, result.Granted, 2)
	assert.Empty(t, result.Denied)
	assert.NotEmpty(t, result.HoldExpiresAt)
	assert.Equal(t, seats.StatusHeld, repo.status(seatA))
	assert.Equal(t, seats.StatusHeld, repo.status(seatB))
}

func TestHoldSeats_PartialGrantIsNotAnError(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()
	holderA := uuid.New()
	holderB := uuid.New()
	seat1 := repo.addSeat(eventID, "1")
	seat2 := repo.addSeat(eventID, "2")

	repo.setHold(seat2, holderA, time.Now().UTC().Add(5*time.Minute))

	result, err := engine.HoldSeats(context.Background(), eventID.String(),
		[]string{seat1.String(), seat2.String()}, holderB.String(), 0)
	require.NoError(t, err)

	require.Len(t, result.Granted, 1)
	assert.Equal(t, seat1.String(), result.Granted[0].ID)
	require.Len(t, result.Denied, 1)
	assert.Equal(t, seat2.String(), result.Denied[0].SeatID)
	assert.Equal(t, ReasonSeatUnavailable, result.Denied[0].Reason)
}

func TestHoldSeats_UnknownSeatDeniedPerSeat(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()
	seat1 := repo.addSeat(eventID, "1")
	ghost := uuid.New()

	result, err := engine.HoldSeats(context.Background(), eventID.String(),
		[]string{seat1.String(), ghost.String()}, uuid.New().String(), 0)
	require.NoError(t, err)

	assert.Len(t, result.Granted, 1)
	require.Len(t, result.Denied, 1)
	assert.Equal(t, ghost.String(), result.Denied[0].SeatID)
	assert.Equal(t, ReasonSeatNotFound, result.Denied[0].Reason)
}

func TestHoldSeats_DuplicateIDsCollapse(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()
	seat1 := repo.addSeat(eventID, "1")

	result, err := engine.HoldSeats(context.Background(), eventID.String(),
		[]string{seat1.String(), seat1.String(), seat1.String()}, uuid.New().String(), 0)
	require.NoError(t, err)

	assert.Len(t, result.Granted, 1)
	assert.Empty(t, result.Denied)
}

func TestHoldSeats_RefreshesOwnHold(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()
	holderID := uuid.New()
	seat1 := repo.addSeat(eventID, "1")

	first, err := engine.HoldSeats(context.Background(), eventID.String(),
		[]string{seat1.String()}, holderID.String(), 60)
	require.NoError(t, err)
	require.Len(t, first.Granted, 1)

	second, err := engine.HoldSeats(context.Background(), eventID.String(),
		[]string{seat1.String()}, holderID.String(), 600)
	require.NoError(t, err)
	require.Len(t, second.Granted, 1)
	assert.Empty(t, second.Denied)

	firstExpiry, err := time.Parse(time.RFC3339, first.HoldExpiresAt)
	require.NoError(t, err)
	secondExpiry, err := time.Parse(time.RFC3339, second.HoldExpiresAt)
	require.NoError(t, err)
	assert.True(t, secondExpiry.After(firstExpiry))
}

func TestHoldSeats_ExpiredForeignHoldIsClaimable(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()
	seat1 := repo.addSeat(eventID, "1")

	repo.setHold(seat1, uuid.New(), time.Now().UTC().Add(-time.Minute))

	result, err := engine.HoldSeats(context.Background(), eventID.String(),
		[]string{seat1.String()}, uuid.New().String(), 0)
	require.NoError(t, err)

	assert.Len(t, result.Granted, 1)
	assert.Empty(t, result.Denied)
}

func TestHoldSeats_RejectsOversizedRequest(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()

	ids := make([]string, 0, 11)
	for i := 0; i < 11; i++ {
		ids = append(ids, repo.addSeat(eventID, uuid.NewString()).String())
	}

	_, err := engine.HoldSeats(context.Background(), eventID.String(), ids, uuid.New().String(), 0)
	assert.ErrorIs(t, err, ErrTooManySeats)
}

func TestHoldSeats_NoDoubleHoldUnderContention(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()

	seatIDs := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		seatIDs = append(seatIDs, repo.addSeat(eventID, uuid.NewString()).String())
	}

	const holders = 20
	results := make([]*HoldResult, holders)
	var wg sync.WaitGroup
	for i := 0; i < holders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := engine.HoldSeats(context.Background(), eventID.String(),
				seatIDs, uuid.New().String(), 0)
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	// Every seat is granted exactly once across all holders
	grantedBy := make(map[string]int)
	for _, result := range results {
		for _, seat := range result.Granted {
			grantedBy[seat.ID]++
		}
	}
	assert.Len(t, grantedBy, len(seatIDs))
	for seatID, winners := range grantedBy {
		assert.Equal(t, 1, winners, "seat %s granted to %d holders", seatID, winners)
	}
}

func TestReleaseSeats_Idempotent(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()
	holderID := uuid.New()
	seat1 := repo.addSeat(eventID, "1")

	_, err := engine.HoldSeats(context.Background(), eventID.String(),
		[]string{seat1.String()}, holderID.String(), 0)
	require.NoError(t, err)

	first, err := engine.ReleaseSeats(context.Background(), eventID.String(),
		[]string{seat1.String()}, holderID.String())
	require.NoError(t, err)
	assert.Equal(t, []string{seat1.String()}, first.Released)

	second, err := engine.ReleaseSeats(context.Background(), eventID.String(),
		[]string{seat1.String()}, holderID.String())
	require.NoError(t, err)
	assert.Empty(t, second.Released)
	assert.Equal(t, []string{seat1.String()}, second.Skipped)
}

func TestReleaseSeats_ForeignHoldSkipped(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()
	seat1 := repo.addSeat(eventID, "1")
	owner := uuid.New()

	repo.setHold(seat1, owner, time.Now().UTC().Add(5*time.Minute))

	result, err := engine.ReleaseSeats(context.Background(), eventID.String(),
		[]string{seat1.String()}, uuid.New().String())
	require.NoError(t, err)

	assert.Empty(t, result.Released)
	assert.Equal(t, []string{seat1.String()}, result.Skipped)
	assert.Equal(t, seats.StatusHeld, repo.status(seat1))
}

func TestConfirmBooking_PromotesLiveHolds(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()
	holderID := uuid.New()
	seat1 := repo.addSeat(eventID, "1")
	seat2 := repo.addSeat(eventID, "2")

	_, err := engine.HoldSeats(context.Background(), eventID.String(),
		[]string{seat1.String(), seat2.String()}, holderID.String(), 0)
	require.NoError(t, err)

	result, err := engine.ConfirmBooking(context.Background(), eventID.String(),
		[]string{seat1.String(), seat2.String()}, holderID.String())
	require.NoError(t, err)

	assert.Len(t, result.Booked, 2)
	assert.Empty(t, result.Failed)
	assert.Equal(t, seats.StatusBooked, repo.status(seat1))
	assert.Equal(t, seats.StatusBooked, repo.status(seat2))
}

func TestConfirmBooking_ExpiredHoldFailsBeforeSweep(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()
	holderID := uuid.New()
	seat1 := repo.addSeat(eventID, "1")

	// Expired but not yet swept: still HELD in storage
	repo.setHold(seat1, holderID, time.Now().UTC().Add(-time.Second))

	result, err := engine.ConfirmBooking(context.Background(), eventID.String(),
		[]string{seat1.String()}, holderID.String())
	require.NoError(t, err)

	assert.Empty(t, result.Booked)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, ReasonHoldExpired, result.Failed[0].Reason)
	assert.Equal(t, seats.StatusHeld, repo.status(seat1))
}

func TestConfirmBooking_ForeignHoldFails(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()
	seat1 := repo.addSeat(eventID, "1")

	repo.setHold(seat1, uuid.New(), time.Now().UTC().Add(5*time.Minute))

	result, err := engine.ConfirmBooking(context.Background(), eventID.String(),
		[]string{seat1.String()}, uuid.New().String())
	require.NoError(t, err)

	assert.Empty(t, result.Booked)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, ReasonNotHolder, result.Failed[0].Reason)
}

func TestConfirmBooking_RepeatedConfirmStaysBooked(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()
	holderID := uuid.New()
	seat1 := repo.addSeat(eventID, "1")

	_, err := engine.HoldSeats(context.Background(), eventID.String(),
		[]string{seat1.String()}, holderID.String(), 0)
	require.NoError(t, err)

	first, err := engine.ConfirmBooking(context.Background(), eventID.String(),
		[]string{seat1.String()}, holderID.String())
	require.NoError(t, err)
	require.Len(t, first.Booked, 1)

	second, err := engine.ConfirmBooking(context.Background(), eventID.String(),
		[]string{seat1.String()}, holderID.String())
	require.NoError(t, err)
	assert.Len(t, second.Booked, 1)
	assert.Empty(t, second.Failed)
}

func TestExpireStaleHolds_ReclaimsOnlyLapsedHolds(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()
	lapsed := repo.addSeat(eventID, "1")
	live := repo.addSeat(eventID, "2")

	now := time.Now().UTC()
	repo.setHold(lapsed, uuid.New(), now.Add(-time.Minute))
	repo.setHold(live, uuid.New(), now.Add(5*time.Minute))

	count, err := engine.ExpireStaleHolds(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), count)
	assert.Equal(t, seats.StatusAvailable, repo.status(lapsed))
	assert.Equal(t, seats.StatusHeld, repo.status(live))
}

func TestExpireStaleHolds_ConcurrentWithHolds(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()

	seatIDs := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		id := repo.addSeat(eventID, uuid.NewString())
		repo.setHold(id, uuid.New(), time.Now().UTC().Add(-time.Minute))
		seatIDs = append(seatIDs, id.String())
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.ExpireStaleHolds(context.Background(), time.Now().UTC())
			assert.NoError(t, err)
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.HoldSeats(context.Background(), eventID.String(),
				seatIDs, uuid.New().String(), 0)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Every seat ends HELD (won by some holder) or AVAILABLE (swept and not
	// re-held); none stuck with a stale hold, none double-held.
	for _, raw := range seatIDs {
		id := uuid.MustParse(raw)
		status := repo.status(id)
		assert.Contains(t, []seats.SeatStatus{seats.StatusAvailable, seats.StatusHeld}, status)
	}
}

// Two parties contend for an overlapping pair of seats, then the winner
// completes checkout.
func TestHoldConfirmFlow_OverlappingParties(t *testing.T) {
	engine, repo := newTestEngine()
	eventID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	seat1 := repo.addSeat(eventID, "1")
	seat2 := repo.addSeat(eventID, "2")
	seat3 := repo.addSeat(eventID, "3")

	aliceHold, err := engine.HoldSeats(context.Background(), eventID.String(),
		[]string{seat1.String(), seat2.String()}, alice.String(), 0)
	require.NoError(t, err)
	require.Len(t, aliceHold.Granted, 2)

	bobHold, err := engine.HoldSeats(context.Background(), eventID.String(),
		[]string{seat2.String(), seat3.String()}, bob.String(), 0)
	require.NoError(t, err)
	require.Len(t, bobHold.Granted, 1)
	assert.Equal(t, seat3.String(), bobHold.Granted[0].ID)
	require.Len(t, bobHold.Denied, 1)
	assert.Equal(t, seat2.String(), bobHold.Denied[0].SeatID)

	confirmed, err := engine.ConfirmBooking(context.Background(), eventID.String(),
		[]string{seat1.String(), seat2.String()}, alice.String())
	require.NoError(t, err)
	assert.Len(t, confirmed.Booked, 2)
	assert.Empty(t, confirmed.Failed)

	// Bob cannot confirm what he never held
	bobConfirm, err := engine.ConfirmBooking(context.Background(), eventID.String(),
		[]string{seat2.String()}, bob.String())
	require.NoError(t, err)
	assert.Empty(t, bobConfirm.Booked)
	require.Len(t, bobConfirm.Failed, 1)
	assert.Equal(t, ReasonSeatUnavailable, bobConfirm.Failed[0].Reason)
}
