package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	bookingRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/booking"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster"
	"github.com/Abhijat05/QuickCourt-sub001/internal/testutil/memstore"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/logger"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/metrics"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/ptr"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

var (
	fixedNow = time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	tomorrow = time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeCache struct {
	mu          sync.Mutex
	invalidated []string
	err         error
}

func (c *fakeCache) Invalidate(_ context.Context, courtID int64, date time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, date.Format(domain.DateFormat))
	return c.err
}

type recordingMetrics struct {
	mu      sync.Mutex
	results map[string]int
	roster  map[string]int
}

func (m *recordingMetrics) RecordRosterOperation(operation, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roster == nil {
		m.roster = make(map[string]int)
	}
	m.roster[operation+"/"+result]++
}

func (m *recordingMetrics) RecordBooking(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = make(map[string]int)
	}
	m.results[result]++
}

type fixture struct {
	store   *memstore.Store
	cache   *fakeCache
	metrics *recordingMetrics
	uc      *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	store.AddCourt(domain.Court{ID: 1, VenueID: 1, Name: "Court A", SportType: "badminton", PricePerHour: 20, IsActive: true})
	store.AddCourt(domain.Court{
		ID: 2, VenueID: 1, Name: "Court B", PricePerHour: 30, IsActive: true,
		OpeningTime: ptr.Ptr(types.MustTimeString("08:00")),
		ClosingTime: ptr.Ptr(types.MustTimeString("12:00")),
	})
	store.AddCourt(domain.Court{ID: 3, VenueID: 1, Name: "Closed court", PricePerHour: 10, IsActive: false})

	venue := domain.VenueSettings{DefaultHours: domain.DefaultOperatingHours, Location: time.UTC}
	games := roster.NewService(store.Games(), store.Bookings(), &nopNotifier{}, metrics.Nop{}, store.TxManager(), venue, logger.Nop()).
		WithTimeProvider(fixedClock{now: fixedNow})

	cache := &fakeCache{}
	m := &recordingMetrics{}
	uc := NewUseCase(store.Bookings(), store.Courts(), games, cache, m, store.TxManager(), venue, logger.Nop()).
		WithTimeProvider(fixedClock{now: fixedNow})

	return &fixture{store: store, cache: cache, metrics: m, uc: uc}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, int64, string, string) error { return nil }

func request(courtID int64, start, end string) *Request {
	return &Request{
		UserID:    10,
		CourtID:   courtID,
		Date:      tomorrow,
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
	}
}

func TestExecute_CreatesConfirmedBooking(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), request(1, "10:00", "12:00"))
	require.NoError(t, err)

	assert.Positive(t, resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, 40.0, resp.TotalPrice)
	assert.Nil(t, resp.Game)
	assert.Equal(t, []string{"2025-10-16"}, f.cache.invalidated)
	assert.Equal(t, 1, f.metrics.results[metrics.ResultSuccess])
}

func TestExecute_TouchingSlotsAreAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request(1, "08:00", "10:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(1, "10:00", "11:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(1, "09:00", "11:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	assert.Equal(t, 2, f.store.BookingCount())
	assert.Equal(t, 1, f.metrics.results[metrics.ResultConflict])
}

func TestExecute_OverlapCases(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantErr    error
	}{
		{name: "partial overlap at start", start: "09:00", end: "11:00", wantErr: ErrSlotNotAvailable},
		{name: "partial overlap at end", start: "11:00", end: "13:00", wantErr: ErrSlotNotAvailable},
		{name: "contained", start: "10:00", end: "11:00", wantErr: ErrSlotNotAvailable},
		{name: "containing", start: "09:00", end: "13:00", wantErr: ErrSlotNotAvailable},
		{name: "identical", start: "10:00", end: "12:00", wantErr: ErrSlotNotAvailable},
		{name: "touching after", start: "12:00", end: "13:00"},
		{name: "touching before", start: "08:00", end: "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			_, err := f.uc.Execute(ctx, request(1, "10:00", "12:00"))
			require.NoError(t, err)

			_, err = f.uc.Execute(ctx, request(1, tt.start, tt.end))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	f.store.AddBooking(domain.Booking{
		CourtID: 1, UserID: 5, BookingDate: tomorrow,
		StartTime: "10:00", EndTime: "12:00", Status: domain.StatusCancelled,
	})

	_, err := f.uc.Execute(context.Background(), request(1, "10:00", "12:00"))
	assert.NoError(t, err)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "missing user", req: &Request{CourtID: 1, Date: tomorrow, StartTime: "10:00", EndTime: "11:00"}, wantErr: ErrInvalidInput},
		{name: "end before start", req: request(1, "12:00", "10:00"), wantErr: ErrInvalidInput},
		{name: "bad format", req: request(1, "10h", "11:00"), wantErr: ErrInvalidInput},
		{name: "unknown court", req: request(99, "10:00", "11:00"), wantErr: ErrCourtNotFound},
		{name: "inactive court", req: request(3, "10:00", "11:00"), wantErr: ErrCourtNotFound},
		{name: "before default opening", req: request(1, "05:00", "07:00"), wantErr: ErrInvalidTimeSlot},
		{name: "after default closing", req: request(1, "21:00", "23:00"), wantErr: ErrInvalidTimeSlot},
		{name: "outside court hours", req: request(2, "11:00", "13:00"), wantErr: ErrInvalidTimeSlot},
		{
			name:    "already started today",
			req:     &Request{UserID: 10, CourtID: 1, Date: fixedNow, StartTime: "09:00", EndTime: "10:00"},
			wantErr: ErrBookingInPast,
		},
		{
			name: "invalid game options",
			req: &Request{UserID: 10, CourtID: 1, Date: tomorrow, StartTime: "10:00", EndTime: "11:00",
				Game: &domain.GameOptions{Title: "Doubles", MaxPlayers: 51}},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.store.BookingCount())
		})
	}
}

func TestExecute_WithGameOpensRoster(t *testing.T) {
	f := newFixture(t)
	req := request(1, "18:00", "20:00")
	req.Game = &domain.GameOptions{Title: "Friday smash", MaxPlayers: 4}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Game)

	assert.Equal(t, 1, resp.Game.CurrentPlayers)
	assert.Equal(t, string(domain.GameStatusOpen), resp.Game.Status)
	assert.Equal(t, string(domain.SkillAny), resp.Game.SkillLevel)
	assert.Equal(t, 1, f.store.ParticipantCount(resp.Game.ID))
	assert.Equal(t, 1, f.metrics.roster[metrics.RosterOpCreate+"/"+metrics.ResultSuccess])
}

func TestExecute_CacheFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	f.cache.err = errors.New("redis unavailable")

	_, err := f.uc.Execute(context.Background(), request(1, "10:00", "11:00"))
	assert.NoError(t, err)
}

func TestExecute_ConcurrentConflictingRequestsOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			req := request(1, "10:00", "12:00")
			req.UserID = userID
			_, err := f.uc.Execute(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotNotAvailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, f.store.BookingCount())
}

// constraintRepo accepts the conflict check and fails the insert
// the way the exclusion constraint does under a concurrent commit.
type constraintRepo struct {
	created int
}

func (r *constraintRepo) LockCourtDay(context.Context, int64, time.Time) error { return nil }

func (r *constraintRepo) GetConfirmedByCourtAndDate(context.Context, int64, time.Time) ([]*domain.Booking, error) {
	return []*domain.Booking{}, nil
}

func (r *constraintRepo) Create(context.Context, *domain.Booking) (*domain.Booking, error) {
	r.created++
	return nil, fmt.Errorf("%w: Create - exclusion constraint bookings_no_overlap", bookingRepo.ErrSlotNotAvailable)
}

type countingGames struct {
	calls int
}

func (g *countingGames) InitializeGame(context.Context, *domain.Booking, domain.GameOptions) (*domain.PublicGame, error) {
	g.calls++
	return &domain.PublicGame{}, nil
}

func TestExecute_StoreConstraintRejectsAfterResolverAccepts(t *testing.T) {
	store := memstore.New()
	store.AddCourt(domain.Court{ID: 1, VenueID: 1, Name: "Court A", PricePerHour: 20, IsActive: true})
	venue := domain.VenueSettings{DefaultHours: domain.DefaultOperatingHours, Location: time.UTC}

	repo := &constraintRepo{}
	games := &countingGames{}
	cache := &fakeCache{}
	m := &recordingMetrics{}
	uc := NewUseCase(repo, store.Courts(), games, cache, m, store.TxManager(), venue, logger.Nop()).
		WithTimeProvider(fixedClock{now: fixedNow})

	req := request(1, "10:00", "12:00")
	req.Game = &domain.GameOptions{Title: "Doubles", MaxPlayers: 4}

	resp, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, resp)

	assert.Equal(t, 1, repo.created)
	assert.Zero(t, games.calls)
	assert.Empty(t, cache.invalidated)
	assert.Equal(t, 1, m.results[metrics.ResultConflict])
	assert.Zero(t, m.results[metrics.ResultSuccess])
	assert.Empty(t, m.roster)
}
