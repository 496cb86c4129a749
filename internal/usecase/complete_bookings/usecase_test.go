package complete_bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	"github.com/Abhijat05/QuickCourt-sub001/internal/testutil/memstore"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/logger"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/metrics"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type failingRepo struct{}

func (failingRepo) CompleteEnded(context.Context, time.Time) ([]domain.CourtDay, error) {
	return nil, errors.New("connection reset")
}

type recordingCache struct {
	invalidated []domain.CourtDay
}

func (c *recordingCache) Invalidate(_ context.Context, courtID int64, date time.Time) error {
	c.invalidated = append(c.invalidated, domain.CourtDay{CourtID: courtID, Date: date})
	return nil
}

func TestExecute_CompletesOnlyEndedConfirmedBookings(t *testing.T) {
	store := memstore.New()
	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	ended := store.AddBooking(domain.Booking{CourtID: 1, BookingDate: day, StartTime: "08:00", EndTime: "10:00", Status: domain.StatusConfirmed})
	endsNow := store.AddBooking(domain.Booking{CourtID: 1, BookingDate: day, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed})
	running := store.AddBooking(domain.Booking{CourtID: 1, BookingDate: day, StartTime: "11:00", EndTime: "12:00", Status: domain.StatusConfirmed})
	cancelled := store.AddBooking(domain.Booking{CourtID: 2, BookingDate: day, StartTime: "07:00", EndTime: "08:00", Status: domain.StatusCancelled})

	cache := &recordingCache{}
	uc := NewUseCase(store.Bookings(), cache, metrics.Nop{}, domain.VenueSettings{Location: time.UTC}, logger.Nop()).
		WithTimeProvider(fixedClock{now: time.Date(2025, 10, 15, 11, 0, 0, 0, time.UTC)})

	n, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	statuses := map[int64]domain.BookingStatus{}
	for _, id := range []int64{ended, endsNow, running, cancelled} {
		b, err := store.Bookings().GetByID(context.Background(), id)
		require.NoError(t, err)
		statuses[id] = b.Status
	}
	assert.Equal(t, domain.StatusCompleted, statuses[ended])
	assert.Equal(t, domain.StatusCompleted, statuses[endsNow])
	assert.Equal(t, domain.StatusConfirmed, statuses[running])
	assert.Equal(t, domain.StatusCancelled, statuses[cancelled])

	// Two bookings on the same court-day invalidate it once.
	assert.Equal(t, []domain.CourtDay{{CourtID: 1, Date: day}}, cache.invalidated)
}

func TestExecute_UsesVenueTimezone(t *testing.T) {
	store := memstore.New()
	loc := time.FixedZone("UTC+5", 5*60*60)
	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	id := store.AddBooking(domain.Booking{CourtID: 1, BookingDate: day, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed})

	// 06:30 UTC is 11:30 at the venue.
	uc := NewUseCase(store.Bookings(), &recordingCache{}, metrics.Nop{}, domain.VenueSettings{Location: loc}, logger.Nop()).
		WithTimeProvider(fixedClock{now: time.Date(2025, 10, 15, 6, 30, 0, 0, time.UTC)})

	n, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	b, err := store.Bookings().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, b.Status)
}

func TestExecute_RepositoryError(t *testing.T) {
	cache := &recordingCache{}
	uc := NewUseCase(failingRepo{}, cache, metrics.Nop{}, domain.VenueSettings{}, logger.Nop())

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, cache.invalidated)
}
