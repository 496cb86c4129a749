package get_available_slots

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
	"github.com/Abhijat05/QuickCourt-sub001/pkg/ptr"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

var day = time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)

type cacheKey struct {
	courtID    int64
	generation int64
}

type mapCache struct {
	data        map[cacheKey][]domain.AvailabilitySlot
	generations map[int64]int64
	getErr      error
	gets        int
	results     []string
}

func newMapCache() *mapCache {
	return &mapCache{
		data:        make(map[cacheKey][]domain.AvailabilitySlot),
		generations: make(map[int64]int64),
	}
}

func (c *mapCache) Generation(_ context.Context, courtID int64, _ time.Time) (int64, error) {
	return c.generations[courtID], nil
}

func (c *mapCache) Get(_ context.Context, courtID int64, _ time.Time, generation int64) ([]domain.AvailabilitySlot, bool, error) {
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	slots, ok := c.data[cacheKey{courtID, generation}]
	return slots, ok, nil
}

func (c *mapCache) Set(_ context.Context, courtID int64, _ time.Time, generation int64, slots []domain.AvailabilitySlot) error {
	c.data[cacheKey{courtID, generation}] = slots
	return nil
}

func (c *mapCache) Invalidate(courtID int64) {
	c.generations[courtID]++
}

func (c *mapCache) RecordCache(result string) {
	c.results = append(c.results, result)
}

func newUseCase(t *testing.T) (*UseCase, *memstore.Store, *mapCache) {
	t.Helper()
	store := memstore.New()
	store.AddCourt(domain.Court{ID: 1, Name: "A", PricePerHour: 20, IsActive: true})
	store.AddCourt(domain.Court{
		ID: 2, Name: "B", PricePerHour: 20, IsActive: true,
		OpeningTime: ptr.Ptr(types.MustTimeString("09:00")),
		ClosingTime: ptr.Ptr(types.MustTimeString("12:30")),
	})
	store.AddCourt(domain.Court{
		ID: 7, Name: "Late", PricePerHour: 20, IsActive: true,
		OpeningTime: ptr.Ptr(types.MustTimeString("23:00")),
	})
	store.AddCourt(domain.Court{ID: 8, Name: "Closed", PricePerHour: 20, IsActive: false})
	cache := newMapCache()
	uc := NewUseCase(store.Bookings(), store.Courts(), cache, cache,
		domain.VenueSettings{DefaultHours: domain.DefaultOperatingHours}, logger.Nop())
	return uc, store, cache
}

func TestExecute_DefaultWindowGrid(t *testing.T) {
	uc, store, _ := newUseCase(t)
	store.AddBooking(domain.Booking{CourtID: 1, BookingDate: day, StartTime: "10:00", EndTime: "12:00", Status: domain.StatusConfirmed})
	store.AddBooking(domain.Booking{CourtID: 1, BookingDate: day, StartTime: "14:00", EndTime: "15:00", Status: domain.StatusCancelled})

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: day})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 16)
	assert.Equal(t, types.TimeString("06:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("22:00"), resp.Slots[15].EndTime)
	assert.Equal(t, 14, resp.AvailableCount)

	blocked := make([]string, 0)
	for _, s := range resp.Slots {
		if !s.Available {
			blocked = append(blocked, s.StartTime.String())
		}
	}
	assert.Equal(t, []string{"10:00", "11:00"}, blocked)
}

func TestExecute_CourtHoursDropPartialTail(t *testing.T) {
	uc, _, _ := newUseCase(t)

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 2, Date: day})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("12:00"), resp.Slots[2].EndTime)
}

func TestExecute_UsesCache(t *testing.T) {
	uc, store, cache := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{CourtID: 1, Date: day})
	require.NoError(t, err)

	// A booking written behind the cache's back stays invisible until invalidation.
	store.AddBooking(domain.Booking{CourtID: 1, BookingDate: day, StartTime: "06:00", EndTime: "07:00", Status: domain.StatusConfirmed})

	resp, err := uc.Execute(ctx, &Request{CourtID: 1, Date: day})
	require.NoError(t, err)
	assert.True(t, resp.Slots[0].Available)
	assert.Equal(t, []string{metrics.CacheMiss, metrics.CacheHit}, cache.results)
}

func TestExecute_InvalidationHidesGridProjectedEarlier(t *testing.T) {
	uc, store, cache := newUseCase(t)
	ctx := context.Background()

	// Grid stored under generation 0, then a booking commits and invalidates.
	_, err := uc.Execute(ctx, &Request{CourtID: 1, Date: day})
	require.NoError(t, err)
	store.AddBooking(domain.Booking{CourtID: 1, BookingDate: day, StartTime: "06:00", EndTime: "07:00", Status: domain.StatusConfirmed})
	cache.Invalidate(1)

	resp, err := uc.Execute(ctx, &Request{CourtID: 1, Date: day})
	require.NoError(t, err)
	assert.False(t, resp.Slots[0].Available)
	assert.Equal(t, []string{metrics.CacheMiss, metrics.CacheMiss}, cache.results)
}

func TestExecute_CacheErrorFallsBackToProjection(t *testing.T) {
	uc, _, cache := newUseCase(t)
	cache.getErr = errors.New("redis down")

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: day})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 16)
	assert.Equal(t, []string{metrics.CacheError}, cache.results)
}

func TestExecute_Errors(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{CourtID: 0, Date: day})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{CourtID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{CourtID: 77, Date: day})
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestExecute_InactiveCourtNotFound(t *testing.T) {
	uc, _, cache := newUseCase(t)

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 8, Date: day})
	assert.ErrorIs(t, err, ErrCourtNotFound)
	assert.Nil(t, resp)
	assert.Zero(t, cache.gets)
}

func TestExecute_InvertedWindowYieldsEmptyGrid(t *testing.T) {
	uc, _, _ := newUseCase(t)

	var (
		resp *Response
		err  error
	)
	require.NotPanics(t, func() {
		resp, err = uc.Execute(context.Background(), &Request{CourtID: 7, Date: day})
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Zero(t, resp.AvailableCount)
	assert.Equal(t, types.TimeString("23:00"), resp.OpeningTime)
}
