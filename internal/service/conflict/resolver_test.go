package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

var day = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

func mustSlot(t *testing.T, start, end string) domain.TimeSlot {
	t.Helper()
	s, err := domain.NewTimeSlot(day, types.MustTimeString(start), types.MustTimeString(end))
	require.NoError(t, err)
	return s
}

func booking(id int64, start, end string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		BookingDate: day,
		StartTime:   types.MustTimeString(start),
		EndTime:     types.MustTimeString(end),
		Status:      status,
	}
}

func TestIsAcceptable(t *testing.T) {
	existing := []domain.TimeSlot{
		mustSlot(t, "08:00", "09:00"),
		mustSlot(t, "12:00", "14:00"),
	}

	assert.True(t, IsAcceptable(existing, mustSlot(t, "09:00", "10:00")), "touching end")
	assert.True(t, IsAcceptable(existing, mustSlot(t, "10:00", "12:00")), "touching start")
	assert.False(t, IsAcceptable(existing, mustSlot(t, "08:30", "09:30")))
	assert.False(t, IsAcceptable(existing, mustSlot(t, "11:00", "15:00")))
	assert.True(t, IsAcceptable(nil, mustSlot(t, "06:00", "22:00")))
}

func TestFindConflicts_IgnoresInactive(t *testing.T) {
	bookings := []*domain.Booking{
		booking(1, "08:00", "10:00", domain.StatusCancelled),
		booking(2, "09:00", "11:00", domain.StatusConfirmed),
		booking(3, "08:00", "09:00", domain.StatusCompleted),
		nil,
	}

	conflicts := FindConflicts(bookings, mustSlot(t, "08:00", "10:00"))

	require.Len(t, conflicts, 1)
	assert.Equal(t, int64(2), conflicts[0].ID)
}

func TestIsBlocked_MatchesIsAcceptable(t *testing.T) {
	bookings := []*domain.Booking{
		booking(1, "08:00", "10:00", domain.StatusConfirmed),
		booking(2, "15:30", "16:30", domain.StatusConfirmed),
		booking(3, "18:00", "19:00", domain.StatusCancelled),
	}
	slots := ConfirmedSlots(bookings)
	require.Len(t, slots, 2)

	for hour := 6; hour < 22; hour++ {
		start, _ := types.FromMinutes(hour * 60)
		end, _ := types.FromMinutes((hour + 1) * 60)
		candidate := mustSlot(t, start.String(), end.String())

		assert.Equal(t, !IsAcceptable(slots, candidate), IsBlocked(bookings, candidate), candidate.String())
	}
}
