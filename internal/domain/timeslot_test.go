package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

var testDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

func slot(t *testing.T, start, end string) TimeSlot {
	t.Helper()
	s, err := NewTimeSlot(testDate, types.MustTimeString(start), types.MustTimeString(end))
	require.NoError(t, err)
	return s
}

func TestNewTimeSlot(t *testing.T) {
	_, err := NewTimeSlot(testDate, "10:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)

	_, err = NewTimeSlot(testDate, "11:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)

	_, err = NewTimeSlot(testDate, "1000", "11:00")
	assert.ErrorIs(t, err, types.ErrInvalidTimeString)

	s, err := NewTimeSlot(testDate.Add(15*time.Hour), "10:00", "11:30")
	require.NoError(t, err)
	assert.Equal(t, testDate, s.Date)
	assert.Equal(t, 90, s.DurationMinutes())
}

func TestTimeSlot_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b [2]string
		want bool
	}{
		{name: "identical", a: [2]string{"10:00", "11:00"}, b: [2]string{"10:00", "11:00"}, want: true},
		{name: "partial", a: [2]string{"08:00", "10:00"}, b: [2]string{"09:00", "11:00"}, want: true},
		{name: "contained", a: [2]string{"08:00", "12:00"}, b: [2]string{"09:00", "10:00"}, want: true},
		{name: "touching end", a: [2]string{"08:00", "09:00"}, b: [2]string{"09:00", "10:00"}, want: false},
		{name: "touching start", a: [2]string{"09:00", "10:00"}, b: [2]string{"08:00", "09:00"}, want: false},
		{name: "disjoint", a: [2]string{"06:00", "07:00"}, b: [2]string{"20:00", "21:00"}, want: false},
		{name: "half hour", a: [2]string{"08:30", "09:30"}, b: [2]string{"09:00", "10:00"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := slot(t, tt.a[0], tt.a[1])
			b := slot(t, tt.b[0], tt.b[1])
			assert.Equal(t, tt.want, a.Overlaps(b))
			assert.Equal(t, tt.want, b.Overlaps(a))
		})
	}
}

func TestTimeSlot_OverlapsDifferentDates(t *testing.T) {
	a := slot(t, "10:00", "11:00")
	b := a
	b.Date = testDate.AddDate(0, 0, 1)

	assert.False(t, a.Overlaps(b))
}

func TestTimeSlot_WholeHours(t *testing.T) {
	assert.Equal(t, 2, slot(t, "08:00", "10:00").WholeHours())
	assert.True(t, slot(t, "08:00", "10:00").IsWholeHours())

	// 08:30-09:30 is priced on hour components only
	assert.Equal(t, 1, slot(t, "08:30", "09:30").WholeHours())
	assert.False(t, slot(t, "08:30", "09:30").IsWholeHours())
}

func TestTimeSlot_Instants(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	s := slot(t, "08:00", "09:30")

	assert.Equal(t, time.Date(2025, 10, 15, 8, 0, 0, 0, loc), s.StartsAt(loc))
	assert.Equal(t, time.Date(2025, 10, 15, 9, 30, 0, 0, loc), s.EndsAt(loc))
}

func TestCourt_OperatingWindow(t *testing.T) {
	opening := types.MustTimeString("08:00")
	court := &Court{OpeningTime: &opening}

	hours := court.OperatingWindow(DefaultOperatingHours)

	assert.Equal(t, opening, hours.Opening)
	assert.Equal(t, types.TimeString(DefaultClosingTime), hours.Closing)
	assert.True(t, hours.Contains(slot(t, "08:00", "22:00")))
	assert.False(t, hours.Contains(slot(t, "07:00", "09:00")))
	assert.False(t, hours.Contains(slot(t, "21:00", "23:00")))
}

func TestOperatingHours_Valid(t *testing.T) {
	assert.True(t, DefaultOperatingHours.Valid())

	// Only the opening bound set, later than the default close.
	late := types.MustTimeString("23:00")
	inverted := (&Court{OpeningTime: &late}).OperatingWindow(DefaultOperatingHours)
	assert.False(t, inverted.Valid())
	assert.False(t, inverted.Contains(slot(t, "23:00", "23:30")))

	empty := OperatingHours{Opening: "10:00", Closing: "10:00"}
	assert.False(t, empty.Valid())
}
