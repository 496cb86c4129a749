package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

var (
	// ErrInvalidTimeSlot возвращается, когда начало слота не раньше конца
	ErrInvalidTimeSlot = errors.New("domain: start time must be before end time")
)

// TimeSlot is a half-open interval [Start, End) on a single date.
// Dates are calendar days; only year, month and day are meaningful.
type TimeSlot struct {
	Date  time.Time
	Start types.TimeString
	End   types.TimeString
}

// NewTimeSlot validates both times and their order
func NewTimeSlot(date time.Time, start, end types.TimeString) (TimeSlot, error) {
	if err := start.Validate(); err != nil {
		return TimeSlot{}, fmt.Errorf("start: %w", err)
	}
	if err := end.Validate(); err != nil {
		return TimeSlot{}, fmt.Errorf("end: %w", err)
	}
	if !start.IsBefore(end) {
		return TimeSlot{}, fmt.Errorf("%w: %s-%s", ErrInvalidTimeSlot, start, end)
	}
	return TimeSlot{Date: DateOnly(date), Start: start, End: end}, nil
}

// SameDate returns true if both slots are on the same calendar day
func (s TimeSlot) SameDate(other TimeSlot) bool {
	y1, m1, d1 := s.Date.Date()
	y2, m2, d2 := other.Date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Overlaps reports whether two slots on the same date intersect.
// Touching slots (one ends when the other starts) do not overlap.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	if !s.SameDate(other) {
		return false
	}
	return s.Start.Minutes() < other.End.Minutes() && other.Start.Minutes() < s.End.Minutes()
}

// DurationMinutes returns the slot length
func (s TimeSlot) DurationMinutes() int {
	return s.End.Minutes() - s.Start.Minutes()
}

// WholeHours returns the hour-component difference used for pricing
func (s TimeSlot) WholeHours() int {
	return s.End.Hour() - s.Start.Hour()
}

// IsWholeHours returns true if both bounds fall on the hour
func (s TimeSlot) IsWholeHours() bool {
	return s.Start.IsWholeHour() && s.End.IsWholeHour()
}

// StartsAt returns the start instant in the given location
func (s TimeSlot) StartsAt(loc *time.Location) time.Time {
	return s.Start.On(s.Date, loc)
}

// EndsAt returns the end instant in the given location
func (s TimeSlot) EndsAt(loc *time.Location) time.Time {
	return s.End.On(s.Date, loc)
}

func (s TimeSlot) String() string {
	return fmt.Sprintf("%s %s-%s", s.Date.Format(DateFormat), s.Start, s.End)
}

// DateOnly strips the time of day, keeping the calendar date in UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
