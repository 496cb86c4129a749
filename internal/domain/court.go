package domain

import (
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

// Court represents a bookable physical resource inside a venue.
// Operating hours are optional; when absent the venue defaults apply.
type Court struct {
	ID           int64
	VenueID      int64
	Name         string
	SportType    string
	PricePerHour float64
	OpeningTime  *types.TimeString
	ClosingTime  *types.TimeString
	IsActive     bool
}

// OperatingHours is the daily window a court can be booked in
type OperatingHours struct {
	Opening types.TimeString
	Closing types.TimeString
}

// DefaultOperatingHours are used when neither court nor config provides hours
var DefaultOperatingHours = OperatingHours{
	Opening: types.TimeString(DefaultOpeningTime),
	Closing: types.TimeString(DefaultClosingTime),
}

// OperatingWindow returns the court's hours, falling back to defaults per bound
func (c *Court) OperatingWindow(defaults OperatingHours) OperatingHours {
	hours := defaults
	if c.OpeningTime != nil && !c.OpeningTime.IsZero() {
		hours.Opening = *c.OpeningTime
	}
	if c.ClosingTime != nil && !c.ClosingTime.IsZero() {
		hours.Closing = *c.ClosingTime
	}
	return hours
}

// Valid reports whether closing is strictly after opening
func (h OperatingHours) Valid() bool {
	return h.Closing.IsAfter(h.Opening)
}

// Contains returns true if the slot lies fully inside the window
func (h OperatingHours) Contains(slot TimeSlot) bool {
	return !slot.Start.IsBefore(h.Opening) && !slot.End.IsAfter(h.Closing)
}

// VenueSettings are the venue-wide defaults applied to every court
type VenueSettings struct {
	DefaultHours OperatingHours
	Location     *time.Location
}

// Loc returns the venue timezone, UTC when unset
func (v VenueSettings) Loc() *time.Location {
	if v.Location == nil {
		return time.UTC
	}
	return v.Location
}
