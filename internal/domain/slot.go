package domain

import (
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

// AvailabilitySlot represents one cell of a court's daily availability grid
type AvailabilitySlot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
}

// CountAvailable returns the number of free slots in the grid
func CountAvailable(slots []AvailabilitySlot) int {
	n := 0
	for _, s := range slots {
		if s.Available {
			n++
		}
	}
	return n
}

// CourtDay identifies one court's schedule on one date
type CourtDay struct {
	CourtID int64
	Date    time.Time
}
