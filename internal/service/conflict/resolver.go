// Package conflict decides whether a proposed slot collides with existing bookings.
// Both booking creation and the availability grid use the same predicate.
package conflict

import "github.com/Abhijat05/QuickCourt-sub001/internal/domain"

// IsAcceptable returns false iff the proposed slot overlaps any existing slot
func IsAcceptable(existing []domain.TimeSlot, proposed domain.TimeSlot) bool {
	for _, slot := range existing {
		if slot.Overlaps(proposed) {
			return false
		}
	}
	return true
}

// FindConflicts returns the confirmed bookings that overlap the proposed slot
func FindConflicts(bookings []*domain.Booking, proposed domain.TimeSlot) []*domain.Booking {
	var conflicts []*domain.Booking
	for _, b := range bookings {
		if b == nil || b.Status != domain.StatusConfirmed {
			continue
		}
		if b.Slot().Overlaps(proposed) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}

// IsBlocked returns true if any confirmed booking overlaps the slot
func IsBlocked(bookings []*domain.Booking, slot domain.TimeSlot) bool {
	return len(FindConflicts(bookings, slot)) > 0
}

// ConfirmedSlots extracts the slots of confirmed bookings
func ConfirmedSlots(bookings []*domain.Booking) []domain.TimeSlot {
	slots := make([]domain.TimeSlot, 0, len(bookings))
	for _, b := range bookings {
		if b != nil && b.Status == domain.StatusConfirmed {
			slots = append(slots, b.Slot())
		}
	}
	return slots
}
