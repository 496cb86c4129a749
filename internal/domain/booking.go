package domain

import (
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Booking represents a court reservation for one time slot on one date.
// Court, date and times never change after creation.
type Booking struct {
	ID          int64
	CourtID     int64
	UserID      int64
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Status      BookingStatus
	TotalPrice  float64

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slot returns the booked time slot
func (b *Booking) Slot() TimeSlot {
	return TimeSlot{Date: b.BookingDate, Start: b.StartTime, End: b.EndTime}
}

// IsActive returns true if the booking still occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking status allows cancellation
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// IsOwnedBy returns true if the user made the booking
func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.UserID == userID
}

// HasStarted returns true if the start instant is at or before now
func (b *Booking) HasStarted(now time.Time, loc *time.Location) bool {
	return !b.Slot().StartsAt(loc).After(now)
}

// HasEnded returns true if the end instant is at or before now
func (b *Booking) HasEnded(now time.Time, loc *time.Location) bool {
	return !b.Slot().EndsAt(loc).After(now)
}

// UserBookingsFilter фильтр для получения бронирований пользователя
type UserBookingsFilter struct {
	UserID int64          // Обязательный параметр
	Status *BookingStatus // Фильтр по статусу (опционально)
}
