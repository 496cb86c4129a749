package bookings

import (
	"context"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error)
	GetConfirmedByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, cancelledAt time.Time) error
}

// GameCanceller отменяет игру, привязанную к бронированию
type GameCanceller interface {
	CancelForBooking(ctx context.Context, bookingID int64) (*domain.PublicGame, []int64, error)
	NotifyCancelled(ctx context.Context, game *domain.PublicGame, recipients []int64, reason string)
}

// AvailabilityCache интерфейс кеша доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, courtID int64, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }
