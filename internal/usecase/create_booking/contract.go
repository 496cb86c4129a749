package create_booking

import (
	"context"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	LockCourtDay(ctx context.Context, courtID int64, date time.Time) error
	GetConfirmedByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// GameInitializer открывает публичную игру для только что созданного бронирования.
// Вызывается внутри транзакции бронирования.
type GameInitializer interface {
	InitializeGame(ctx context.Context, booking *domain.Booking, opts domain.GameOptions) (*domain.PublicGame, error)
}

// AvailabilityCache интерфейс кеша доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, courtID int64, date time.Time) error
}

// Metrics доменные метрики бронирований
type Metrics interface {
	RecordBooking(result string)
	RecordRosterOperation(operation, result string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
