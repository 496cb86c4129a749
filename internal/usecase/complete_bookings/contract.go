package complete_bookings

import (
	"context"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CompleteEnded(ctx context.Context, now time.Time) ([]domain.CourtDay, error)
}

// AvailabilityCache инвалидация сетки доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, courtID int64, date time.Time) error
}

// Metrics метрики завершенных бронирований
type Metrics interface {
	RecordCompleted(count int64)
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
