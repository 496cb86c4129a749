package get_available_slots

import (
	"context"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetConfirmedByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Booking, error)
}

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// AvailabilityCache интерфейс кеша сетки доступности.
// Сетка читается и пишется под поколением, полученным до загрузки бронирований.
type AvailabilityCache interface {
	Generation(ctx context.Context, courtID int64, date time.Time) (int64, error)
	Get(ctx context.Context, courtID int64, date time.Time, generation int64) ([]domain.AvailabilitySlot, bool, error)
	Set(ctx context.Context, courtID int64, date time.Time, generation int64, slots []domain.AvailabilitySlot) error
}

// Metrics метрики обращений к кешу
type Metrics interface {
	RecordCache(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
