// Package complete_bookings переводит закончившиеся бронирования в статус completed.
// Запускается планировщиком по cron-расписанию.
package complete_bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
)

// ErrInternal возвращается при ошибке обновления бронирований
var ErrInternal = errors.New("complete_bookings: internal error")

// UseCase use case завершения бронирований
type UseCase struct {
	bookingRepo  BookingRepository
	cache        AvailabilityCache
	metrics      Metrics
	venue        domain.VenueSettings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	cache AvailabilityCache,
	metrics Metrics,
	venue domain.VenueSettings,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		cache:        cache,
		metrics:      metrics,
		venue:        venue,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute завершает все подтвержденные бронирования, чей конец уже наступил.
// Время сравнивается в часовом поясе площадки. Сетки затронутых дней инвалидируются.
func (uc *UseCase) Execute(ctx context.Context) (int64, error) {
	now := uc.timeProvider.Now().In(uc.venue.Loc())

	completed, err := uc.bookingRepo.CompleteEnded(ctx, now)
	if err != nil {
		uc.logger.Error("CompleteBookings: failed to complete bookings: %v", err)
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	n := int64(len(completed))
	uc.metrics.RecordCompleted(n)
	if n == 0 {
		return 0, nil
	}
	uc.logger.Info("CompleteBookings: marked %d bookings completed at %s", n, now.Format(time.RFC3339))

	seen := make(map[domain.CourtDay]struct{}, len(completed))
	for _, day := range completed {
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		if err := uc.cache.Invalidate(ctx, day.CourtID, day.Date); err != nil {
			uc.logger.Warn("CompleteBookings: failed to invalidate availability court=%d date=%s: %v",
				day.CourtID, day.Date.Format(domain.DateFormat), err)
		}
	}
	return n, nil
}

// Run адаптер для планировщика: ошибки только логируются
func (uc *UseCase) Run(ctx context.Context, timeout time.Duration) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if _, err := uc.Execute(ctx); err != nil {
		uc.logger.Warn("CompleteBookings: sweep failed: %v", err)
	}
}
