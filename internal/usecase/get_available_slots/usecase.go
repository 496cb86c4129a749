package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	courtRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/court"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/metrics"
)

// UseCase use case для получения сетки доступности корта
type UseCase struct {
	bookingRepo BookingRepository
	courtRepo   CourtRepository
	cache       AvailabilityCache
	metrics     Metrics
	venue       domain.VenueSettings
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	cache AvailabilityCache,
	metrics Metrics,
	venue domain.VenueSettings,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		courtRepo:   courtRepo,
		cache:       cache,
		metrics:     metrics,
		venue:       venue,
		logger:      logger,
	}
}

// Execute строит сетку часовых слотов на дату.
// Только чтение: кеш используется, если доступен, ошибки кеша не прерывают запрос.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: court=%d, date=%s", req.CourtID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}
	date := domain.DateOnly(req.Date)

	// 2. Получаем корт
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("GetAvailableSlots: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}
	if !court.IsActive {
		uc.logger.Warn("GetAvailableSlots: court id=%d is inactive", req.CourtID)
		return nil, ErrCourtNotFound
	}
	hours := court.OperatingWindow(uc.venue.DefaultHours)
	if !hours.Valid() {
		uc.logger.Warn("GetAvailableSlots: court id=%d has empty operating window %s-%s", court.ID, hours.Opening, hours.Closing)
	}

	// 3. Пробуем кеш. Поколение читается до загрузки бронирований.
	generation, cacheable := uc.cacheGeneration(ctx, court.ID, date)
	if cacheable {
		slots, found, err := uc.cache.Get(ctx, court.ID, date, generation)
		switch {
		case err != nil:
			uc.metrics.RecordCache(metrics.CacheError)
			uc.logger.Warn("GetAvailableSlots: cache read failed, projecting directly: %v", err)
		case found:
			uc.metrics.RecordCache(metrics.CacheHit)
			uc.logger.Info("GetAvailableSlots: served court=%d date=%s from cache", court.ID, date.Format(domain.DateFormat))
			return toResponse(court.ID, date, hours, slots), nil
		default:
			uc.metrics.RecordCache(metrics.CacheMiss)
		}
	}

	// 4. Загружаем подтвержденные бронирования
	bookings, err := uc.bookingRepo.GetConfirmedByCourtAndDate(ctx, court.ID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Строим сетку
	slots, err := project(hours, date, bookings)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to project slots: %v", err)
		return nil, fmt.Errorf("%w: failed to project slots: %v", ErrInternal, err)
	}

	// 6. Сохраняем в кеш под прочитанным поколением
	if cacheable {
		if err := uc.cache.Set(ctx, court.ID, date, generation, slots); err != nil {
			uc.logger.Warn("GetAvailableSlots: failed to cache projection: %v", err)
		}
	}

	resp := toResponse(court.ID, date, hours, slots)
	uc.logger.Info("GetAvailableSlots: %d/%d slots available for court=%d",
		resp.AvailableCount, len(resp.Slots), court.ID)
	return resp, nil
}

// cacheGeneration возвращает поколение сетки. Без поколения кеш не читается и не пишется.
func (uc *UseCase) cacheGeneration(ctx context.Context, courtID int64, date time.Time) (int64, bool) {
	generation, err := uc.cache.Generation(ctx, courtID, date)
	if err != nil {
		uc.metrics.RecordCache(metrics.CacheError)
		uc.logger.Warn("GetAvailableSlots: cache generation read failed, projecting directly: %v", err)
		return 0, false
	}
	return generation, true
}

func toResponse(courtID int64, date time.Time, hours domain.OperatingHours, slots []domain.AvailabilitySlot) *Response {
	resp := &Response{
		CourtID:        courtID,
		Date:           date,
		OpeningTime:    hours.Opening,
		ClosingTime:    hours.Closing,
		Slots:          make([]Slot, 0, len(slots)),
		AvailableCount: domain.CountAvailable(slots),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, Slot{StartTime: s.StartTime, EndTime: s.EndTime, Available: s.Available})
	}
	return resp
}
