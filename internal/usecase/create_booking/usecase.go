package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	bookingRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/booking"
	courtRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/court"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/conflict"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/metrics"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	courtRepo    CourtRepository
	games        GameInitializer
	cache        AvailabilityCache
	metrics      Metrics
	txManager    TransactionManager
	venue        domain.VenueSettings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	games GameInitializer,
	cache AvailabilityCache,
	metrics Metrics,
	txManager TransactionManager,
	venue domain.VenueSettings,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		courtRepo:    courtRepo,
		games:        games,
		cache:        cache,
		metrics:      metrics,
		txManager:    txManager,
		venue:        venue,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Проверка пересечений и вставка выполняются в одной сериализуемой транзакции
// под advisory lock на пару (корт, дата).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, court=%d, date=%s, time=%s-%s, game=%t",
		req.UserID, req.CourtID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime, req.Game != nil)

	// 1. Валидация входных данных
	slot, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, uc.reject(metrics.ResultRejected, err)
	}

	// 2. Получаем корт
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("CreateBooking: court id=%d not found", req.CourtID)
			return nil, uc.reject(metrics.ResultRejected, ErrCourtNotFound)
		}
		uc.logger.Error("CreateBooking: failed to get court id=%d: %v", req.CourtID, err)
		return nil, uc.reject(metrics.ResultError, fmt.Errorf("%w: failed to get court: %w", ErrInternal, err))
	}
	if !court.IsActive {
		uc.logger.Warn("CreateBooking: court id=%d is inactive", req.CourtID)
		return nil, uc.reject(metrics.ResultRejected, ErrCourtNotFound)
	}

	// 3. Слот должен лежать внутри рабочих часов корта
	hours := court.OperatingWindow(uc.venue.DefaultHours)
	if !hours.Contains(slot) {
		uc.logger.Warn("CreateBooking: slot %s outside operating hours %s-%s", slot, hours.Opening, hours.Closing)
		return nil, uc.reject(metrics.ResultRejected,
			fmt.Errorf("%w: slot must be within %s-%s", ErrInvalidTimeSlot, hours.Opening, hours.Closing))
	}

	// 4. Начало слота должно быть в будущем
	now := uc.timeProvider.Now()
	if !slot.StartsAt(uc.venue.Loc()).After(now) {
		uc.logger.Warn("CreateBooking: slot %s already started", slot)
		return nil, uc.reject(metrics.ResultRejected, ErrBookingInPast)
	}

	if !slot.IsWholeHours() {
		uc.logger.Warn("CreateBooking: slot %s is not aligned to whole hours, price uses hour components", slot)
	}

	var (
		result *domain.Booking
		game   *domain.PublicGame
	)

	// 5. Проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Сериализуем все попытки на этот корт и дату
		if err := uc.bookingRepo.LockCourtDay(txCtx, court.ID, slot.Date); err != nil {
			uc.logger.Error("CreateBooking: failed to lock court=%d date=%s: %v",
				court.ID, slot.Date.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: failed to lock court day: %w", ErrInternal, err)
		}

		// 5.2. Загружаем подтвержденные бронирования на дату
		existing, err := uc.bookingRepo.GetConfirmedByCourtAndDate(txCtx, court.ID, slot.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		// 5.3. Проверяем пересечения
		if conflicts := conflict.FindConflicts(existing, slot); len(conflicts) > 0 {
			uc.logger.Warn("CreateBooking: slot %s conflicts with booking id=%d", slot, conflicts[0].ID)
			return ErrSlotNotAvailable
		}

		// 5.4. Создаем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			CourtID:     court.ID,
			UserID:      req.UserID,
			BookingDate: slot.Date,
			StartTime:   slot.Start,
			EndTime:     slot.End,
			Status:      domain.StatusConfirmed,
			TotalPrice:  court.PricePerHour * float64(slot.WholeHours()),
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: slot %s rejected by store constraint", slot)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		// 5.5. Открываем публичную игру в той же транзакции
		if req.Game != nil {
			game, err = uc.games.InitializeGame(txCtx, created, *req.Game)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to initialize game for booking id=%d: %v", created.ID, err)
				return fmt.Errorf("%w: failed to initialize game: %w", ErrInternal, err)
			}
		}

		result = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			return nil, uc.reject(metrics.ResultConflict, err)
		}
		return nil, uc.reject(metrics.ResultError, err)
	}

	// 6. После коммита сбрасываем кеш доступности
	if err := uc.cache.Invalidate(ctx, result.CourtID, result.BookingDate); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate availability cache: %v", err)
	}
	uc.metrics.RecordBooking(metrics.ResultSuccess)
	if game != nil {
		uc.metrics.RecordRosterOperation(metrics.RosterOpCreate, metrics.ResultSuccess)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, price=%.2f", result.ID, result.TotalPrice)

	return toResponse(result, game), nil
}

func (uc *UseCase) reject(result string, err error) error {
	uc.metrics.RecordBooking(result)
	return err
}

func toResponse(b *domain.Booking, g *domain.PublicGame) *Response {
	resp := &Response{
		ID:          b.ID,
		UserID:      b.UserID,
		CourtID:     b.CourtID,
		BookingDate: b.BookingDate,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      string(b.Status),
		TotalPrice:  b.TotalPrice,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if g != nil {
		resp.Game = &GameResponse{
			ID:             g.ID,
			Title:          g.Title,
			MaxPlayers:     g.MaxPlayers,
			CurrentPlayers: g.CurrentPlayers,
			SkillLevel:     string(g.SkillLevel),
			Status:         string(g.Status),
		}
	}
	return resp
}
