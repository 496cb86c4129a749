package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	bookingRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/booking"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	games        GameCanceller
	cache        AvailabilityCache
	txManager    TransactionManager
	venue        domain.VenueSettings
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	games GameCanceller,
	cache AvailabilityCache,
	txManager TransactionManager,
	venue domain.VenueSettings,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		games:        games,
		cache:        cache,
		txManager:    txManager,
		venue:        venue,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
// Доступно владельцу бронирования, владельцу площадки и администратору
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := checkAccess(booking, actor); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Пользователь видит только свои бронирования, owner и admin - любые
func (s *Service) GetUserBookings(ctx context.Context, actor domain.Actor, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.UserID != actor.UserID && !actor.IsElevated() {
		s.logger.Warn("GetUserBookings: user=%d cannot list bookings of user=%d", actor.UserID, req.UserID)
		return nil, ErrAccessDenied
	}

	filter := domain.UserBookingsFilter{UserID: req.UserID}
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetCourtBookings расписание подтвержденных бронирований корта на дату.
// Только для owner и admin.
func (s *Service) GetCourtBookings(ctx context.Context, actor domain.Actor, courtID int64, date time.Time) (*models.BookingListResponse, error) {
	if courtID <= 0 || date.IsZero() {
		return nil, fmt.Errorf("%w: court_id and date are required", ErrInvalidInput)
	}
	if !actor.IsElevated() {
		s.logger.Warn("GetCourtBookings: user=%d with role=%s cannot view court=%d schedule", actor.UserID, actor.Role, courtID)
		return nil, ErrAccessDenied
	}

	bookings, err := s.bookingRepo.GetConfirmedByCourtAndDate(ctx, courtID, domain.DateOnly(date))
	if err != nil {
		s.logger.Error("GetCourtBookings: repository error for court=%d: %v", courtID, err)
		return nil, fmt.Errorf("%w: GetCourtBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCourtBookings: fetched %d bookings for court=%d on %s", len(bookings), courtID, date.Format(domain.DateFormat))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование до его начала.
// Привязанная публичная игра отменяется в той же транзакции,
// участники получают уведомление после коммита.
func (s *Service) Cancel(ctx context.Context, bookingID int64, actor domain.Actor) (*models.CancelBookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d (%s)", bookingID, actor.UserID, actor.Role)

	var (
		result     *domain.Booking
		game       *domain.PublicGame
		recipients []int64
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Получаем бронирование с блокировкой
		booking, err := s.bookingRepo.GetByIDForUpdate(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Cancel: booking id=%d not found", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - get booking: %w", ErrInternal, err)
		}

		// 2. Проверяем права
		if err := checkAccess(booking, actor); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", actor.UserID, bookingID)
			return err
		}

		// 3. Начавшиеся бронирования не отменяются
		now := s.timeProvider.Now()
		if booking.HasStarted(now, s.venue.Loc()) {
			s.logger.Warn("Cancel: booking id=%d already started at %s", bookingID, booking.Slot())
			return ErrPastBooking
		}

		// 4. Проверяем статус
		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		// 5. Отменяем бронирование
		if err := s.bookingRepo.Cancel(txCtx, bookingID, now); err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return ErrBookingNotFound
			case errors.Is(err, bookingRepo.ErrCannotCancel):
				return ErrCannotCancel
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}

		// 6. Отменяем привязанную игру
		game, recipients, err = s.games.CancelForBooking(txCtx, bookingID)
		if err != nil {
			s.logger.Error("Cancel: failed to cancel game for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - cancel game: %w", ErrInternal, err)
		}

		booking.Status = domain.StatusCancelled
		booking.CancelledAt = &now
		booking.UpdatedAt = now
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 7. После коммита: уведомления и сброс кеша
	if game != nil {
		s.games.NotifyCancelled(ctx, game, recipients, "the booking was cancelled")
	}
	if err := s.cache.Invalidate(ctx, result.CourtID, result.BookingDate); err != nil {
		s.logger.Warn("Cancel: failed to invalidate availability cache: %v", err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d, gameCancelled=%t", bookingID, game != nil)
	return &models.CancelBookingResponse{
		Booking:       models.FromDomainBooking(result),
		GameCancelled: game != nil,
		NotifiedUsers: len(recipients),
	}, nil
}

// checkAccess владелец бронирования или привилегированная роль
func checkAccess(booking *domain.Booking, actor domain.Actor) error {
	if booking.IsOwnedBy(actor.UserID) || actor.IsElevated() {
		return nil
	}
	return ErrAccessDenied
}
