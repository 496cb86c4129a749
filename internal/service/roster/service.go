// Package roster управляет публичными играми: состав участников,
// вместимость и переходы статусов open/full/closed/cancelled.
// Счетчик currentPlayers всегда пересчитывается по таблице участников.
package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	bookingRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/booking"
	gameRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/game"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster/models"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/metrics"
)

// Операции для метрик
const (
	opCreate = metrics.RosterOpCreate
	opJoin   = "join"
	opLeave  = "leave"
	opClose  = "close"
	opCancel = "cancel"
)

// Service сервис публичных игр
type Service struct {
	gameRepo     GameRepository
	bookingRepo  BookingRepository
	notifier     Notifier
	metrics      Metrics
	txManager    TransactionManager
	venue        domain.VenueSettings
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	gameRepo GameRepository,
	bookingRepo BookingRepository,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	venue domain.VenueSettings,
	logger Logger,
) *Service {
	return &Service{
		gameRepo:     gameRepo,
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		metrics:      metrics,
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

// InitializeGame открывает игру для бронирования и добавляет хоста первым участником.
// При вызове внутри транзакции присоединяется к ней.
// Метрику создания пишет вызывающий после коммита: транзакция может быть повторена.
func (s *Service) InitializeGame(ctx context.Context, booking *domain.Booking, opts domain.GameOptions) (*domain.PublicGame, error) {
	if err := validateGameOptions(&opts); err != nil {
		return nil, err
	}

	var result *domain.PublicGame
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Создаем игру
		game, err := s.gameRepo.Create(txCtx, &domain.PublicGame{
			BookingID:   booking.ID,
			HostID:      booking.UserID,
			Title:       opts.Title,
			Description: opts.Description,
			MaxPlayers:  opts.MaxPlayers,
			SkillLevel:  opts.SkillLevel,
			Status:      domain.GameStatusOpen,
		})
		if err != nil {
			if errors.Is(err, gameRepo.ErrGameAlreadyExists) {
				s.logger.Warn("InitializeGame: booking id=%d already has a game", booking.ID)
				return ErrGameAlreadyExists
			}
			s.logger.Error("InitializeGame: failed to create game for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: InitializeGame - create game: %w", ErrInternal, err)
		}

		// 2. Хост - первый участник
		if err := s.gameRepo.AddParticipant(txCtx, &domain.GameParticipant{
			GameID: game.ID,
			UserID: booking.UserID,
			Status: domain.ParticipantConfirmed,
		}); err != nil {
			s.logger.Error("InitializeGame: failed to add host to game id=%d: %v", game.ID, err)
			return fmt.Errorf("%w: InitializeGame - add host: %w", ErrInternal, err)
		}

		// 3. Пересчитываем состав
		if err := s.recount(txCtx, game); err != nil {
			return err
		}

		result = game
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("InitializeGame: opened game id=%d for booking id=%d, maxPlayers=%d",
		result.ID, booking.ID, result.MaxPlayers)
	return result, nil
}

// CreateGame открывает игру для уже существующего бронирования.
// Только владелец бронирования может стать хостом.
func (s *Service) CreateGame(ctx context.Context, actor domain.Actor, req *models.CreateGameRequest) (*models.GameResponse, error) {
	s.logger.Info("CreateGame: booking=%d, user=%d, maxPlayers=%d", req.BookingID, actor.UserID, req.MaxPlayers)

	if req.BookingID <= 0 {
		return nil, s.fail(opCreate, metrics.ResultRejected, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput))
	}
	opts := req.ToGameOptions()
	if err := validateGameOptions(&opts); err != nil {
		s.logger.Warn("CreateGame: validation failed: %v", err)
		return nil, s.fail(opCreate, metrics.ResultRejected, err)
	}

	var game *domain.PublicGame
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("CreateGame: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("CreateGame: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: CreateGame - get booking: %w", ErrInternal, err)
		}

		if !booking.IsOwnedBy(actor.UserID) {
			s.logger.Warn("CreateGame: user=%d does not own booking id=%d", actor.UserID, booking.ID)
			return ErrAccessDenied
		}

		if !booking.IsActive() || booking.HasStarted(s.timeProvider.Now(), s.venue.Loc()) {
			s.logger.Warn("CreateGame: booking id=%d is %s or already started", booking.ID, booking.Status)
			return ErrBookingNotEligible
		}

		game, err = s.InitializeGame(txCtx, booking, opts)
		return err
	})
	if err != nil {
		return nil, s.fail(opCreate, resultFor(err), err)
	}

	s.metrics.RecordRosterOperation(opCreate, metrics.ResultSuccess)
	s.logger.Info("CreateGame: successfully created game id=%d", game.ID)
	return models.FromDomainGame(game), nil
}

// GetGame возвращает игру вместе с составом
func (s *Service) GetGame(ctx context.Context, gameID int64) (*models.GameResponse, error) {
	s.logger.Info("GetGame: fetching game id=%d", gameID)

	var result *domain.GameWithParticipants
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		game, err := s.gameRepo.GetByID(txCtx, gameID)
		if err != nil {
			return s.mapGameErr("GetGame", gameID, err)
		}
		participants, err := s.gameRepo.ListParticipants(txCtx, gameID)
		if err != nil {
			s.logger.Error("GetGame: failed to list participants of game id=%d: %v", gameID, err)
			return fmt.Errorf("%w: GetGame - list participants: %w", ErrInternal, err)
		}
		result = &domain.GameWithParticipants{Game: game, Participants: participants}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainGameWithParticipants(result), nil
}

// ListOpenGames возвращает открытые игры для просмотра
func (s *Service) ListOpenGames(ctx context.Context, req *models.ListGamesRequest) (*models.GameListResponse, error) {
	filter, err := toGamesFilter(req)
	if err != nil {
		s.logger.Warn("ListOpenGames: invalid filter: %v", err)
		return nil, err
	}

	items, err := s.gameRepo.ListOpen(ctx, filter)
	if err != nil {
		s.logger.Error("ListOpenGames: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListOpenGames - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListOpenGames: found %d games", len(items))
	return models.FromDomainGameList(items, filter.Limit, filter.Offset), nil
}

// recount пересчитывает участников и выставляет статус по вместимости
func (s *Service) recount(ctx context.Context, game *domain.PublicGame) error {
	count, err := s.gameRepo.CountConfirmedParticipants(ctx, game.ID)
	if err != nil {
		s.logger.Error("recount: failed to count participants of game id=%d: %v", game.ID, err)
		return fmt.Errorf("%w: recount - count participants: %w", ErrInternal, err)
	}
	return s.setState(ctx, game, game.StatusForCount(count), count)
}

func (s *Service) setState(ctx context.Context, game *domain.PublicGame, status domain.GameStatus, count int) error {
	if err := s.gameRepo.UpdateState(ctx, game.ID, status, count); err != nil {
		s.logger.Error("setState: failed to update game id=%d: %v", game.ID, err)
		return fmt.Errorf("%w: update game state: %w", ErrInternal, err)
	}
	game.Status = status
	game.CurrentPlayers = count
	return nil
}

func (s *Service) mapGameErr(op string, gameID int64, err error) error {
	if errors.Is(err, gameRepo.ErrGameNotFound) {
		s.logger.Warn("%s: game id=%d not found", op, gameID)
		return ErrGameNotFound
	}
	s.logger.Error("%s: failed to get game id=%d: %v", op, gameID, err)
	return fmt.Errorf("%w: %s - get game: %w", ErrInternal, op, err)
}

func (s *Service) fail(op, result string, err error) error {
	s.metrics.RecordRosterOperation(op, result)
	return err
}

// resultFor классифицирует ошибку для метрик
func resultFor(err error) string {
	switch {
	case errors.Is(err, ErrInternal):
		return metrics.ResultError
	case errors.Is(err, ErrGameFull), errors.Is(err, ErrAlreadyMember), errors.Is(err, ErrGameAlreadyExists):
		return metrics.ResultConflict
	default:
		return metrics.ResultRejected
	}
}

func validateGameOptions(opts *domain.GameOptions) error {
	if err := opts.Normalize(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func toGamesFilter(req *models.ListGamesRequest) (domain.GamesFilter, error) {
	filter := domain.GamesFilter{
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		CourtID:  req.CourtID,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}

	if req.SkillLevel != nil {
		level := domain.SkillLevel(*req.SkillLevel)
		if !level.IsValid() {
			return filter, fmt.Errorf("%w: unknown skill level %q", ErrInvalidInput, *req.SkillLevel)
		}
		filter.SkillLevel = &level
	}

	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return filter, fmt.Errorf("%w: dateTo is before dateFrom", ErrInvalidInput)
	}

	if filter.Offset < 0 {
		return filter, fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}

	switch {
	case filter.Limit <= 0:
		filter.Limit = domain.DefaultGamesPerPage
	case filter.Limit > domain.MaxGamesPerPage:
		filter.Limit = domain.MaxGamesPerPage
	}

	return filter, nil
}
