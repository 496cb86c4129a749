package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	gameRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/game"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster/models"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/metrics"
)

// Join добавляет пользователя в игру.
// Блокировка строки игры, проверка, вставка и пересчет выполняются в одной транзакции.
func (s *Service) Join(ctx context.Context, gameID, userID int64) (*models.GameResponse, error) {
	s.logger.Info("Join: user=%d joining game id=%d", userID, gameID)

	if gameID <= 0 || userID <= 0 {
		return nil, s.fail(opJoin, metrics.ResultRejected, fmt.Errorf("%w: gameID and userID must be positive", ErrInvalidInput))
	}

	var game *domain.PublicGame
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Блокируем строку игры
		g, err := s.gameRepo.GetByIDForUpdate(txCtx, gameID)
		if err != nil {
			return s.mapGameErr("Join", gameID, err)
		}

		// 2. Проверяем статус
		if g.IsTerminal() {
			s.logger.Warn("Join: game id=%d is %s", gameID, g.Status)
			return ErrGameNotJoinable
		}
		if g.Status == domain.GameStatusFull {
			s.logger.Warn("Join: game id=%d is full", gameID)
			return ErrGameFull
		}

		// 3. Проверяем членство
		if _, err := s.gameRepo.GetParticipant(txCtx, gameID, userID); err == nil {
			s.logger.Warn("Join: user=%d already in game id=%d", userID, gameID)
			return ErrAlreadyMember
		} else if !errors.Is(err, gameRepo.ErrParticipantNotFound) {
			s.logger.Error("Join: failed to check membership: %v", err)
			return fmt.Errorf("%w: Join - get participant: %w", ErrInternal, err)
		}

		// 4. Проверяем вместимость по фактическому составу
		count, err := s.gameRepo.CountConfirmedParticipants(txCtx, gameID)
		if err != nil {
			s.logger.Error("Join: failed to count participants: %v", err)
			return fmt.Errorf("%w: Join - count participants: %w", ErrInternal, err)
		}
		if !g.HasCapacity(count) {
			s.logger.Warn("Join: game id=%d has %d/%d players", gameID, count, g.MaxPlayers)
			return ErrGameFull
		}

		// 5. Добавляем участника
		if err := s.gameRepo.AddParticipant(txCtx, &domain.GameParticipant{
			GameID: gameID,
			UserID: userID,
			Status: domain.ParticipantConfirmed,
		}); err != nil {
			switch {
			case errors.Is(err, gameRepo.ErrAlreadyMember):
				return ErrAlreadyMember
			case errors.Is(err, gameRepo.ErrGameNotFound):
				return ErrGameNotFound
			}
			s.logger.Error("Join: failed to add participant: %v", err)
			return fmt.Errorf("%w: Join - add participant: %w", ErrInternal, err)
		}

		// 6. Пересчитываем состав и статус
		if err := s.recount(txCtx, g); err != nil {
			return err
		}

		game = g
		return nil
	})
	if err != nil {
		return nil, s.fail(opJoin, resultFor(err), err)
	}

	s.metrics.RecordRosterOperation(opJoin, metrics.ResultSuccess)
	s.logger.Info("Join: user=%d joined game id=%d, players=%d/%d, status=%s",
		userID, gameID, game.CurrentPlayers, game.MaxPlayers, game.Status)

	s.notify(ctx, game.HostID, "New player joined",
		fmt.Sprintf("User %d joined %q (%d/%d players)", userID, game.Title, game.CurrentPlayers, game.MaxPlayers))

	return models.FromDomainGame(game), nil
}

// Leave удаляет пользователя из игры.
// Уход хоста отменяет игру, состав при этом сохраняется.
func (s *Service) Leave(ctx context.Context, gameID, userID int64) (*models.GameResponse, error) {
	s.logger.Info("Leave: user=%d leaving game id=%d", userID, gameID)

	if gameID <= 0 || userID <= 0 {
		return nil, s.fail(opLeave, metrics.ResultRejected, fmt.Errorf("%w: gameID and userID must be positive", ErrInvalidInput))
	}

	var (
		game       *domain.PublicGame
		recipients []int64
	)
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		g, err := s.gameRepo.GetByIDForUpdate(txCtx, gameID)
		if err != nil {
			return s.mapGameErr("Leave", gameID, err)
		}

		if _, err := s.gameRepo.GetParticipant(txCtx, gameID, userID); err != nil {
			if errors.Is(err, gameRepo.ErrParticipantNotFound) {
				s.logger.Warn("Leave: user=%d is not in game id=%d", userID, gameID)
				return ErrNotMember
			}
			s.logger.Error("Leave: failed to check membership: %v", err)
			return fmt.Errorf("%w: Leave - get participant: %w", ErrInternal, err)
		}

		if g.Status == domain.GameStatusCancelled {
			s.logger.Warn("Leave: game id=%d is already cancelled", gameID)
			return ErrGameNotJoinable
		}

		// Хост уходит: игра отменяется целиком
		if g.IsHost(userID) {
			recipients, err = s.cancel(txCtx, g)
			if err != nil {
				return err
			}
			game = g
			return nil
		}

		if err := s.gameRepo.RemoveParticipant(txCtx, gameID, userID); err != nil {
			if errors.Is(err, gameRepo.ErrParticipantNotFound) {
				return ErrNotMember
			}
			s.logger.Error("Leave: failed to remove participant: %v", err)
			return fmt.Errorf("%w: Leave - remove participant: %w", ErrInternal, err)
		}

		if err := s.recount(txCtx, g); err != nil {
			return err
		}

		game = g
		return nil
	})
	if err != nil {
		return nil, s.fail(opLeave, resultFor(err), err)
	}

	s.metrics.RecordRosterOperation(opLeave, metrics.ResultSuccess)

	if game.Status == domain.GameStatusCancelled {
		s.logger.Info("Leave: host=%d left, game id=%d cancelled, notifying %d participants",
			userID, gameID, len(recipients))
		s.notifyCancelled(ctx, game, recipients, "The host left the game")
	} else {
		s.logger.Info("Leave: user=%d left game id=%d, players=%d/%d, status=%s",
			userID, gameID, game.CurrentPlayers, game.MaxPlayers, game.Status)
	}

	return models.FromDomainGame(game), nil
}

// Close закрывает игру для новых участников. Доступно хосту и администратору.
// Повторное закрытие является успешной пустой операцией.
func (s *Service) Close(ctx context.Context, gameID int64, actor domain.Actor) (*models.GameResponse, error) {
	s.logger.Info("Close: user=%d (%s) closing game id=%d", actor.UserID, actor.Role, gameID)

	var game *domain.PublicGame
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		g, err := s.gameRepo.GetByIDForUpdate(txCtx, gameID)
		if err != nil {
			return s.mapGameErr("Close", gameID, err)
		}

		if !g.IsHost(actor.UserID) && !actor.IsAdmin() {
			s.logger.Warn("Close: access denied for user=%d to game id=%d", actor.UserID, gameID)
			return ErrAccessDenied
		}

		switch g.Status {
		case domain.GameStatusClosed:
			s.logger.Info("Close: game id=%d already closed", gameID)
			game = g
			return nil
		case domain.GameStatusCancelled:
			s.logger.Warn("Close: game id=%d is cancelled", gameID)
			return ErrGameNotJoinable
		}

		count, err := s.gameRepo.CountConfirmedParticipants(txCtx, gameID)
		if err != nil {
			s.logger.Error("Close: failed to count participants: %v", err)
			return fmt.Errorf("%w: Close - count participants: %w", ErrInternal, err)
		}
		if err := s.setState(txCtx, g, domain.GameStatusClosed, count); err != nil {
			return err
		}

		game = g
		return nil
	})
	if err != nil {
		return nil, s.fail(opClose, resultFor(err), err)
	}

	s.metrics.RecordRosterOperation(opClose, metrics.ResultSuccess)
	s.logger.Info("Close: game id=%d closed with %d players", gameID, game.CurrentPlayers)
	return models.FromDomainGame(game), nil
}

// CancelForBooking отменяет игру, привязанную к бронированию.
// Возвращает игру и участников для уведомления, nil если игры нет или она уже отменена.
// Присоединяется к транзакции вызывающего.
func (s *Service) CancelForBooking(ctx context.Context, bookingID int64) (*domain.PublicGame, []int64, error) {
	var (
		game       *domain.PublicGame
		recipients []int64
	)
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		g, err := s.gameRepo.GetByBookingID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, gameRepo.ErrGameNotFound) {
				return nil
			}
			s.logger.Error("CancelForBooking: failed to get game for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: CancelForBooking - get game: %w", ErrInternal, err)
		}
		if g.Status == domain.GameStatusCancelled {
			return nil
		}

		recipients, err = s.cancel(txCtx, g)
		if err != nil {
			return err
		}
		game = g
		return nil
	})
	if err != nil {
		s.metrics.RecordRosterOperation(opCancel, metrics.ResultError)
		return nil, nil, err
	}
	if game != nil {
		s.metrics.RecordRosterOperation(opCancel, metrics.ResultSuccess)
		s.logger.Info("CancelForBooking: game id=%d for booking id=%d cancelled", game.ID, bookingID)
	}
	return game, recipients, nil
}

// NotifyCancelled рассылает уведомление об отмене игры
func (s *Service) NotifyCancelled(ctx context.Context, game *domain.PublicGame, recipients []int64, reason string) {
	s.notifyCancelled(ctx, game, recipients, reason)
}

// cancel переводит игру в cancelled без удаления участников
// и возвращает всех участников, кроме хоста
func (s *Service) cancel(ctx context.Context, g *domain.PublicGame) ([]int64, error) {
	participants, err := s.gameRepo.ListParticipants(ctx, g.ID)
	if err != nil {
		s.logger.Error("cancel: failed to list participants of game id=%d: %v", g.ID, err)
		return nil, fmt.Errorf("%w: cancel - list participants: %w", ErrInternal, err)
	}

	count := 0
	recipients := make([]int64, 0, len(participants))
	for _, p := range participants {
		if p.Status == domain.ParticipantConfirmed {
			count++
		}
		if p.UserID != g.HostID {
			recipients = append(recipients, p.UserID)
		}
	}

	if err := s.setState(ctx, g, domain.GameStatusCancelled, count); err != nil {
		return nil, err
	}
	return recipients, nil
}

func (s *Service) notifyCancelled(ctx context.Context, game *domain.PublicGame, recipients []int64, reason string) {
	for _, userID := range recipients {
		s.notify(ctx, userID, "Game cancelled", fmt.Sprintf("%q was cancelled: %s", game.Title, reason))
	}
}

// notify отправляет уведомление, ошибки только логируются
func (s *Service) notify(ctx context.Context, userID int64, subject, body string) {
	if err := s.notifier.Notify(ctx, userID, subject, body); err != nil {
		s.logger.Warn("notify: failed to notify user=%d: %v", userID, err)
	}
}
