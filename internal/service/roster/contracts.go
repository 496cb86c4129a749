package roster

import (
	"context"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
)

// GameRepository интерфейс репозитория игр и участников
type GameRepository interface {
	Create(ctx context.Context, game *domain.PublicGame) (*domain.PublicGame, error)
	GetByID(ctx context.Context, id int64) (*domain.PublicGame, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.PublicGame, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.PublicGame, error)
	ListOpen(ctx context.Context, filter domain.GamesFilter) ([]*domain.GameListItem, error)
	UpdateState(ctx context.Context, id int64, status domain.GameStatus, currentPlayers int) error

	AddParticipant(ctx context.Context, participant *domain.GameParticipant) error
	RemoveParticipant(ctx context.Context, gameID, userID int64) error
	GetParticipant(ctx context.Context, gameID, userID int64) (*domain.GameParticipant, error)
	CountConfirmedParticipants(ctx context.Context, gameID int64) (int, error)
	ListParticipants(ctx context.Context, gameID int64) ([]*domain.GameParticipant, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
}

// Notifier отправляет уведомления пользователям
type Notifier interface {
	Notify(ctx context.Context, recipientID int64, subject, body string) error
}

// Metrics доменные метрики состава игр
type Metrics interface {
	RecordRosterOperation(operation, result string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
