package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	"github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/pgerr"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/dbmetrics"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/psqlbuilder"
)

const (
	gamesTable        = "public_games"
	participantsTable = "game_participants"
)

var gameColumns = []string{
	"id",
	"booking_id",
	"host_id",
	"title",
	"description",
	"max_players",
	"current_players",
	"skill_level",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий публичных игр и их участников
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория игр
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает игру. Повторная игра на то же бронирование возвращает ErrGameAlreadyExists.
func (r *Repository) Create(ctx context.Context, game *domain.PublicGame) (*domain.PublicGame, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(gamesTable).
		Columns(
			"booking_id",
			"host_id",
			"title",
			"description",
			"max_players",
			"current_players",
			"skill_level",
			"status",
		).
		Values(
			game.BookingID,
			game.HostID,
			game.Title,
			game.Description,
			game.MaxPlayers,
			game.CurrentPlayers,
			game.SkillLevel,
			game.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&game.ID, &createdAt, &updatedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: Create - booking=%d", ErrGameAlreadyExists, game.BookingID)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	game.CreatedAt = createdAt.Time
	game.UpdatedAt = updatedAt.Time

	return game, nil
}

// GetByID получает игру по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.PublicGame, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id}, false)
}

// GetByIDForUpdate получает игру и блокирует строку до конца транзакции.
// Все изменения состава игры идут через эту блокировку.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.PublicGame, error) {
	return r.getOne(ctx, "GetByIDForUpdate", squirrel.Eq{"id": id}, true)
}

// GetByBookingID получает игру бронирования (с блокировкой внутри транзакции)
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.PublicGame, error) {
	return r.getOne(ctx, "GetByBookingID", squirrel.Eq{"booking_id": bookingID}, true)
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer, forUpdate bool) (*domain.PublicGame, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(gameColumns...).
		From(gamesTable).
		Where(where)

	if forUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	game, err := scanGame(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan game: %w", ErrScanRow, op, err)
	}

	return game, nil
}

// ListOpen возвращает открытые игры вместе со слотом бронирования
func (r *Repository) ListOpen(ctx context.Context, filter domain.GamesFilter) ([]*domain.GameListItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := make([]string, 0, len(gameColumns)+4)
	for _, c := range gameColumns {
		columns = append(columns, "g."+c)
	}
	columns = append(columns, "b.court_id", "b.booking_date", "b.start_time", "b.end_time")

	selectBuilder := psqlbuilder.Select(columns...).
		From(gamesTable + " g").
		Join("bookings b ON b.id = g.booking_id").
		Where(squirrel.Eq{"g.status": domain.GameStatusOpen}).
		OrderBy("b.booking_date ASC", "b.start_time ASC", "g.id ASC")

	// Фильтрация по периоду
	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"b.booking_date": filter.DateFrom.Format(domain.DateFormat)})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"b.booking_date": filter.DateTo.Format(domain.DateFormat)})
	}
	if filter.SkillLevel != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"g.skill_level": *filter.SkillLevel})
	}
	if filter.CourtID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.court_id": *filter.CourtID})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpen - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpen - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.GameListItem, 0)
	for rows.Next() {
		var (
			game                 domain.PublicGame
			item                 domain.GameListItem
			createdAt, updatedAt sql.NullTime
		)
		err := rows.Scan(
			&game.ID,
			&game.BookingID,
			&game.HostID,
			&game.Title,
			&game.Description,
			&game.MaxPlayers,
			&game.CurrentPlayers,
			&game.SkillLevel,
			&game.Status,
			&createdAt,
			&updatedAt,
			&item.CourtID,
			&item.Date,
			&item.StartTime,
			&item.EndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOpen - scan row: %w", ErrScanRow, err)
		}
		game.CreatedAt = createdAt.Time
		game.UpdatedAt = updatedAt.Time
		item.Game = &game
		item.Date = domain.DateOnly(item.Date)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOpen - rows error: %w", ErrScanRow, err)
	}

	return items, nil
}

// UpdateState сохраняет пересчитанные статус и количество игроков
func (r *Repository) UpdateState(ctx context.Context, id int64, status domain.GameStatus, currentPlayers int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(gamesTable).
		Set("status", status).
		Set("current_players", currentPlayers).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateState - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateState - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrGameNotFound
	}

	return nil
}

// AddParticipant добавляет участника. Повторное добавление возвращает ErrAlreadyMember.
func (r *Repository) AddParticipant(ctx context.Context, participant *domain.GameParticipant) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(participantsTable).
		Columns("game_id", "user_id", "status").
		Values(participant.GameID, participant.UserID, participant.Status).
		Suffix("RETURNING joined_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddParticipant - build insert query: %v", ErrBuildQuery, err)
	}

	var joinedAt time.Time
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&joinedAt); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return fmt.Errorf("%w: AddParticipant - game=%d user=%d", ErrAlreadyMember, participant.GameID, participant.UserID)
		}
		if pgerr.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: AddParticipant - game=%d", ErrGameNotFound, participant.GameID)
		}
		return fmt.Errorf("%w: AddParticipant - execute insert: %w", ErrExecQuery, err)
	}
	participant.JoinedAt = joinedAt

	return nil
}

// RemoveParticipant удаляет участника из игры
func (r *Repository) RemoveParticipant(ctx context.Context, gameID, userID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(participantsTable).
		Where(squirrel.Eq{"game_id": gameID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RemoveParticipant - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RemoveParticipant - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RemoveParticipant - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrParticipantNotFound
	}

	return nil
}

// GetParticipant получает запись участника
func (r *Repository) GetParticipant(ctx context.Context, gameID, userID int64) (*domain.GameParticipant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("game_id", "user_id", "status", "joined_at").
		From(participantsTable).
		Where(squirrel.Eq{"game_id": gameID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetParticipant - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.GameParticipant
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.GameID, &p.UserID, &p.Status, &p.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetParticipant - scan participant: %w", ErrScanRow, err)
	}

	return &p, nil
}

// CountConfirmedParticipants считает подтвержденных участников игры
func (r *Repository) CountConfirmedParticipants(ctx context.Context, gameID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(participantsTable).
		Where(squirrel.Eq{"game_id": gameID, "status": domain.ParticipantConfirmed}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountConfirmedParticipants - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountConfirmedParticipants - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// ListParticipants возвращает участников игры в порядке вступления
func (r *Repository) ListParticipants(ctx context.Context, gameID int64) ([]*domain.GameParticipant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("game_id", "user_id", "status", "joined_at").
		From(participantsTable).
		Where(squirrel.Eq{"game_id": gameID}).
		OrderBy("joined_at ASC", "user_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListParticipants - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListParticipants - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	participants := make([]*domain.GameParticipant, 0)
	for rows.Next() {
		var p domain.GameParticipant
		if err := rows.Scan(&p.GameID, &p.UserID, &p.Status, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("%w: ListParticipants - scan row: %w", ErrScanRow, err)
		}
		participants = append(participants, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListParticipants - rows error: %w", ErrScanRow, err)
	}

	return participants, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row rowScanner) (*domain.PublicGame, error) {
	var game domain.PublicGame
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&game.ID,
		&game.BookingID,
		&game.HostID,
		&game.Title,
		&game.Description,
		&game.MaxPlayers,
		&game.CurrentPlayers,
		&game.SkillLevel,
		&game.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	game.CreatedAt = createdAt.Time
	game.UpdatedAt = updatedAt.Time

	return &game, nil
}
