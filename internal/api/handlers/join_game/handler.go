package join_game

import (
	"errors"
	"net/http"

	"github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers"
	"github.com/Abhijat05/QuickCourt-sub001/internal/api/middleware"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster"
)

const (
	msgInvalidGameID = "некорректный ID игры"
	msgNotFound      = "игра не найдена"
	msgNotJoinable   = "игра закрыта или отменена"
	msgGameFull      = "в игре нет свободных мест"
	msgAlreadyMember = "вы уже участник игры"
)

type Handler struct {
	service RosterService
	logger  Logger
}

func NewHandler(service RosterService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/games/{gameId}/join
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	gameID, err := handlers.PathInt64(r, "gameId")
	if err != nil {
		h.logger.Warn("POST /games/{id}/join - Invalid game ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGameID)
		return
	}

	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, handlers.MsgUnauthorized)
		return
	}

	game, err := h.service.Join(r.Context(), gameID, actor.UserID)
	if err != nil {
		// ErrGameNotJoinable оборачивает ErrGameNotFound, проверяем первым
		switch {
		case errors.Is(err, roster.ErrGameNotJoinable):
			h.logger.Warn("POST /games/{id}/join - Game not joinable: game_id=%d", gameID)
			handlers.RespondError(w, http.StatusNotFound, handlers.CodeGameNotJoinable, msgNotJoinable)

		case errors.Is(err, roster.ErrGameNotFound):
			h.logger.Warn("POST /games/{id}/join - Game not found: game_id=%d", gameID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, roster.ErrGameFull):
			h.logger.Warn("POST /games/{id}/join - Game full: game_id=%d, user_id=%d", gameID, actor.UserID)
			handlers.RespondConflict(w, handlers.CodeGameFull, msgGameFull)

		case errors.Is(err, roster.ErrAlreadyMember):
			h.logger.Warn("POST /games/{id}/join - Already member: game_id=%d, user_id=%d", gameID, actor.UserID)
			handlers.RespondConflict(w, handlers.CodeAlreadyMember, msgAlreadyMember)

		default:
			h.logger.Error("POST /games/{id}/join - Failed to join game: game_id=%d, user_id=%d, error=%v",
				gameID, actor.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /games/{id}/join - Joined successfully: game_id=%d, user_id=%d, players=%d/%d",
		gameID, actor.UserID, game.CurrentPlayers, game.MaxPlayers)
	handlers.RespondJSON(w, http.StatusOK, game)
}
