package close_game

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
	msgCancelled     = "игра отменена"
	msgForbidden     = "закрыть игру может только хост или администратор"
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

// Handle POST /api/v1/games/{gameId}/close
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	gameID, err := handlers.PathInt64(r, "gameId")
	if err != nil {
		h.logger.Warn("POST /games/{id}/close - Invalid game ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGameID)
		return
	}

	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, handlers.MsgUnauthorized)
		return
	}

	game, err := h.service.Close(r.Context(), gameID, actor)
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrGameNotJoinable):
			h.logger.Warn("POST /games/{id}/close - Game cancelled: game_id=%d", gameID)
			handlers.RespondError(w, http.StatusNotFound, handlers.CodeGameNotJoinable, msgCancelled)

		case errors.Is(err, roster.ErrGameNotFound):
			h.logger.Warn("POST /games/{id}/close - Game not found: game_id=%d", gameID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, roster.ErrAccessDenied):
			h.logger.Warn("POST /games/{id}/close - Access denied: game_id=%d, user_id=%d", gameID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /games/{id}/close - Failed to close game: game_id=%d, error=%v", gameID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /games/{id}/close - Game closed: game_id=%d, by user_id=%d", gameID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, game)
}
