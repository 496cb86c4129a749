package leave_game

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
	msgNotJoinable   = "игра отменена"
	msgNotMember     = "вы не участник игры"
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

// Handle POST /api/v1/games/{gameId}/leave
// Выход хоста отменяет игру целиком
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	gameID, err := handlers.PathInt64(r, "gameId")
	if err != nil {
		h.logger.Warn("POST /games/{id}/leave - Invalid game ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGameID)
		return
	}

	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, handlers.MsgUnauthorized)
		return
	}

	game, err := h.service.Leave(r.Context(), gameID, actor.UserID)
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrGameNotJoinable):
			h.logger.Warn("POST /games/{id}/leave - Game cancelled: game_id=%d", gameID)
			handlers.RespondError(w, http.StatusNotFound, handlers.CodeGameNotJoinable, msgNotJoinable)

		case errors.Is(err, roster.ErrGameNotFound):
			h.logger.Warn("POST /games/{id}/leave - Game not found: game_id=%d", gameID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, roster.ErrNotMember):
			h.logger.Warn("POST /games/{id}/leave - Not a member: game_id=%d, user_id=%d", gameID, actor.UserID)
			handlers.RespondUnprocessable(w, handlers.CodeNotMember, msgNotMember)

		default:
			h.logger.Error("POST /games/{id}/leave - Failed to leave game: game_id=%d, user_id=%d, error=%v",
				gameID, actor.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /games/{id}/leave - Left successfully: game_id=%d, user_id=%d, status=%s",
		gameID, actor.UserID, game.Status)
	handlers.RespondJSON(w, http.StatusOK, game)
}
