package get_game

import (
	"errors"
	"net/http"

	"github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster"
)

const (
	msgInvalidGameID = "некорректный ID игры"
	msgNotFound      = "игра не найдена"
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

// Handle GET /api/v1/games/{gameId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	gameID, err := handlers.PathInt64(r, "gameId")
	if err != nil {
		h.logger.Warn("GET /games/{id} - Invalid game ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGameID)
		return
	}

	game, err := h.service.GetGame(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, roster.ErrGameNotFound) {
			h.logger.Warn("GET /games/{id} - Game not found: game_id=%d", gameID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /games/{id} - Failed to get game: game_id=%d, error=%v", gameID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /games/{id} - Game retrieved successfully: game_id=%d", gameID)
	handlers.RespondJSON(w, http.StatusOK, game)
}
