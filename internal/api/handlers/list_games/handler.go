package list_games

import (
	"errors"
	"net/http"

	"github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster"
)

const msgInvalidFilter = "некорректные параметры фильтра"

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

// Handle GET /api/v1/games
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := ToServiceRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /games - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.ListOpenGames(r.Context(), req)
	if err != nil {
		if errors.Is(err, roster.ErrInvalidInput) {
			h.logger.Warn("GET /games - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /games - Failed to list games: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /games - Games listed successfully: count=%d, limit=%d, offset=%d",
		len(result.Games), result.Limit, result.Offset)
	handlers.RespondJSON(w, http.StatusOK, result)
}
