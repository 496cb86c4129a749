package list_venue_courts

import (
	"net/http"

	"github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers"
)

const msgInvalidVenueID = "некорректный ID площадки"

type Handler struct {
	service CourtService
	logger  Logger
}

func NewHandler(service CourtService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/venues/{venueId}/courts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venueID, err := handlers.PathInt64(r, "venueId")
	if err != nil {
		h.logger.Warn("GET /venues/{id}/courts - Invalid venue ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVenueID)
		return
	}

	result, err := h.service.ListVenueCourts(r.Context(), venueID)
	if err != nil {
		h.logger.Error("GET /venues/{id}/courts - Failed to list courts: venue_id=%d, error=%v", venueID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /venues/{id}/courts - Courts listed: venue_id=%d, count=%d", venueID, len(result.Courts))
	handlers.RespondJSON(w, http.StatusOK, result)
}
