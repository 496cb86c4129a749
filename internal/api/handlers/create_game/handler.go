package create_game

import (
	"errors"
	"net/http"

	"github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers"
	"github.com/Abhijat05/QuickCourt-sub001/internal/api/middleware"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные параметры игры"
	msgBookingNotFound    = "бронирование не найдено"
	msgForbidden          = "только владелец бронирования может открыть игру"
	msgNotEligible        = "бронирование отменено или уже началось"
	msgGameExists         = "для этого бронирования игра уже создана"
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

// Handle POST /api/v1/games
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, handlers.MsgUnauthorized)
		return
	}

	var req models.CreateGameRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /games - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	game, err := h.service.CreateGame(r.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrInvalidInput):
			h.logger.Warn("POST /games - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, roster.ErrBookingNotFound):
			h.logger.Warn("POST /games - Booking not found: booking_id=%d", req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, roster.ErrAccessDenied):
			h.logger.Warn("POST /games - Access denied: booking_id=%d, user_id=%d", req.BookingID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, roster.ErrBookingNotEligible):
			h.logger.Warn("POST /games - Booking not eligible: booking_id=%d", req.BookingID)
			handlers.RespondUnprocessable(w, handlers.CodeNotEligible, msgNotEligible)

		case errors.Is(err, roster.ErrGameAlreadyExists):
			h.logger.Warn("POST /games - Game already exists: booking_id=%d", req.BookingID)
			handlers.RespondConflict(w, handlers.CodeGameExists, msgGameExists)

		default:
			h.logger.Error("POST /games - Failed to create game: booking_id=%d, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /games - Game created successfully: game_id=%d, booking_id=%d, host_id=%d",
		game.ID, game.BookingID, game.HostID)
	handlers.RespondJSON(w, http.StatusCreated, game)
}
