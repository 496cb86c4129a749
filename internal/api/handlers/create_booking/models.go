package create_booking

import (
	"fmt"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	createBooking "github.com/Abhijat05/QuickCourt-sub001/internal/usecase/create_booking"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CourtID     int64        `json:"courtId"`
	BookingDate string       `json:"bookingDate"` // "2025-10-15"
	StartTime   string       `json:"startTime"`   // "10:00"
	EndTime     string       `json:"endTime"`     // "12:00"
	Game        *GameRequest `json:"game,omitempty"`
}

// GameRequest параметры публичной игры, создаваемой вместе с бронированием
type GameRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	MaxPlayers  int     `json:"maxPlayers"`
	SkillLevel  string  `json:"skillLevel"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"userId"`
	CourtID     int64         `json:"courtId"`
	BookingDate string        `json:"bookingDate"`
	StartTime   string        `json:"startTime"`
	EndTime     string        `json:"endTime"`
	Status      string        `json:"status"`
	TotalPrice  float64       `json:"totalPrice"`
	Game        *GameResponse `json:"game,omitempty"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

// GameResponse краткая информация об игре
type GameResponse struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	MaxPlayers     int    `json:"maxPlayers"`
	CurrentPlayers int    `json:"currentPlayers"`
	SkillLevel     string `json:"skillLevel"`
	Status         string `json:"status"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start: %v", errInvalidTime, err)
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: end: %v", errInvalidTime, err)
	}

	req := &createBooking.Request{
		UserID:    userID,
		CourtID:   r.CourtID,
		Date:      bookingDate,
		StartTime: startTime,
		EndTime:   endTime,
	}
	if r.Game != nil {
		req.Game = &domain.GameOptions{
			Title:       r.Game.Title,
			Description: r.Game.Description,
			MaxPlayers:  r.Game.MaxPlayers,
			SkillLevel:  domain.SkillLevel(r.Game.SkillLevel),
		}
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	out := &BookingResponse{
		ID:          resp.ID,
		UserID:      resp.UserID,
		CourtID:     resp.CourtID,
		BookingDate: resp.BookingDate.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
		Status:      resp.Status,
		TotalPrice:  resp.TotalPrice,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Game != nil {
		out.Game = &GameResponse{
			ID:             resp.Game.ID,
			Title:          resp.Game.Title,
			MaxPlayers:     resp.Game.MaxPlayers,
			CurrentPlayers: resp.Game.CurrentPlayers,
			SkillLevel:     resp.Game.SkillLevel,
			Status:         resp.Game.Status,
		}
	}
	return out
}
