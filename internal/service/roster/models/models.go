package models

import (
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
)

// Request модели

// CreateGameRequest запрос на открытие игры для существующего бронирования
type CreateGameRequest struct {
	BookingID   int64   `json:"bookingId"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	MaxPlayers  int     `json:"maxPlayers"`
	SkillLevel  string  `json:"skillLevel"`
}

// ToGameOptions конвертирует запрос в параметры игры
func (r *CreateGameRequest) ToGameOptions() domain.GameOptions {
	return domain.GameOptions{
		Title:       r.Title,
		Description: r.Description,
		MaxPlayers:  r.MaxPlayers,
		SkillLevel:  domain.SkillLevel(r.SkillLevel),
	}
}

// ListGamesRequest фильтр списка открытых игр
type ListGamesRequest struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	SkillLevel *string
	CourtID    *int64
	Limit      int
	Offset     int
}

// Response модели

// ParticipantResponse участник игры
type ParticipantResponse struct {
	UserID   int64     `json:"userId"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joinedAt"`
}

// GameResponse ответ с данными игры
type GameResponse struct {
	ID             int64     `json:"id"`
	BookingID      int64     `json:"bookingId"`
	HostID         int64     `json:"hostId"`
	Title          string    `json:"title"`
	Description    *string   `json:"description,omitempty"`
	MaxPlayers     int       `json:"maxPlayers"`
	CurrentPlayers int       `json:"currentPlayers"`
	SkillLevel     string    `json:"skillLevel"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Participants []ParticipantResponse `json:"participants,omitempty"`
}

// GameListItemResponse игра в списке вместе со слотом
type GameListItemResponse struct {
	GameResponse
	CourtID   int64  `json:"courtId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// GameListResponse список игр
type GameListResponse struct {
	Games  []GameListItemResponse `json:"games"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// Конвертеры

// FromDomainGame конвертирует domain.PublicGame в GameResponse
func FromDomainGame(g *domain.PublicGame) *GameResponse {
	return &GameResponse{
		ID:             g.ID,
		BookingID:      g.BookingID,
		HostID:         g.HostID,
		Title:          g.Title,
		Description:    g.Description,
		MaxPlayers:     g.MaxPlayers,
		CurrentPlayers: g.CurrentPlayers,
		SkillLevel:     string(g.SkillLevel),
		Status:         string(g.Status),
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

// FromDomainGameWithParticipants добавляет состав к ответу
func FromDomainGameWithParticipants(g *domain.GameWithParticipants) *GameResponse {
	resp := FromDomainGame(g.Game)
	resp.Participants = make([]ParticipantResponse, 0, len(g.Participants))
	for _, p := range g.Participants {
		resp.Participants = append(resp.Participants, ParticipantResponse{
			UserID:   p.UserID,
			Status:   string(p.Status),
			JoinedAt: p.JoinedAt,
		})
	}
	return resp
}

// FromDomainGameList конвертирует список игр
func FromDomainGameList(items []*domain.GameListItem, limit, offset int) *GameListResponse {
	games := make([]GameListItemResponse, 0, len(items))
	for _, item := range items {
		games = append(games, GameListItemResponse{
			GameResponse: *FromDomainGame(item.Game),
			CourtID:      item.CourtID,
			Date:         item.Date.Format(domain.DateFormat),
			StartTime:    item.StartTime.String(),
			EndTime:      item.EndTime.String(),
		})
	}
	return &GameListResponse{Games: games, Limit: limit, Offset: offset}
}
