package create_booking

import (
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID    int64               // ID пользователя
	CourtID   int64               // ID корта
	Date      time.Time           // Дата бронирования (без времени)
	StartTime types.TimeString    // Начало слота, например "10:00"
	EndTime   types.TimeString    // Конец слота, например "12:00"
	Game      *domain.GameOptions // Параметры публичной игры (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64
	UserID      int64
	CourtID     int64
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Status      string
	TotalPrice  float64
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Game *GameResponse // nil, если игра не создавалась
}

// GameResponse краткая информация о созданной игре
type GameResponse struct {
	ID             int64
	Title          string
	MaxPlayers     int
	CurrentPlayers int
	SkillLevel     string
	Status         string
}
