package get_available_slots

import (
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

// Request модель запроса сетки доступности
type Request struct {
	CourtID int64     // ID корта
	Date    time.Time // Дата (без времени)
}

// Response модель ответа с сеткой слотов
type Response struct {
	CourtID        int64
	Date           time.Time
	OpeningTime    types.TimeString
	ClosingTime    types.TimeString
	Slots          []Slot // Упорядочены по времени начала
	AvailableCount int
}

// Slot часовой слот сетки
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
}
