package get_available_slots

import (
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	getAvailableSlots "github.com/Abhijat05/QuickCourt-sub001/internal/usecase/get_available_slots"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	CourtID        int64           `json:"courtId"`
	Date           string          `json:"date"`
	OpeningTime    string          `json:"openingTime"`
	ClosingTime    string          `json:"closingTime"`
	AvailableCount int             `json:"availableCount"`
	Slots          []AvailableSlot `json:"slots"`
}

// AvailableSlot часовой слот
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailabilityResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
			Available: slot.Available,
		}
	}

	return &AvailabilityResponse{
		CourtID:        resp.CourtID,
		Date:           resp.Date.Format(domain.DateFormat),
		OpeningTime:    resp.OpeningTime.String(),
		ClosingTime:    resp.ClosingTime.String(),
		AvailableCount: resp.AvailableCount,
		Slots:          slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров пути и query
func ToUseCaseRequest(courtID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		CourtID: courtID,
		Date:    date,
	}, nil
}
