package get_available_slots

import (
	"fmt"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/conflict"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

// project разбивает рабочие часы на часовые слоты и помечает занятые.
// Неполный хвост окна (например 21:30-22:00 при шаге в час) не выдается.
// Пустое или перевернутое окно дает пустую сетку.
func project(hours domain.OperatingHours, date time.Time, bookings []*domain.Booking) ([]domain.AvailabilitySlot, error) {
	opening := hours.Opening.Minutes()
	closing := hours.Closing.Minutes()
	if opening < 0 || closing < 0 {
		return nil, fmt.Errorf("invalid operating hours %s-%s", hours.Opening, hours.Closing)
	}
	if !hours.Valid() {
		return []domain.AvailabilitySlot{}, nil
	}

	slots := make([]domain.AvailabilitySlot, 0, (closing-opening)/domain.SlotGranularityMinutes)
	for start := opening; start+domain.SlotGranularityMinutes <= closing; start += domain.SlotGranularityMinutes {
		startTime, err := types.FromMinutes(start)
		if err != nil {
			return nil, err
		}
		endTime, err := types.FromMinutes(start + domain.SlotGranularityMinutes)
		if err != nil {
			return nil, err
		}

		slot := domain.TimeSlot{Date: domain.DateOnly(date), Start: startTime, End: endTime}
		slots = append(slots, domain.AvailabilitySlot{
			StartTime: startTime,
			EndTime:   endTime,
			Available: !conflict.IsBlocked(bookings, slot),
		})
	}

	return slots, nil
}
