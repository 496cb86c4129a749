package create_booking

import (
	"fmt"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
)

// validateRequest валидирует входные данные запроса и возвращает слот
func validateRequest(req *Request) (domain.TimeSlot, error) {
	if req.UserID <= 0 {
		return domain.TimeSlot{}, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.CourtID <= 0 {
		return domain.TimeSlot{}, fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return domain.TimeSlot{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return domain.TimeSlot{}, fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	slot, err := domain.NewTimeSlot(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return domain.TimeSlot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Game != nil {
		if err := req.Game.Normalize(); err != nil {
			return domain.TimeSlot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	return slot, nil
}
