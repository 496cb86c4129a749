package create_booking

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден или неактивен
	ErrCourtNotFound = errors.New("create_booking: court not found")

	// ErrSlotNotAvailable возвращается, когда слот пересекается с подтвержденным бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidTimeSlot возвращается, когда слот выходит за рабочие часы корта
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrBookingInPast возвращается, когда начало слота уже наступило
	ErrBookingInPast = errors.New("create_booking: booking start is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
