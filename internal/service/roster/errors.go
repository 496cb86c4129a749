package roster

import (
	"errors"
	"fmt"
)

var (
	// ErrGameNotFound возвращается, когда игра не найдена
	ErrGameNotFound = errors.New("game not found")

	// ErrGameNotJoinable возвращается для закрытой или отмененной игры.
	// Является разновидностью ErrGameNotFound.
	ErrGameNotJoinable = fmt.Errorf("%w: game is closed or cancelled", ErrGameNotFound)

	// ErrGameFull возвращается, когда в игре нет свободных мест
	ErrGameFull = errors.New("game is full")

	// ErrAlreadyMember возвращается при повторном вступлении в игру
	ErrAlreadyMember = errors.New("user is already a participant")

	// ErrNotMember возвращается, когда пользователь не участвует в игре
	ErrNotMember = errors.New("user is not a participant")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("access denied")

	// ErrGameAlreadyExists возвращается, когда для бронирования уже открыта игра
	ErrGameAlreadyExists = errors.New("game already exists for booking")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBookingNotEligible возвращается, когда бронирование отменено или уже началось
	ErrBookingNotEligible = errors.New("booking cannot host a game")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("roster: internal error")
)
