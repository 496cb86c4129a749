package game

import "errors"

var (
	// ErrGameNotFound возвращается, когда игра не найдена
	ErrGameNotFound = errors.New("game.repository: game not found")

	// ErrGameAlreadyExists возвращается, когда для бронирования уже создана игра
	ErrGameAlreadyExists = errors.New("game.repository: game already exists for booking")

	// ErrParticipantNotFound возвращается, когда пользователь не состоит в игре
	ErrParticipantNotFound = errors.New("game.repository: participant not found")

	// ErrAlreadyMember возвращается при повторном добавлении участника
	ErrAlreadyMember = errors.New("game.repository: user already in roster")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("game.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("game.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("game.repository: failed to scan row")
)
