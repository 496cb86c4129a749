package get_game

import (
	"context"

	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster/models"
)

type RosterService interface {
	GetGame(ctx context.Context, gameID int64) (*models.GameResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
