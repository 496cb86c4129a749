package join_game

import (
	"context"

	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster/models"
)

type RosterService interface {
	Join(ctx context.Context, gameID, userID int64) (*models.GameResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
