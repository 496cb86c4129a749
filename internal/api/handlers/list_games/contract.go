package list_games

import (
	"context"

	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster/models"
)

type RosterService interface {
	ListOpenGames(ctx context.Context, req *models.ListGamesRequest) (*models.GameListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
