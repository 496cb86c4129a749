package list_venue_courts

import (
	"context"

	"github.com/Abhijat05/QuickCourt-sub001/internal/service/courts/models"
)

type CourtService interface {
	ListVenueCourts(ctx context.Context, venueID int64) (*models.CourtListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
