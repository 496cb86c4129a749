package get_court_bookings

import (
	"context"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/bookings/models"
)

type BookingService interface {
	GetCourtBookings(ctx context.Context, actor domain.Actor, courtID int64, date time.Time) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
