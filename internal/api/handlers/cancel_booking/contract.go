package cancel_booking

import (
	"context"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/bookings/models"
)

type BookingService interface {
	Cancel(ctx context.Context, bookingID int64, actor domain.Actor) (*models.CancelBookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
