package get_slot_bookings

import (
	"context"

	"github.com/Groisin18/Excursions-bot-sub000/internal/service/bookings/models"
)

type BookingService interface {
	GetSlotBookings(ctx context.Context, slotID int64, userID int64) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
