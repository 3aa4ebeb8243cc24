package bot

import (
	"context"
	"time"

	bookingsModels "github.com/Groisin18/Excursions-bot-sub000/internal/service/bookings/models"
	reportsModels "github.com/Groisin18/Excursions-bot-sub000/internal/service/reports/models"
	usersModels "github.com/Groisin18/Excursions-bot-sub000/internal/service/users/models"
	createBooking "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/create_booking"
	getAvailableSlots "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/get_available_slots"
)

type UserService interface {
	Register(ctx context.Context, req *usersModels.RegisterRequest) (*usersModels.UserResponse, error)
	RegisterDependent(ctx context.Context, req *usersModels.RegisterDependentRequest) (*usersModels.DependentResponse, error)
	ListDependents(ctx context.Context, proxyID int64) ([]*usersModels.DependentResponse, error)
	LinkByToken(ctx context.Context, chatID, token string) (*usersModels.UserResponse, error)
	GetByChatID(ctx context.Context, chatID string) (*usersModels.UserResponse, error)
}

type BookingService interface {
	GetUserBookings(ctx context.Context, req *bookingsModels.GetUserBookingsRequest) (*bookingsModels.BookingListResponse, error)
	GetSlotBookings(ctx context.Context, slotID int64, userID int64) (*bookingsModels.BookingListResponse, error)
	Cancel(ctx context.Context, bookingID int64, req *bookingsModels.CancelBookingRequest) (*bookingsModels.CancelBookingResponse, error)
}

type ReportService interface {
	Revenue(ctx context.Context, from, to time.Time) (*reportsModels.RevenueReport, error)
	CaptainPayroll(ctx context.Context, from, to time.Time) (*reportsModels.PayrollReport, error)
}

type CreateBookingUseCase interface {
	Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
	Preview(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

type AvailableSlotsUseCase interface {
	Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error)
}

// Metrics счетчик обработанных команд
type Metrics interface {
	ObserveBotCommand(command string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
