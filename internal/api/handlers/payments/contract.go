package payments

import (
	"context"

	"github.com/Groisin18/Excursions-bot-sub000/internal/service/payments/models"
)

type PaymentService interface {
	Register(ctx context.Context, req *models.RegisterPaymentRequest) (*models.RegisterPaymentResponse, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]*models.PaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
