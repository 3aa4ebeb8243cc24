package payments

import (
	"errors"
	"net/http"

	"github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/payments"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/payments/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidInput       = "некорректный платеж: сумма должна быть больше нуля, способ - cash, card или online"
	msgBookingNotFound    = "бронирование не найдено"
	msgNotPayable         = "бронирование отменено или не состоялось"
	msgOverpayment        = "сумма превышает остаток к оплате"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register POST /api/v1/bookings/{bookingId}/payments
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req models.RegisterPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/payments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.BookingID = bookingID

	result, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)
		case errors.Is(err, payments.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)
		case errors.Is(err, payments.ErrBookingNotPayable):
			handlers.RespondConflict(w, msgNotPayable)
		case errors.Is(err, payments.ErrOverpayment):
			h.logger.Warn("POST /bookings/{id}/payments - Overpayment: booking_id=%d, amount=%s", bookingID, req.Amount)
			handlers.RespondConflict(w, msgOverpayment)
		default:
			h.logger.Error("POST /bookings/{id}/payments - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payments - Payment registered: booking_id=%d, status=%s", bookingID, result.PaymentStatus)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// List GET /api/v1/bookings/{bookingId}/payments
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.service.ListByBooking(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, payments.ErrBookingNotFound) {
			handlers.RespondNotFound(w, msgBookingNotFound)
			return
		}
		h.logger.Error("GET /bookings/{id}/payments - Failed: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}
