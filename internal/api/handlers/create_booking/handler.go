package create_booking

import (
	"errors"
	"net/http"

	"github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers"
	"github.com/Groisin18/Excursions-bot-sub000/internal/api/middleware"
	createBooking "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgInvalidInput        = "некорректные параметры бронирования"
	msgSlotNotFound        = "слот не найден"
	msgSlotNotBookable     = "слот закрыт для бронирования"
	msgTooLateToBook       = "слишком поздно для бронирования этого слота"
	msgExcursionInactive   = "экскурсия снята с продажи"
	msgHolderNotFound      = "держатель брони не зарегистрирован"
	msgPassengerNotFound   = "пассажир не найден"
	msgPassengerNotAllowed = "пассажир не зарегистрирован держателем брони"
	msgAlreadyBooked       = "на этот слот уже есть бронь"
	msgNotEnoughSeats      = "недостаточно свободных мест"
	msgWeightExceeded      = "превышен допустимый суммарный вес"
	msgPromoInvalid        = "промокод недействителен"
	msgPromoExpired        = "срок действия промокода истек"
	msgPromoExhausted      = "лимит использований промокода исчерпан"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	useCaseReq, ok := h.decode(w, r, "POST /bookings")
	if !ok {
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, "POST /bookings", useCaseReq, err)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, holder_id=%d, slot_id=%d",
		result.BookingID, useCaseReq.HolderID, useCaseReq.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// HandlePreview POST /api/v1/bookings/preview
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	useCaseReq, ok := h.decode(w, r, "POST /bookings/preview")
	if !ok {
		return
	}

	result, err := h.useCase.Preview(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, "POST /bookings/preview", useCaseReq, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, op string) (*createBooking.Request, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", op)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return nil, false
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return nil, false
	}

	return req.ToUseCaseRequest(userID), true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, req *createBooking.Request, err error) {
	switch {
	case errors.Is(err, createBooking.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, createBooking.ErrSlotNotFound):
		h.logger.Warn("%s - Slot not found: slot_id=%d", op, req.SlotID)
		handlers.RespondNotFound(w, msgSlotNotFound)

	case errors.Is(err, createBooking.ErrSlotNotBookable):
		handlers.RespondConflict(w, msgSlotNotBookable)

	case errors.Is(err, createBooking.ErrTooLateToBook):
		handlers.RespondBadRequest(w, msgTooLateToBook)

	case errors.Is(err, createBooking.ErrExcursionInactive):
		handlers.RespondConflict(w, msgExcursionInactive)

	case errors.Is(err, createBooking.ErrHolderNotFound):
		handlers.RespondNotFound(w, msgHolderNotFound)

	case errors.Is(err, createBooking.ErrPassengerNotFound):
		handlers.RespondNotFound(w, msgPassengerNotFound)

	case errors.Is(err, createBooking.ErrPassengerNotAllowed):
		handlers.RespondForbidden(w, msgPassengerNotAllowed)

	case errors.Is(err, createBooking.ErrAlreadyBooked):
		handlers.RespondConflict(w, msgAlreadyBooked)

	case errors.Is(err, createBooking.ErrNotEnoughSeats):
		handlers.RespondConflict(w, msgNotEnoughSeats)

	case errors.Is(err, createBooking.ErrWeightExceeded):
		handlers.RespondConflict(w, msgWeightExceeded)

	case errors.Is(err, createBooking.ErrPromoInvalid):
		handlers.RespondBadRequest(w, msgPromoInvalid)

	case errors.Is(err, createBooking.ErrPromoExpired):
		handlers.RespondBadRequest(w, msgPromoExpired)

	case errors.Is(err, createBooking.ErrPromoExhausted):
		handlers.RespondConflict(w, msgPromoExhausted)

	default:
		h.logger.Error("%s - Failed to process booking: holder_id=%d, slot_id=%d, error=%v",
			op, req.HolderID, req.SlotID, err)
		handlers.RespondInternalError(w)
	}
}
