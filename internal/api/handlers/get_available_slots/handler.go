package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers"
	"github.com/Groisin18/Excursions-bot-sub000/internal/api/middleware"
	getAvailableSlots "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/get_available_slots"
)

const (
	msgInvalidQuery  = "некорректные параметры: from в формате YYYY-MM-DD, days и excursionId - числа"
	msgInvalidInput  = "некорректные параметры поиска"
	msgInvalidDate   = "период поиска уже прошел"
	msgWindowTooLong = "слишком длинный период поиска"
)

type Handler struct {
	useCase  GetAvailableSlotsUseCase
	location *time.Location
	logger   Logger
}

// NewHandler создает handler; даты без времени трактуются в часовом поясе loc
func NewHandler(useCase GetAvailableSlotsUseCase, loc *time.Location, logger Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: loc,
		logger:   logger,
	}
}

// Handle GET /api/v1/slots/available
// Query params: from (YYYY-MM-DD), days, excursionId
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	useCaseReq, err := ToUseCaseRequest(userID, r.URL.Query(), h.location)
	if err != nil {
		h.logger.Warn("GET /slots/available - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrWindowTooLong):
			handlers.RespondBadRequest(w, msgWindowTooLong)

		default:
			h.logger.Error("GET /slots/available - Failed to get slots: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots/available - Slots retrieved successfully: slots_count=%d", len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
