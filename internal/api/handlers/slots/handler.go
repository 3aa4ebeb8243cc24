package slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers"
	"github.com/Groisin18/Excursions-bot-sub000/internal/api/middleware"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/slots"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/slots/models"
	createSlot "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/create_slot"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidQuery       = "некорректные параметры: from/to в формате YYYY-MM-DD, excursionId - число"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные параметры слота"
	msgSlotNotFound       = "слот не найден"
	msgExcursionNotFound  = "экскурсия не найдена"
	msgExcursionInactive  = "экскурсия снята с продажи"
	msgCaptainNotFound    = "капитан не найден"
	msgStartInPast        = "время начала уже прошло"
	msgSlotConflict       = "слот пересекается с другим слотом экскурсии или капитана"
	msgInvalidTransition  = "недопустимая смена статуса слота"
	msgSlotFinished       = "слот уже завершен или отменен"
)

type Handler struct {
	createSlot CreateSlotUseCase
	service    SlotService
	logger     Logger
}

func NewHandler(createSlot CreateSlotUseCase, service SlotService, logger Logger) *Handler {
	return &Handler{
		createSlot: createSlot,
		service:    service,
		logger:     logger,
	}
}

// Create POST /api/v1/slots
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.createSlot.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createSlot.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)
		case errors.Is(err, createSlot.ErrStartInPast):
			handlers.RespondBadRequest(w, msgStartInPast)
		case errors.Is(err, createSlot.ErrExcursionNotFound):
			handlers.RespondNotFound(w, msgExcursionNotFound)
		case errors.Is(err, createSlot.ErrExcursionInactive):
			handlers.RespondConflict(w, msgExcursionInactive)
		case errors.Is(err, createSlot.ErrCaptainNotFound):
			handlers.RespondNotFound(w, msgCaptainNotFound)
		case errors.Is(err, createSlot.ErrSlotConflict):
			h.logger.Warn("POST /slots - Conflict: %v", err)
			handlers.RespondConflict(w, msgSlotConflict)
		default:
			h.logger.Error("POST /slots - Failed to create slot: excursion_id=%d, error=%v", req.ExcursionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots - Slot created: id=%d, excursion_id=%d", result.SlotID, result.ExcursionID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// List GET /api/v1/slots?from=&to=&excursionId=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := &models.ListSlotsRequest{}

	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}
	to, err := handlers.QueryDate(r, "to")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}
	req.From = from
	if to != nil {
		// дата to включительно
		end := to.AddDate(0, 0, 1)
		req.To = &end
	}
	if raw := r.URL.Query().Get("excursionId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		req.ExcursionID = &id
	}

	result, err := h.service.ListUpcoming(r.Context(), req)
	if err != nil {
		h.respondError(w, "GET /slots", 0, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// ListMine GET /api/v1/captain/slots - предстоящие слоты капитана из X-User-ID
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	captainID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.ListByCaptain(r.Context(), captainID, time.Now())
	if err != nil {
		h.respondError(w, "GET /captain/slots", 0, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/slots/{slotId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	result, err := h.service.GetByID(r.Context(), slotID)
	if err != nil {
		h.respondError(w, "GET /slots/{id}", slotID, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// ChangeStatus PATCH /api/v1/slots/{slotId}/status
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ChangeStatus(r.Context(), slotID, req.Status)
	if err != nil {
		h.respondError(w, "PATCH /slots/{id}/status", slotID, err)
		return
	}

	h.logger.Info("PATCH /slots/{id}/status - slot_id=%d is now %s", slotID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// AssignCaptain PUT /api/v1/slots/{slotId}/captain
func (h *Handler) AssignCaptain(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req AssignCaptainRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AssignCaptain(r.Context(), slotID, req.CaptainID)
	if err != nil {
		h.respondError(w, "PUT /slots/{id}/captain", slotID, err)
		return
	}

	h.logger.Info("PUT /slots/{id}/captain - slot_id=%d, captain_id=%v", slotID, req.CaptainID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, slotID int64, err error) {
	switch {
	case errors.Is(err, slots.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidInput)
	case errors.Is(err, slots.ErrSlotNotFound):
		handlers.RespondNotFound(w, msgSlotNotFound)
	case errors.Is(err, slots.ErrCaptainNotFound):
		handlers.RespondNotFound(w, msgCaptainNotFound)
	case errors.Is(err, slots.ErrSlotConflict):
		handlers.RespondConflict(w, msgSlotConflict)
	case errors.Is(err, slots.ErrInvalidTransition):
		handlers.RespondConflict(w, msgInvalidTransition)
	case errors.Is(err, slots.ErrSlotFinished):
		handlers.RespondConflict(w, msgSlotFinished)
	default:
		h.logger.Error("%s - Failed: slot_id=%d, error=%v", op, slotID, err)
		handlers.RespondInternalError(w)
	}
}
