package excursions

import (
	"errors"
	"net/http"

	"github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/excursions"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/excursions/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidExcursionID = "некорректный ID экскурсии"
	msgInvalidInput       = "некорректные данные экскурсии: нужны название, цена >= 0 и длительность 15-1440 минут"
	msgNotFound           = "экскурсия не найдена"
	msgDuplicateName      = "экскурсия с таким названием уже есть"
)

type Handler struct {
	service ExcursionService
	logger  Logger
}

func NewHandler(service ExcursionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/excursions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExcursionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /excursions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /excursions", err)
		return
	}

	h.logger.Info("POST /excursions - Excursion created: id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Update PATCH /api/v1/excursions/{excursionId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "excursionId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidExcursionID)
		return
	}

	var req models.UpdateExcursionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /excursions/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, "PATCH /excursions/{id}", err)
		return
	}

	h.logger.Info("PATCH /excursions/{id} - Excursion updated: id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/excursions/{excursionId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "excursionId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidExcursionID)
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, "GET /excursions/{id}", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// List GET /api/v1/excursions?active=true
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	result, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		h.respondError(w, "GET /excursions", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, excursions.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidInput)
	case errors.Is(err, excursions.ErrExcursionNotFound):
		handlers.RespondNotFound(w, msgNotFound)
	case errors.Is(err, excursions.ErrDuplicateName):
		handlers.RespondConflict(w, msgDuplicateName)
	default:
		h.logger.Error("%s - Failed: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
