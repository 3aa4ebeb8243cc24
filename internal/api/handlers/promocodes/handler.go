package promocodes

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/promocodes"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/promocodes/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректный промокод: тип percent (1-100) или fixed (> 0)"
	msgNotFound           = "промокод не найден"
	msgExists             = "такой промокод уже существует"
	msgInvalid            = "промокод не действует"
	msgExpired            = "срок действия промокода истек"
	msgExhausted          = "промокод больше не действует: лимит использований исчерпан"
)

type Handler struct {
	service PromoCodeService
	logger  Logger
}

func NewHandler(service PromoCodeService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/promocodes
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePromoCodeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /promocodes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /promocodes", err)
		return
	}

	h.logger.Info("POST /promocodes - Promo code created: %s", result.Code)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// List GET /api/v1/promocodes?active=true
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		h.respondError(w, "GET /promocodes", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Check GET /api/v1/promocodes/{code}
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	result, err := h.service.Check(r.Context(), code)
	if err != nil {
		h.respondError(w, "GET /promocodes/{code}", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Deactivate DELETE /api/v1/promocodes/{code}
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	if err := h.service.Deactivate(r.Context(), code); err != nil {
		h.respondError(w, "DELETE /promocodes/{code}", err)
		return
	}

	h.logger.Info("DELETE /promocodes/{code} - Promo code deactivated: %s", code)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, promocodes.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidInput)
	case errors.Is(err, promocodes.ErrPromoNotFound):
		handlers.RespondNotFound(w, msgNotFound)
	case errors.Is(err, promocodes.ErrPromoExists):
		handlers.RespondConflict(w, msgExists)
	case errors.Is(err, promocodes.ErrPromoInvalid):
		handlers.RespondConflict(w, msgInvalid)
	case errors.Is(err, promocodes.ErrPromoExpired):
		handlers.RespondConflict(w, msgExpired)
	case errors.Is(err, promocodes.ErrPromoExhausted):
		handlers.RespondConflict(w, msgExhausted)
	default:
		h.logger.Error("%s - Failed: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
