package users

import (
	"errors"
	"net/http"

	"github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers"
	"github.com/Groisin18/Excursions-bot-sub000/internal/api/middleware"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/users"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/users/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidUserID      = "некорректный ID пользователя"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные пользователя"
	msgUserNotFound       = "пользователь не найден"
	msgAccessDenied       = "недостаточно прав"
)

type Handler struct {
	service UserService
	logger  Logger
}

func NewHandler(service UserService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Get GET /api/v1/users/{userId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	result, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		h.respondError(w, "GET /users/{id}", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// RegisterDependent POST /api/v1/users/{userId}/dependents - оформление спутника администратором
func (h *Handler) RegisterDependent(w http.ResponseWriter, r *http.Request) {
	proxyID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	var req models.RegisterDependentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /users/{id}/dependents - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ProxyID = proxyID

	result, err := h.service.RegisterDependent(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /users/{id}/dependents", err)
		return
	}

	h.logger.Info("POST /users/{id}/dependents - Dependent registered: proxy_id=%d, user_id=%d", proxyID, result.User.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// ListDependents GET /api/v1/users/{userId}/dependents
func (h *Handler) ListDependents(w http.ResponseWriter, r *http.Request) {
	proxyID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	result, err := h.service.ListDependents(r.Context(), proxyID)
	if err != nil {
		h.respondError(w, "GET /users/{id}/dependents", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// SetRole PUT /api/v1/users/{userId}/role
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	userID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	var req SetRoleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.SetRole(r.Context(), adminID, userID, req.Role); err != nil {
		h.respondError(w, "PUT /users/{id}/role", err)
		return
	}

	h.logger.Info("PUT /users/{id}/role - admin_id=%d set role %s for user_id=%d", adminID, req.Role, userID)
	w.WriteHeader(http.StatusNoContent)
}

// ListCaptains GET /api/v1/captains
func (h *Handler) ListCaptains(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListCaptains(r.Context())
	if err != nil {
		h.respondError(w, "GET /captains", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, users.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidInput)
	case errors.Is(err, users.ErrUserNotFound):
		handlers.RespondNotFound(w, msgUserNotFound)
	case errors.Is(err, users.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: %v", op, err)
		handlers.RespondForbidden(w, msgAccessDenied)
	default:
		h.logger.Error("%s - Failed: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
