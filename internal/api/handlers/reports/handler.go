package reports

import (
	"errors"
	"net/http"

	"github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers"
	"github.com/Groisin18/Excursions-bot-sub000/internal/api/middleware"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/reports"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/reports/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPeriod      = "нужен период from и to в формате YYYY-MM-DD, from не позже to"
	msgInvalidID          = "некорректный ID"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidExpense     = "некорректный расход: нужны категория и сумма больше нуля"
	msgSalaryNotFound     = "начисление не найдено"
	msgSalaryAlreadyPaid  = "начисление уже выплачено"
)

type Handler struct {
	service ReportService
	logger  Logger
}

func NewHandler(service ReportService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Revenue GET /api/v1/reports/revenue?from=&to=
func (h *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	from, to, err := handlers.QueryPeriod(r)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.service.Revenue(r.Context(), from, to)
	if err != nil {
		h.respondError(w, "GET /reports/revenue", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Payroll GET /api/v1/reports/payroll?from=&to=
func (h *Handler) Payroll(w http.ResponseWriter, r *http.Request) {
	from, to, err := handlers.QueryPeriod(r)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.service.CaptainPayroll(r.Context(), from, to)
	if err != nil {
		h.respondError(w, "GET /reports/payroll", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// AddExpense POST /api/v1/expenses
func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.AddExpenseRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /expenses - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.CreatedByID = userID

	result, err := h.service.AddExpense(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /expenses", err)
		return
	}

	h.logger.Info("POST /expenses - Expense added: id=%d, category=%s, amount=%s", result.ID, result.Category, result.Amount)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// ListExpenses GET /api/v1/expenses?from=&to=
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	from, to, err := handlers.QueryPeriod(r)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.service.ListExpenses(r.Context(), from, to)
	if err != nil {
		h.respondError(w, "GET /expenses", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// PaySalary PATCH /api/v1/salaries/{salaryId}/pay
func (h *Handler) PaySalary(w http.ResponseWriter, r *http.Request) {
	salaryID, err := handlers.PathInt64(r, "salaryId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	result, err := h.service.MarkSalaryPaid(r.Context(), salaryID)
	if err != nil {
		h.respondError(w, "PATCH /salaries/{id}/pay", err)
		return
	}

	h.logger.Info("PATCH /salaries/{id}/pay - Salary paid: id=%d, amount=%s", result.ID, result.Amount)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// CaptainSalaries GET /api/v1/captains/{captainId}/salaries
func (h *Handler) CaptainSalaries(w http.ResponseWriter, r *http.Request) {
	captainID, err := handlers.PathInt64(r, "captainId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	result, err := h.service.ListCaptainSalaries(r.Context(), captainID)
	if err != nil {
		h.respondError(w, "GET /captains/{id}/salaries", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, reports.ErrInvalidPeriod):
		handlers.RespondBadRequest(w, msgInvalidPeriod)
	case errors.Is(err, reports.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidExpense)
	case errors.Is(err, reports.ErrSalaryNotFound):
		handlers.RespondNotFound(w, msgSalaryNotFound)
	case errors.Is(err, reports.ErrSalaryAlreadyPaid):
		handlers.RespondConflict(w, msgSalaryAlreadyPaid)
	default:
		h.logger.Error("%s - Failed: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
