package models

import (
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// ExcursionRevenue выручка по экскурсии за период
type ExcursionRevenue struct {
	ExcursionID   int64  `json:"excursionId"`
	ExcursionName string `json:"excursionName"`
	Bookings      int    `json:"bookings"`
	People        int    `json:"people"`
	Gross         string `json:"gross"`
	Refunds       string `json:"refunds"`
	Net           string `json:"net"`
}

// RevenueTotals итог по всем экскурсиям
type RevenueTotals struct {
	Bookings int    `json:"bookings"`
	People   int    `json:"people"`
	Gross    string `json:"gross"`
	Refunds  string `json:"refunds"`
	Net      string `json:"net"`
}

// RevenueReport отчет о выручке
type RevenueReport struct {
	From       time.Time          `json:"from"`
	To         time.Time          `json:"to"`
	Excursions []ExcursionRevenue `json:"excursions"`
	Totals     RevenueTotals      `json:"totals"`
	Expenses   string             `json:"expenses"`
	Salaries   string             `json:"salaries"`
	Profit     string             `json:"profit"`
}

// CaptainPayrollEntry начисления капитану за период
type CaptainPayrollEntry struct {
	CaptainID   int64  `json:"captainId"`
	CaptainName string `json:"captainName"`
	Slots       int    `json:"slots"`
	Passengers  int    `json:"passengers"`
	Accrued     string `json:"accrued"`
	Paid        string `json:"paid"`
	Outstanding string `json:"outstanding"`
}

// PayrollReport отчет по зарплатам капитанов
type PayrollReport struct {
	From     time.Time             `json:"from"`
	To       time.Time             `json:"to"`
	Captains []CaptainPayrollEntry `json:"captains"`
}

// AddExpenseRequest регистрация расхода
type AddExpenseRequest struct {
	Category    string     `json:"category"`
	Amount      string     `json:"amount"`
	Description *string    `json:"description,omitempty"`
	SlotID      *int64     `json:"slotId,omitempty"`
	SpentAt     *time.Time `json:"spentAt,omitempty"`
	CreatedByID int64      `json:"-"`
}

// ExpenseResponse данные расхода
type ExpenseResponse struct {
	ID          int64     `json:"id"`
	Category    string    `json:"category"`
	Amount      string    `json:"amount"`
	Description *string   `json:"description,omitempty"`
	SlotID      *int64    `json:"slotId,omitempty"`
	CreatedByID int64     `json:"createdById"`
	SpentAt     time.Time `json:"spentAt"`
}

// SalaryResponse данные начисления
type SalaryResponse struct {
	ID        int64      `json:"id"`
	CaptainID int64      `json:"captainId"`
	SlotID    int64      `json:"slotId"`
	Amount    string     `json:"amount"`
	Status    string     `json:"status"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
}

// FromDomainExpense конвертирует domain.Expense в ExpenseResponse
func FromDomainExpense(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		Category:    e.Category,
		Amount:      e.Amount.StringFixed(2),
		Description: e.Description,
		SlotID:      e.SlotID,
		CreatedByID: e.CreatedByID,
		SpentAt:     e.SpentAt,
	}
}

// FromDomainSalary конвертирует domain.Salary в SalaryResponse
func FromDomainSalary(s *domain.Salary) *SalaryResponse {
	return &SalaryResponse{
		ID:        s.ID,
		CaptainID: s.CaptainID,
		SlotID:    s.SlotID,
		Amount:    s.Amount.StringFixed(2),
		Status:    string(s.Status),
		PaidAt:    s.PaidAt,
	}
}
