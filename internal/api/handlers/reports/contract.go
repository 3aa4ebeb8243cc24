package reports

import (
	"context"
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/service/reports/models"
)

type ReportService interface {
	Revenue(ctx context.Context, from, to time.Time) (*models.RevenueReport, error)
	CaptainPayroll(ctx context.Context, from, to time.Time) (*models.PayrollReport, error)
	AddExpense(ctx context.Context, req *models.AddExpenseRequest) (*models.ExpenseResponse, error)
	ListExpenses(ctx context.Context, from, to time.Time) ([]*models.ExpenseResponse, error)
	MarkSalaryPaid(ctx context.Context, salaryID int64) (*models.SalaryResponse, error)
	ListCaptainSalaries(ctx context.Context, captainID int64) ([]*models.SalaryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
