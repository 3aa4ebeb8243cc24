package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// ReportRepository агрегаты для отчетов
type ReportRepository interface {
	BookingStats(ctx context.Context, period domain.Period) ([]domain.ExcursionBookingStats, error)
	PaymentStats(ctx context.Context, period domain.Period) ([]domain.ExcursionPaymentStats, error)
	ExpensesTotal(ctx context.Context, period domain.Period) (decimal.Decimal, error)
	SalariesTotal(ctx context.Context, period domain.Period) (decimal.Decimal, error)
	CaptainPayroll(ctx context.Context, period domain.Period) ([]domain.CaptainPayrollStats, error)
}

// FinanceRepository расходы и начисления капитанам
type FinanceRepository interface {
	GetSalaryByID(ctx context.Context, id int64) (*domain.Salary, error)
	MarkSalaryPaid(ctx context.Context, id int64, paidAt time.Time) error
	ListSalariesByCaptain(ctx context.Context, captainID int64) ([]*domain.Salary, error)
	CreateExpense(ctx context.Context, expense *domain.Expense) (*domain.Expense, error)
	ListExpenses(ctx context.Context, period domain.Period) ([]*domain.Expense, error)
}

// ExcursionRepository названия экскурсий для отчета
type ExcursionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Excursion, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
