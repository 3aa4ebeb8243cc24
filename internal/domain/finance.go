package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryStatus статус начисления капитану
type SalaryStatus string

const (
	SalaryAccrued SalaryStatus = "accrued"
	SalaryPaid    SalaryStatus = "paid"
)

// Salary начисление капитану за проведенный слот
type Salary struct {
	ID        int64
	CaptainID int64
	SlotID    int64
	Amount    decimal.Decimal
	Status    SalaryStatus
	PaidAt    *time.Time
	CreatedAt time.Time
}

// Expense операционный расход (топливо, ремонт, причал и т.п.)
type Expense struct {
	ID          int64
	Category    string
	Amount      decimal.Decimal
	Description *string
	SlotID      *int64
	CreatedByID int64
	SpentAt     time.Time
	CreatedAt   time.Time
}

// Period полуинтервал [From, To) для отчетов
type Period struct {
	From time.Time
	To   time.Time
}

// IsValid конец периода позже начала
func (p Period) IsValid() bool {
	return p.To.After(p.From)
}
