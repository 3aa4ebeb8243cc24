package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Excursion тип экскурсии (маршрут) с базовой ценой за человека
type Excursion struct {
	ID              int64
	Name            string
	Description     *string
	BasePrice       decimal.Decimal
	DurationMinutes int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Duration длительность экскурсии по умолчанию
func (e *Excursion) Duration() time.Duration {
	return time.Duration(e.DurationMinutes) * time.Minute
}
