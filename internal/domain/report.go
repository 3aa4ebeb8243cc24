package domain

import "github.com/shopspring/decimal"

// ExcursionBookingStats статистика бронирований по экскурсии за период
type ExcursionBookingStats struct {
	ExcursionID   int64
	ExcursionName string
	Bookings      int
	People        int
}

// ExcursionPaymentStats движение денег по экскурсии за период
type ExcursionPaymentStats struct {
	ExcursionID int64
	Gross       decimal.Decimal
	Refunds     decimal.Decimal
}

// CaptainPayrollStats начисления капитану за период
type CaptainPayrollStats struct {
	CaptainID   int64
	CaptainName string
	Slots       int
	Passengers  int
	Accrued     decimal.Decimal
	Paid        decimal.Decimal
}
