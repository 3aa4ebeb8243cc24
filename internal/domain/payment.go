package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod способ оплаты
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodCard   PaymentMethod = "card"
	MethodOnline PaymentMethod = "online"
)

// PaymentKind тип движения денег по бронированию
type PaymentKind string

const (
	KindPayment PaymentKind = "payment"
	KindRefund  PaymentKind = "refund"
)

// Payment оплата или возврат по бронированию. Amount всегда положительный
type Payment struct {
	ID         int64
	BookingID  int64
	Amount     decimal.Decimal
	Method     PaymentMethod
	Kind       PaymentKind
	ExternalID *string
	CreatedAt  time.Time
}

// SignedAmount сумма со знаком: возврат уменьшает оплаченное
func (p *Payment) SignedAmount() decimal.Decimal {
	if p.Kind == KindRefund {
		return p.Amount.Neg()
	}
	return p.Amount
}

// ValidPaymentMethod проверяет строку способа оплаты
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodCard, MethodOnline:
		return true
	}
	return false
}
