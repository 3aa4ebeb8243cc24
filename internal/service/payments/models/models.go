package models

import (
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// RegisterPaymentRequest регистрация поступившей оплаты
type RegisterPaymentRequest struct {
	BookingID  int64   `json:"bookingId"`
	Amount     string  `json:"amount"` // "1500.00"
	Method     string  `json:"method"` // cash, card, online
	ExternalID *string `json:"externalId,omitempty"`
}

// PaymentResponse движение денег по бронированию
type PaymentResponse struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"bookingId"`
	Amount     string    `json:"amount"`
	Method     string    `json:"method"`
	Kind       string    `json:"kind"`
	ExternalID *string   `json:"externalId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RegisterPaymentResponse результат регистрации платежа
type RegisterPaymentResponse struct {
	Payment       *PaymentResponse `json:"payment"`
	Paid          string           `json:"paid"`
	Outstanding   string           `json:"outstanding"`
	PaymentStatus string           `json:"paymentStatus"`
}

// FromDomainPayment конвертирует domain.Payment в PaymentResponse
func FromDomainPayment(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:         p.ID,
		BookingID:  p.BookingID,
		Amount:     p.Amount.StringFixed(2),
		Method:     string(p.Method),
		Kind:       string(p.Kind),
		ExternalID: p.ExternalID,
		CreatedAt:  p.CreatedAt,
	}
}

// FromDomainPaymentList конвертирует список платежей
func FromDomainPaymentList(list []*domain.Payment) []*PaymentResponse {
	out := make([]*PaymentResponse, len(list))
	for i, p := range list {
		out[i] = FromDomainPayment(p)
	}
	return out
}
