package create_booking

import (
	"time"

	createBooking "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SlotID       int64   `json:"slotId"`
	HolderID     int64   `json:"holderId"`
	PassengerIDs []int64 `json:"passengerIds,omitempty"`
	PromoCode    *string `json:"promoCode,omitempty"`
}

// PassengerLine HTTP модель строки расчета по пассажиру
type PassengerLine struct {
	UserID          int64  `json:"userId"`
	FullName        string `json:"fullName"`
	AgeYears        *int   `json:"ageYears,omitempty"`
	WeightKg        int    `json:"weightKg"`
	DiscountPercent int    `json:"discountPercent"`
	Price           string `json:"price"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                  int64           `json:"id,omitempty"`
	SlotID              int64           `json:"slotId"`
	ExcursionName       string          `json:"excursionName"`
	StartAt             string          `json:"startAt"`
	PeopleCount         int             `json:"peopleCount"`
	TotalWeightKg       int             `json:"totalWeightKg"`
	Passengers          []PassengerLine `json:"passengers"`
	BaseAmount          string          `json:"baseAmount"`
	AgeDiscountAmount   string          `json:"ageDiscountAmount"`
	PromoDiscountAmount string          `json:"promoDiscountAmount"`
	Total               string          `json:"total"`
	PromoCode           *string         `json:"promoCode,omitempty"`
	SeatsLeft           int             `json:"seatsLeft"`
	Status              string          `json:"status,omitempty"`
	PaymentStatus       string          `json:"paymentStatus,omitempty"`
	CreatedAt           string          `json:"createdAt,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Бронь оформляет пользователь из X-User-ID
func (r *CreateBookingRequest) ToUseCaseRequest(bookedByID int64) *createBooking.Request {
	holderID := r.HolderID
	if holderID == 0 {
		holderID = bookedByID
	}
	return &createBooking.Request{
		SlotID:       r.SlotID,
		HolderID:     holderID,
		BookedByID:   bookedByID,
		PassengerIDs: r.PassengerIDs,
		PromoCode:    r.PromoCode,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	out := &BookingResponse{
		ID:                  resp.BookingID,
		SlotID:              resp.SlotID,
		ExcursionName:       resp.ExcursionName,
		StartAt:             resp.StartAt.Format(time.RFC3339),
		PeopleCount:         resp.PeopleCount,
		TotalWeightKg:       resp.TotalWeightKg,
		Passengers:          make([]PassengerLine, len(resp.Passengers)),
		BaseAmount:          resp.BaseAmount.StringFixed(2),
		AgeDiscountAmount:   resp.AgeDiscountAmount.StringFixed(2),
		PromoDiscountAmount: resp.PromoDiscountAmount.StringFixed(2),
		Total:               resp.Total.StringFixed(2),
		PromoCode:           resp.PromoCode,
		SeatsLeft:           resp.SeatsLeft,
		Status:              resp.Status,
		PaymentStatus:       resp.PaymentStatus,
	}
	if !resp.CreatedAt.IsZero() {
		out.CreatedAt = resp.CreatedAt.Format(time.RFC3339)
	}
	for i, p := range resp.Passengers {
		out.Passengers[i] = PassengerLine{
			UserID:          p.UserID,
			FullName:        p.FullName,
			AgeYears:        p.AgeYears,
			WeightKg:        p.WeightKg,
			DiscountPercent: p.DiscountPercent,
			Price:           p.Price.StringFixed(2),
		}
	}
	return out
}
