package models

import (
	"errors"
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// Response модели

// PassengerResponse пассажир бронирования
type PassengerResponse struct {
	UserID          int64  `json:"userId"`
	AgeYears        *int   `json:"ageYears,omitempty"`
	WeightKg        int    `json:"weightKg"`
	DiscountPercent int    `json:"discountPercent"`
	Price           string `json:"price"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64 `json:"id"`
	SlotID        int64 `json:"slotId"`
	ClientID      int64 `json:"clientId"`
	BookedByID    int64 `json:"bookedById"`
	PeopleCount   int   `json:"peopleCount"`
	TotalWeightKg int   `json:"totalWeightKg"`

	BaseAmount          string `json:"baseAmount"`
	AgeDiscountAmount   string `json:"ageDiscountAmount"`
	PromoDiscountAmount string `json:"promoDiscountAmount"`
	TotalPrice          string `json:"totalPrice"`
	PromoCodeID         *int64 `json:"promoCodeId,omitempty"`

	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	Passengers []PassengerResponse `json:"passengers"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CancelBookingResponse результат отмены
type CancelBookingResponse struct {
	BookingID     int64  `json:"bookingId"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	Refunded      string `json:"refunded"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                  b.ID,
		SlotID:              b.SlotID,
		ClientID:            b.ClientID,
		BookedByID:          b.BookedByID,
		PeopleCount:         b.PeopleCount,
		TotalWeightKg:       b.TotalWeightKg,
		BaseAmount:          b.BaseAmount.StringFixed(2),
		AgeDiscountAmount:   b.AgeDiscountAmount.StringFixed(2),
		PromoDiscountAmount: b.PromoDiscountAmount.StringFixed(2),
		TotalPrice:          b.TotalPrice.StringFixed(2),
		PromoCodeID:         b.PromoCodeID,
		Status:              string(b.Status),
		PaymentStatus:       string(b.PaymentStatus),
		CancellationReason:  b.CancellationReason,
		Passengers:          make([]PassengerResponse, len(b.Passengers)),
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}

	for i, p := range b.Passengers {
		resp.Passengers[i] = PassengerResponse{
			UserID:          p.UserID,
			AgeYears:        p.AgeYears,
			WeightKg:        p.WeightKg,
			DiscountPercent: p.DiscountPercent,
			Price:           p.Price.StringFixed(2),
		}
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !domain.ValidBookingStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}
