package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingNoShow    BookingStatus = "no_show"
)

// PaymentStatus статус оплаты бронирования
type PaymentStatus string

const (
	PaymentNotPaid  PaymentStatus = "not_paid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking бронирование места (мест) в слоте экскурсии
// ClientID - держатель брони, BookedByID - кто её оформил (клиент или администратор)
type Booking struct {
	ID            int64
	SlotID        int64
	ClientID      int64
	BookedByID    int64
	PeopleCount   int
	TotalWeightKg int

	BaseAmount          decimal.Decimal // базовая цена * количество пассажиров
	AgeDiscountAmount   decimal.Decimal // сумма возрастных скидок
	PromoDiscountAmount decimal.Decimal // скидка по промокоду
	TotalPrice          decimal.Decimal
	PromoCodeID         *int64

	Status        BookingStatus
	PaymentStatus PaymentStatus

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Passengers []BookingPassenger
}

// BookingPassenger пассажир в составе бронирования
type BookingPassenger struct {
	BookingID       int64
	UserID          int64
	AgeYears        *int
	WeightKg        int
	DiscountPercent int
	Price           decimal.Decimal
}

// IsActive бронирование действует и может быть изменено
func (b *Booking) IsActive() bool {
	return b.Status == BookingActive
}

// OccupiesSlot бронирование занимает места в слоте
func (b *Booking) OccupiesSlot() bool {
	return b.Status == BookingActive || b.Status == BookingCompleted
}

// CanBeCancelled отменить можно только действующее бронирование
func (b *Booking) CanBeCancelled() bool {
	return b.Status == BookingActive
}

// IsPaid бронирование оплачено
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid
}

// HasPassenger проверяет, что пользователь держатель брони или едет в её составе
func (b *Booking) HasPassenger(userID int64) bool {
	if b.ClientID == userID {
		return true
	}
	for _, p := range b.Passengers {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// ValidBookingStatus проверяет строку статуса
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingActive, BookingCancelled, BookingCompleted, BookingNoShow:
		return true
	}
	return false
}

// BookingFilter фильтр для выборки бронирований
type BookingFilter struct {
	SlotID        *int64
	ClientID      *int64
	Status        *BookingStatus
	OnlyOccupying bool // только бронирования, занимающие места (active, completed)
}
