package create_booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса на создание бронирования
type Request struct {
	SlotID       int64   // ID слота
	HolderID     int64   // ID держателя брони
	BookedByID   int64   // кто оформляет (0 = сам держатель)
	PassengerIDs []int64 // пассажиры (пусто = только держатель)
	PromoCode    *string // промокод (опционально)
}

// Rules правила бронирования из конфигурации
type Rules struct {
	MinBookingNotice time.Duration
	DefaultWeightKg  int
	MaxPassengers    int
}

// PassengerLine строка расчета по пассажиру
type PassengerLine struct {
	UserID          int64
	FullName        string
	AgeYears        *int
	WeightKg        int
	DiscountPercent int
	Price           decimal.Decimal
}

// Response модель ответа с созданным бронированием или предварительным расчетом
type Response struct {
	BookingID     int64 // 0 для предварительного расчета
	SlotID        int64
	ExcursionName string
	StartAt       time.Time
	PeopleCount   int
	TotalWeightKg int
	Passengers    []PassengerLine

	BaseAmount          decimal.Decimal
	AgeDiscountAmount   decimal.Decimal
	PromoDiscountAmount decimal.Decimal
	Total               decimal.Decimal
	PromoCode           *string

	SeatsLeft     int // свободно после бронирования
	Status        string
	PaymentStatus string
	CreatedAt     time.Time
}
