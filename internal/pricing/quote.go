package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// Passenger данные пассажира, влияющие на цену
type Passenger struct {
	UserID    int64
	BirthDate *time.Time
}

// PassengerQuote расчёт цены для одного пассажира
type PassengerQuote struct {
	UserID          int64
	AgeYears        *int
	DiscountPercent int
	Price           decimal.Decimal
}

// Quote полный расчёт стоимости бронирования
type Quote struct {
	Passengers          []PassengerQuote
	BaseAmount          decimal.Decimal // базовая цена * количество пассажиров
	AgeDiscountAmount   decimal.Decimal
	Subtotal            decimal.Decimal // после возрастных скидок
	PromoDiscountAmount decimal.Decimal
	Total               decimal.Decimal
}

// Calculator калькулятор стоимости с настроенной сеткой возрастных скидок
type Calculator struct {
	tiers []AgeTier
}

// NewCalculator создает калькулятор. Пустая сетка заменяется DefaultAgeTiers
func NewCalculator(tiers []AgeTier) *Calculator {
	if len(tiers) == 0 {
		tiers = DefaultAgeTiers
	}
	return &Calculator{tiers: tiers}
}

// Quote считает стоимость поездки для пассажиров
// Возраст определяется на дату начала экскурсии (at)
func (c *Calculator) Quote(base decimal.Decimal, passengers []Passenger, promo *domain.PromoCode, at time.Time) Quote {
	q := Quote{
		Passengers: make([]PassengerQuote, 0, len(passengers)),
		BaseAmount: base.Mul(decimal.NewFromInt(int64(len(passengers)))).Round(2),
		Subtotal:   decimal.Zero,
	}

	for _, p := range passengers {
		var age *int
		if p.BirthDate != nil {
			a := AgeOn(*p.BirthDate, at)
			age = &a
		}

		percent := DiscountForAge(c.tiers, age)
		price := PassengerPrice(base, percent)

		q.Passengers = append(q.Passengers, PassengerQuote{
			UserID:          p.UserID,
			AgeYears:        age,
			DiscountPercent: percent,
			Price:           price,
		})
		q.Subtotal = q.Subtotal.Add(price)
	}

	q.AgeDiscountAmount = q.BaseAmount.Sub(q.Subtotal)
	q.PromoDiscountAmount, q.Total = ApplyPromo(q.Subtotal, promo)

	return q
}
