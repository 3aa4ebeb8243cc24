package pricing

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// AgeTier возрастная категория [MinAge, MaxAge) со скидкой в процентах
type AgeTier struct {
	MinAge          int
	MaxAge          int
	DiscountPercent int
}

// DefaultAgeTiers сетка скидок по умолчанию:
// до 3 лет бесплатно, 3-6 лет -50%, 7-13 лет -30%, старше - полная цена
var DefaultAgeTiers = []AgeTier{
	{MinAge: 0, MaxAge: 3, DiscountPercent: 100},
	{MinAge: 3, MaxAge: 7, DiscountPercent: 50},
	{MinAge: 7, MaxAge: 14, DiscountPercent: 30},
}

// ValidateTiers проверяет, что категории не пересекаются и скидки в диапазоне 0..100
func ValidateTiers(tiers []AgeTier) error {
	sorted := make([]AgeTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinAge < sorted[j].MinAge })

	for i, t := range sorted {
		if t.MinAge < 0 || t.MaxAge <= t.MinAge {
			return fmt.Errorf("%w: bad range [%d, %d)", ErrInvalidTiers, t.MinAge, t.MaxAge)
		}
		if t.DiscountPercent < 0 || t.DiscountPercent > 100 {
			return fmt.Errorf("%w: discount %d%% out of range", ErrInvalidTiers, t.DiscountPercent)
		}
		if i > 0 && sorted[i-1].MaxAge > t.MinAge {
			return fmt.Errorf("%w: [%d, %d) overlaps [%d, %d)", ErrInvalidTiers,
				sorted[i-1].MinAge, sorted[i-1].MaxAge, t.MinAge, t.MaxAge)
		}
	}
	return nil
}

// AgeOn полных лет на дату at
func AgeOn(birthDate, at time.Time) int {
	age := at.Year() - birthDate.Year()
	if at.Month() < birthDate.Month() || (at.Month() == birthDate.Month() && at.Day() < birthDate.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// DiscountForAge скидка в процентах для возраста. Неизвестный возраст - без скидки
func DiscountForAge(tiers []AgeTier, age *int) int {
	if age == nil {
		return 0
	}
	for _, t := range tiers {
		if *age >= t.MinAge && *age < t.MaxAge {
			return t.DiscountPercent
		}
	}
	return 0
}

// PassengerPrice цена для пассажира с учётом скидки, округлённая до копеек
func PassengerPrice(base decimal.Decimal, discountPercent int) decimal.Decimal {
	factor := hundred.Sub(decimal.NewFromInt(int64(discountPercent)))
	return base.Mul(factor).Div(hundred).Round(2)
}

// ApplyPromo применяет промокод к сумме
// Процентный: subtotal * value / 100, фиксированный: value.
// Скидка не превышает subtotal, итог не бывает отрицательным
func ApplyPromo(subtotal decimal.Decimal, promo *domain.PromoCode) (discount, total decimal.Decimal) {
	if promo == nil || subtotal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Max(subtotal, decimal.Zero)
	}

	switch promo.DiscountType {
	case domain.DiscountPercent:
		discount = subtotal.Mul(promo.DiscountValue).Div(hundred).Round(2)
	case domain.DiscountFixed:
		discount = promo.DiscountValue.Round(2)
	default:
		discount = decimal.Zero
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.LessThan(decimal.Zero) {
		discount = decimal.Zero
	}

	return discount, subtotal.Sub(discount)
}

// CheckPromo проверяет, что промокод можно применить в момент now
func CheckPromo(promo *domain.PromoCode, now time.Time) error {
	switch {
	case !promo.IsActive:
		return ErrPromoInactive
	case !promo.IsStarted(now):
		return ErrPromoNotStarted
	case promo.IsExpired(now):
		return ErrPromoExpired
	case promo.IsExhausted():
		return ErrPromoExhausted
	}
	return nil
}

// CaptainSalary начисление капитану за слот: ставка + процент от чистой выручки.
// Отрицательная выручка процентом не учитывается
func CaptainSalary(baseRate decimal.Decimal, revenuePercent int, revenue decimal.Decimal) decimal.Decimal {
	share := decimal.Zero
	if revenue.IsPositive() && revenuePercent > 0 {
		share = revenue.Mul(decimal.NewFromInt(int64(revenuePercent))).Div(hundred)
	}
	return baseRate.Add(share).Round(2)
}
