package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType тип скидки промокода
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// PromoCode промокод со сроком действия и лимитом использований
type PromoCode struct {
	ID            int64
	Code          string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	ValidFrom     time.Time
	ValidUntil    *time.Time // nil = бессрочный
	UsageLimit    *int       // nil = без ограничения
	UsedCount     int
	IsActive      bool
	CreatedAt     time.Time
}

// IsStarted срок действия промокода наступил
func (p *PromoCode) IsStarted(now time.Time) bool {
	return !now.Before(p.ValidFrom)
}

// IsExpired срок действия промокода истёк
func (p *PromoCode) IsExpired(now time.Time) bool {
	return p.ValidUntil != nil && now.After(*p.ValidUntil)
}

// IsExhausted лимит использований исчерпан
func (p *PromoCode) IsExhausted() bool {
	return p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit
}

// RemainingUses сколько раз ещё можно применить промокод (nil - без ограничения)
func (p *PromoCode) RemainingUses() *int {
	if p.UsageLimit == nil {
		return nil
	}
	left := *p.UsageLimit - p.UsedCount
	if left < 0 {
		left = 0
	}
	return &left
}

// NormalizePromoCode приводит код к каноничному виду (без пробелов, верхний регистр)
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidDiscountType проверяет строку типа скидки
func ValidDiscountType(t DiscountType) bool {
	return t == DiscountPercent || t == DiscountFixed
}
