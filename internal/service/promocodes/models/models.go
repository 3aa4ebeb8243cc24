package models

import (
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// CreatePromoCodeRequest создание промокода
type CreatePromoCodeRequest struct {
	Code          string     `json:"code"`
	DiscountType  string     `json:"discountType"`  // percent, fixed
	DiscountValue string     `json:"discountValue"` // "15" или "500.00"
	ValidFrom     *time.Time `json:"validFrom,omitempty"`
	ValidUntil    *time.Time `json:"validUntil,omitempty"`
	UsageLimit    *int       `json:"usageLimit,omitempty"`
}

// PromoCodeResponse данные промокода
type PromoCodeResponse struct {
	ID            int64      `json:"id"`
	Code          string     `json:"code"`
	DiscountType  string     `json:"discountType"`
	DiscountValue string     `json:"discountValue"`
	ValidFrom     time.Time  `json:"validFrom"`
	ValidUntil    *time.Time `json:"validUntil,omitempty"`
	UsageLimit    *int       `json:"usageLimit,omitempty"`
	UsedCount     int        `json:"usedCount"`
	RemainingUses *int       `json:"remainingUses,omitempty"`
	IsActive      bool       `json:"isActive"`
}

// FromDomainPromoCode конвертирует domain.PromoCode в PromoCodeResponse
func FromDomainPromoCode(p *domain.PromoCode) *PromoCodeResponse {
	return &PromoCodeResponse{
		ID:            p.ID,
		Code:          p.Code,
		DiscountType:  string(p.DiscountType),
		DiscountValue: p.DiscountValue.StringFixed(2),
		ValidFrom:     p.ValidFrom,
		ValidUntil:    p.ValidUntil,
		UsageLimit:    p.UsageLimit,
		UsedCount:     p.UsedCount,
		RemainingUses: p.RemainingUses(),
		IsActive:      p.IsActive,
	}
}

// FromDomainPromoCodeList конвертирует список промокодов
func FromDomainPromoCodeList(list []*domain.PromoCode) []*PromoCodeResponse {
	out := make([]*PromoCodeResponse, len(list))
	for i, p := range list {
		out[i] = FromDomainPromoCode(p)
	}
	return out
}
