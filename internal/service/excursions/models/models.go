package models

import (
	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// CreateExcursionRequest создание экскурсии
type CreateExcursionRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	BasePrice       string  `json:"basePrice"` // "4000.00"
	DurationMinutes int     `json:"durationMinutes"`
}

// UpdateExcursionRequest частичное обновление экскурсии
type UpdateExcursionRequest struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	BasePrice       *string `json:"basePrice,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

// ExcursionResponse данные экскурсии
type ExcursionResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	BasePrice       string  `json:"basePrice"`
	DurationMinutes int     `json:"durationMinutes"`
	IsActive        bool    `json:"isActive"`
}

// FromDomainExcursion конвертирует domain.Excursion в ExcursionResponse
func FromDomainExcursion(e *domain.Excursion) *ExcursionResponse {
	return &ExcursionResponse{
		ID:              e.ID,
		Name:            e.Name,
		Description:     e.Description,
		BasePrice:       e.BasePrice.StringFixed(2),
		DurationMinutes: e.DurationMinutes,
		IsActive:        e.IsActive,
	}
}

// FromDomainExcursionList конвертирует список экскурсий
func FromDomainExcursionList(list []*domain.Excursion) []*ExcursionResponse {
	out := make([]*ExcursionResponse, len(list))
	for i, e := range list {
		out[i] = FromDomainExcursion(e)
	}
	return out
}
