package models

import (
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// ListSlotsRequest фильтр списка слотов
type ListSlotsRequest struct {
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	ExcursionID *int64     `json:"excursionId,omitempty"`
}

// SlotResponse данные слота
type SlotResponse struct {
	ID            int64     `json:"id"`
	ExcursionID   int64     `json:"excursionId"`
	ExcursionName string    `json:"excursionName,omitempty"`
	CaptainID     *int64    `json:"captainId,omitempty"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	MaxPeople     int       `json:"maxPeople"`
	MaxWeightKg   int       `json:"maxWeightKg"`
	Status        string    `json:"status"`
}

// ChangeStatusResponse итог смены статуса слота
type ChangeStatusResponse struct {
	SlotID            int64   `json:"slotId"`
	Status            string  `json:"status"`
	CancelledBookings int     `json:"cancelledBookings,omitempty"`
	CompletedBookings int64   `json:"completedBookings,omitempty"`
	Refunded          string  `json:"refunded,omitempty"`
	SalaryAccrued     *string `json:"salaryAccrued,omitempty"`
}

// FromDomainSlot конвертирует domain.Slot в SlotResponse
func FromDomainSlot(s *domain.Slot, excursionName string) *SlotResponse {
	return &SlotResponse{
		ID:            s.ID,
		ExcursionID:   s.ExcursionID,
		ExcursionName: excursionName,
		CaptainID:     s.CaptainID,
		StartAt:       s.StartAt,
		EndAt:         s.EndAt,
		MaxPeople:     s.MaxPeople,
		MaxWeightKg:   s.MaxWeightKg,
		Status:        string(s.Status),
	}
}
