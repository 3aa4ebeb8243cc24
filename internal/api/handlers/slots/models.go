package slots

import (
	"time"

	createSlot "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/create_slot"
)

// CreateSlotRequest HTTP request model
type CreateSlotRequest struct {
	ExcursionID int64      `json:"excursionId"`
	StartAt     time.Time  `json:"startAt"` // RFC 3339
	EndAt       *time.Time `json:"endAt,omitempty"`
	MaxPeople   int        `json:"maxPeople"`
	MaxWeightKg int        `json:"maxWeightKg"`
	CaptainID   *int64     `json:"captainId,omitempty"`
}

// ChangeStatusRequest HTTP request model
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// AssignCaptainRequest HTTP request model; null снимает капитана
type AssignCaptainRequest struct {
	CaptainID *int64 `json:"captainId"`
}

// SlotResponse HTTP response model созданного слота
type SlotResponse struct {
	ID            int64     `json:"id"`
	ExcursionID   int64     `json:"excursionId"`
	ExcursionName string    `json:"excursionName"`
	CaptainID     *int64    `json:"captainId,omitempty"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	MaxPeople     int       `json:"maxPeople"`
	MaxWeightKg   int       `json:"maxWeightKg"`
	Status        string    `json:"status"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateSlotRequest) ToUseCaseRequest() *createSlot.Request {
	return &createSlot.Request{
		ExcursionID: r.ExcursionID,
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		MaxPeople:   r.MaxPeople,
		MaxWeightKg: r.MaxWeightKg,
		CaptainID:   r.CaptainID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createSlot.Response) *SlotResponse {
	return &SlotResponse{
		ID:            resp.SlotID,
		ExcursionID:   resp.ExcursionID,
		ExcursionName: resp.ExcursionName,
		CaptainID:     resp.CaptainID,
		StartAt:       resp.StartAt,
		EndAt:         resp.EndAt,
		MaxPeople:     resp.MaxPeople,
		MaxWeightKg:   resp.MaxWeightKg,
		Status:        resp.Status,
	}
}
