package get_available_slots

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	getAvailableSlots "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель доступного слота
type SlotResponse struct {
	SlotID        int64  `json:"slotId"`
	ExcursionID   int64  `json:"excursionId"`
	ExcursionName string `json:"excursionName"`
	StartAt       string `json:"startAt"`
	EndAt         string `json:"endAt"`
	Price         string `json:"price"`
	MaxPeople     int    `json:"maxPeople"`
	SeatsLeft     int    `json:"seatsLeft"`
	WeightLeftKg  *int   `json:"weightLeftKg,omitempty"` // nil - без ограничения
	IsFull        bool   `json:"isFull"`
	HasCaptain    bool   `json:"hasCaptain"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	From  string         `json:"from"`
	To    string         `json:"to"`
	Slots []SlotResponse `json:"slots"`
}

// ToUseCaseRequest формирует запрос к use case из query параметров
// from (YYYY-MM-DD), days, excursionId - все опциональны
func ToUseCaseRequest(userID int64, query url.Values, loc *time.Location) (*getAvailableSlots.Request, error) {
	req := &getAvailableSlots.Request{UserID: userID}

	if raw := query.Get("from"); raw != "" {
		from, err := time.ParseInLocation(domain.DateFormat, raw, loc)
		if err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
		req.From = from
	}

	if raw := query.Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("days: %w", err)
		}
		req.Days = days
	}

	if raw := query.Get("excursionId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("excursionId: %w", err)
		}
		req.ExcursionID = &id
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	out := &AvailableSlotsResponse{
		From:  resp.From.Format(time.RFC3339),
		To:    resp.To.Format(time.RFC3339),
		Slots: make([]SlotResponse, len(resp.Slots)),
	}
	for i, s := range resp.Slots {
		slot := SlotResponse{
			SlotID:        s.SlotID,
			ExcursionID:   s.ExcursionID,
			ExcursionName: s.ExcursionName,
			StartAt:       s.StartAt.Format(time.RFC3339),
			EndAt:         s.EndAt.Format(time.RFC3339),
			Price:         s.Price.StringFixed(2),
			MaxPeople:     s.MaxPeople,
			SeatsLeft:     s.SeatsLeft,
			IsFull:        s.IsFull,
			HasCaptain:    s.HasCaptain,
		}
		if s.WeightLimited {
			left := s.WeightLeftKg
			slot.WeightLeftKg = &left
		}
		out.Slots[i] = slot
	}
	return out
}
