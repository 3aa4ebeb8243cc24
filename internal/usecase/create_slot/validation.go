package create_slot

import (
	"fmt"
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ExcursionID <= 0 {
		return fmt.Errorf("%w: excursionID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}

	if req.EndAt != nil && !req.EndAt.After(req.StartAt) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}

	if req.MaxPeople <= 0 || req.MaxPeople > domain.MaxSlotPeople {
		return fmt.Errorf("%w: max people must be in 1..%d", ErrInvalidInput, domain.MaxSlotPeople)
	}

	if req.MaxWeightKg < 0 || req.MaxWeightKg > domain.MaxSlotWeightKg {
		return fmt.Errorf("%w: max weight must be in 0..%d", ErrInvalidInput, domain.MaxSlotWeightKg)
	}

	if req.CaptainID != nil && *req.CaptainID <= 0 {
		return fmt.Errorf("%w: captainID must be positive", ErrInvalidInput)
	}

	return nil
}

// slotEnd конец слота: явный или по длительности экскурсии
func slotEnd(req *Request, excursion *domain.Excursion) time.Time {
	if req.EndAt != nil {
		return *req.EndAt
	}
	minutes := excursion.DurationMinutes
	if minutes <= 0 {
		minutes = domain.DefaultExcursionDurationMinutes
	}
	return req.StartAt.Add(time.Duration(minutes) * time.Minute)
}
