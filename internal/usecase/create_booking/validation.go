package create_booking

import (
	"errors"
	"fmt"

	"github.com/Groisin18/Excursions-bot-sub000/internal/capacity"
	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	promoRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/promocode"
	"github.com/Groisin18/Excursions-bot-sub000/internal/pricing"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxPassengers int) error {
	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	if req.HolderID <= 0 {
		return fmt.Errorf("%w: holderID must be positive", ErrInvalidInput)
	}

	for _, id := range req.PassengerIDs {
		if id <= 0 {
			return fmt.Errorf("%w: passenger id must be positive", ErrInvalidInput)
		}
	}

	if maxPassengers > 0 && len(passengerIDs(req)) > maxPassengers {
		return fmt.Errorf("%w: at most %d passengers per booking", ErrInvalidInput, maxPassengers)
	}

	return nil
}

// passengerIDs список пассажиров без повторов; по умолчанию едет сам держатель
func passengerIDs(req *Request) []int64 {
	if len(req.PassengerIDs) == 0 {
		return []int64{req.HolderID}
	}

	seen := make(map[int64]struct{}, len(req.PassengerIDs))
	ids := make([]int64, 0, len(req.PassengerIDs))
	for _, id := range req.PassengerIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// resolvedPassenger пассажир с весом для проверки вместимости
type resolvedPassenger struct {
	user     *domain.User
	weightKg int
}

// resolvePassengers проверяет, что каждый пассажир - держатель или его спутник
// Вес берется из анкеты, иначе используется значение по умолчанию
func resolvePassengers(holderID int64, ids []int64, users []*domain.User, defaultWeight int) ([]resolvedPassenger, error) {
	byID := make(map[int64]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	result := make([]resolvedPassenger, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: user id=%d", ErrPassengerNotFound, id)
		}
		if u.ID != holderID && !u.IsDependentOf(holderID) {
			return nil, fmt.Errorf("%w: user id=%d", ErrPassengerNotAllowed, id)
		}

		weight := defaultWeight
		if u.WeightKg != nil && *u.WeightKg > 0 {
			weight = *u.WeightKg
		}
		result = append(result, resolvedPassenger{user: u, weightKg: weight})
	}
	return result, nil
}

// checkAlreadyBooked у держателя не может быть двух действующих броней на слот,
// и один пассажир не может ехать в двух бронях одного слота
func checkAlreadyBooked(bookings []*domain.Booking, holderID int64, passengers []resolvedPassenger) error {
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if b.ClientID == holderID {
			return fmt.Errorf("%w: holder id=%d has booking id=%d", ErrAlreadyBooked, holderID, b.ID)
		}
		for _, p := range passengers {
			if b.HasPassenger(p.user.ID) {
				return fmt.Errorf("%w: passenger id=%d is in booking id=%d", ErrAlreadyBooked, p.user.ID, b.ID)
			}
		}
	}
	return nil
}

// mapCapacityError переводит ошибки проверки вместимости в ошибки usecase
func mapCapacityError(err error) error {
	switch {
	case errors.Is(err, capacity.ErrNotEnoughSeats):
		return fmt.Errorf("%w: %w", ErrNotEnoughSeats, err)
	case errors.Is(err, capacity.ErrWeightExceeded):
		return fmt.Errorf("%w: %w", ErrWeightExceeded, err)
	}
	return fmt.Errorf("%w: capacity check: %w", ErrInternal, err)
}

// mapPromoError переводит ошибки проверки промокода в ошибки usecase
func mapPromoError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrPromoExpired):
		return ErrPromoExpired
	case errors.Is(err, pricing.ErrPromoExhausted), errors.Is(err, promoRepo.ErrUsageLimitReached):
		return ErrPromoExhausted
	case errors.Is(err, pricing.ErrPromoInactive),
		errors.Is(err, pricing.ErrPromoNotStarted),
		errors.Is(err, promoRepo.ErrPromoNotFound):
		return ErrPromoInvalid
	}
	return fmt.Errorf("%w: promo code: %w", ErrInternal, err)
}
