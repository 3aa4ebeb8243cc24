package get_available_slots

import (
	"fmt"
	"time"
)

// maxSearchWindowDays максимальная длина периода поиска
const maxSearchWindowDays = 31

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Days < 0 {
		return fmt.Errorf("%w: days must not be negative", ErrInvalidInput)
	}

	if req.Days > maxSearchWindowDays {
		return fmt.Errorf("%w: at most %d days", ErrWindowTooLong, maxSearchWindowDays)
	}

	if req.ExcursionID != nil && *req.ExcursionID <= 0 {
		return fmt.Errorf("%w: excursionID must be positive", ErrInvalidInput)
	}

	return nil
}

// searchWindow вычисляет период поиска [from, to)
// Начало сдвигается на now + notice: более ранние слоты забронировать уже нельзя
func searchWindow(req *Request, now time.Time, rules Rules) (time.Time, time.Time, error) {
	days := req.Days
	if days == 0 {
		days = rules.SearchWindowDays
	}

	start := req.From
	if start.IsZero() {
		start = now
	}
	to := start.AddDate(0, 0, days)

	earliest := now.Add(rules.MinBookingNotice)
	if !to.After(earliest) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: period ends before %s", ErrInvalidDate, earliest.Format(time.RFC3339))
	}

	from := start
	if from.Before(earliest) {
		from = earliest
	}
	return from, to, nil
}
