package capacity

import "errors"

var (
	// ErrNotEnoughSeats в слоте не хватает свободных мест
	ErrNotEnoughSeats = errors.New("capacity: not enough seats")

	// ErrWeightExceeded суммарный вес пассажиров превысит лимит слота
	ErrWeightExceeded = errors.New("capacity: weight limit exceeded")
)
