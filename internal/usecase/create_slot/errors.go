package create_slot

import "errors"

var (
	// ErrExcursionNotFound возвращается, когда экскурсия не найдена
	ErrExcursionNotFound = errors.New("create_slot: excursion not found")

	// ErrExcursionInactive экскурсия снята с продажи
	ErrExcursionInactive = errors.New("create_slot: excursion is not active")

	// ErrCaptainNotFound пользователь не найден или не является капитаном
	ErrCaptainNotFound = errors.New("create_slot: captain not found")

	// ErrStartInPast слот можно создать только в будущем
	ErrStartInPast = errors.New("create_slot: slot start is in the past")

	// ErrSlotConflict слот пересекается с другим слотом экскурсии или капитана
	ErrSlotConflict = errors.New("create_slot: slot overlaps another slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_slot: internal error")
)
