package slots

import "errors"

var (
	// ErrSlotNotFound слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrCaptainNotFound пользователь не найден или не капитан
	ErrCaptainNotFound = errors.New("captain not found")

	// ErrSlotConflict капитан уже занят в пересекающемся слоте
	ErrSlotConflict = errors.New("slot conflicts with another slot")

	// ErrInvalidTransition недопустимый переход статуса слота
	ErrInvalidTransition = errors.New("invalid slot status transition")

	// ErrSlotFinished слот завершен или отменен
	ErrSlotFinished = errors.New("slot is already finished")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("slots: internal error")
)
