package get_available_slots

import "errors"

var (
	// ErrInvalidDate возвращается, когда период поиска целиком в прошлом
	ErrInvalidDate = errors.New("get_available_slots: invalid search date")

	// ErrWindowTooLong возвращается, когда период поиска длиннее допустимого
	ErrWindowTooLong = errors.New("get_available_slots: search window is too long")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
