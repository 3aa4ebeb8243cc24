package excursions

import "errors"

var (
	// ErrExcursionNotFound экскурсия не найдена
	ErrExcursionNotFound = errors.New("excursion not found")

	// ErrDuplicateName экскурсия с таким названием уже есть
	ErrDuplicateName = errors.New("excursion name already exists")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("excursions: internal error")
)
