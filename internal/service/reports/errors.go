package reports

import "errors"

var (
	// ErrSalaryNotFound начисление не найдено
	ErrSalaryNotFound = errors.New("salary not found")

	// ErrSalaryAlreadyPaid начисление уже выплачено
	ErrSalaryAlreadyPaid = errors.New("salary already paid")

	// ErrInvalidPeriod конец периода должен быть позже начала
	ErrInvalidPeriod = errors.New("invalid report period")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("reports: internal error")
)
