package finance

import "errors"

var (
	// ErrSalaryNotFound возвращается, когда начисление не найдено
	ErrSalaryNotFound = errors.New("finance.repository: salary not found")

	// ErrSalaryExists начисление за слот уже есть
	ErrSalaryExists = errors.New("finance.repository: salary for slot already exists")

	// ErrSalaryAlreadyPaid начисление уже выплачено
	ErrSalaryAlreadyPaid = errors.New("finance.repository: salary already paid")

	ErrBuildQuery = errors.New("finance.repository: failed to build query")
	ErrExecQuery  = errors.New("finance.repository: failed to execute query")
	ErrScanRow    = errors.New("finance.repository: failed to scan row")
)
