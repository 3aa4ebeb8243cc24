package payments

import "errors"

var (
	// ErrBookingNotFound бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBookingNotPayable бронирование отменено или не состоялось
	ErrBookingNotPayable = errors.New("booking cannot accept payments")

	// ErrOverpayment сумма платежей превысит стоимость бронирования
	ErrOverpayment = errors.New("payment exceeds outstanding amount")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("payments: internal error")
)
