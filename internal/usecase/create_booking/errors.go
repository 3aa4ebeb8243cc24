package create_booking

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("create_booking: slot not found")

	// ErrSlotNotBookable слот отменен, идет или завершен
	ErrSlotNotBookable = errors.New("create_booking: slot is not open for booking")

	// ErrTooLateToBook до начала слота меньше минимального времени бронирования
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrExcursionInactive экскурсия снята с продажи
	ErrExcursionInactive = errors.New("create_booking: excursion is not active")

	// ErrHolderNotFound держатель брони не зарегистрирован
	ErrHolderNotFound = errors.New("create_booking: holder not found")

	// ErrPassengerNotFound пассажир не найден
	ErrPassengerNotFound = errors.New("create_booking: passenger not found")

	// ErrPassengerNotAllowed пассажир не держатель и не зарегистрирован держателем
	ErrPassengerNotAllowed = errors.New("create_booking: passenger is not a dependent of the holder")

	// ErrAlreadyBooked у держателя или пассажира уже есть бронь на этот слот
	ErrAlreadyBooked = errors.New("create_booking: already booked for this slot")

	// ErrNotEnoughSeats свободных мест меньше, чем пассажиров
	ErrNotEnoughSeats = errors.New("create_booking: not enough seats")

	// ErrWeightExceeded превышен допустимый суммарный вес
	ErrWeightExceeded = errors.New("create_booking: weight limit exceeded")

	// ErrPromoInvalid промокод не найден, отключен или еще не действует
	ErrPromoInvalid = errors.New("create_booking: promo code is not valid")

	// ErrPromoExpired срок действия промокода истек
	ErrPromoExpired = errors.New("create_booking: promo code has expired")

	// ErrPromoExhausted лимит использований промокода исчерпан
	ErrPromoExhausted = errors.New("create_booking: promo code usage limit reached")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
