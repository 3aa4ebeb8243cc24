package promocodes

import "errors"

var (
	// ErrPromoNotFound промокод не найден
	ErrPromoNotFound = errors.New("promo code not found")

	// ErrPromoExists промокод с таким кодом уже существует
	ErrPromoExists = errors.New("promo code already exists")

	// ErrPromoInvalid промокод отключен или еще не действует
	ErrPromoInvalid = errors.New("promo code is not valid")

	// ErrPromoExpired срок действия промокода истек
	ErrPromoExpired = errors.New("promo code has expired")

	// ErrPromoExhausted лимит использований исчерпан
	ErrPromoExhausted = errors.New("promo code usage limit reached")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("promocodes: internal error")
)
