package users

import "errors"

var (
	// ErrUserNotFound пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrNotRegistered чат не зарегистрирован
	ErrNotRegistered = errors.New("chat is not registered")

	// ErrAlreadyRegistered чат уже привязан к пользователю
	ErrAlreadyRegistered = errors.New("chat already registered")

	// ErrTokenNotFound токен привязки не найден или уже использован
	ErrTokenNotFound = errors.New("link token not found")

	// ErrAccessDenied недостаточно прав
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("users: internal error")
)
