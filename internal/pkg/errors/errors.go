package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный или отсутствующий тикет сессии).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда тикет не принадлежит запрошенной сессии.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken используется, когда тикет сессии истек.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict используется для конфликтов состояния (повторный ответ, тест ещё не завершён).
	ErrConflict = errors.New("resource state conflict")

	// ErrInvariant - нарушение внутреннего инварианта. Это дефект, а не ошибка ввода:
	// обработчики не должны подставлять значение по умолчанию.
	ErrInvariant = errors.New("invariant violation")
)
