package entities

import (
	"errors"
	"fmt"
)

// Классы ошибок. Конкретные ошибки сервисов оборачивают один из них,
// по классу обработчики выбирают HTTP статус.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
)

// ErrorClass возвращает имя класса ошибки для ответа клиенту.
func ErrorClass(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	default:
		return "internal"
	}
}

// Ошибки хранилища, общие для нескольких сервисов.
var (
	ErrDispatchNotFound = fmt.Errorf("dispatch not found: %w", ErrNotFound)
	ErrParcelNotFound   = fmt.Errorf("parcel not found: %w", ErrNotFound)
	ErrDebtNotFound     = fmt.Errorf("debt not found: %w", ErrNotFound)
	ErrPaymentNotFound  = fmt.Errorf("payment not found: %w", ErrNotFound)
)
