package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrUnknown        = errors.New("unknown error")

	// ErrInsufficientCredits баланс юзера меньше стоимости покупки. Состояние при этом не меняется.
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrInvalidOrderState попытка закрыть заказ не в статусе Pending Approval.
	// Повторное approve/decline - ошибка, а не no-op.
	ErrInvalidOrderState = errors.New("order is not pending approval")
	ErrUserBanned        = errors.New("user is banned")
	ErrPasswordMissMatch = errors.New("password mismatch")
)

// ValidationError ошибка валидации входных данных. Всегда восстановимая: вызывающая сторона
// может повторить запрос с исправленными данными, состояние не мутируется.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}
