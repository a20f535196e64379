package errors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldError описывает ошибку одного поля запроса
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Rule    string      `json:"rule,omitempty"`
	Value   interface{} `json:"value,omitempty"`
}

// FieldErrors - набор ошибок полей. Оборачивает ErrValidation.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	switch len(fe) {
	case 0:
		return ErrValidation.Error()
	case 1:
		return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), fe[0].Field, fe[0].Message)
	default:
		return fmt.Sprintf("%s: %d field errors", ErrValidation.Error(), len(fe))
	}
}

// Unwrap позволяет использовать errors.Is(err, ErrValidation)
func (fe FieldErrors) Unwrap() error {
	return ErrValidation
}

// NewFieldError создаёт набор из одной ошибки поля
func NewFieldError(field, message string) FieldErrors {
	return FieldErrors{{Field: field, Message: message}}
}

// FromValidator переводит ошибки validator/v10 в FieldErrors.
// Если err не является validator.ValidationErrors, возвращает nil и false.
func FromValidator(err error) (FieldErrors, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	out := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
			Rule:    fe.Tag(),
			Value:   fe.Value(),
		})
	}
	return out, true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "direction":
		return "must be one of up, down, left, right, ne, nw, se, sw"
	case "answer_option":
		return "must be 2 or 3 distinct codes from S, T, C separated by commas"
	case "grid_coord":
		return "must be 0, 1 or 2"
	default:
		return fmt.Sprintf("failed on '%s' rule", fe.Tag())
	}
}
