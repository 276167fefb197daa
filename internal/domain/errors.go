package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a malformed input to a public operation.
// Operations that return it have made no state change.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid is shorthand for constructing a *ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
