package simulation

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is the sentinel wrapped by every validation failure
var ErrInvalidParameter = errors.New("invalid simulation parameter")

// ValidationError describes the first parameter that failed validation
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s (got %v)", ErrInvalidParameter, e.Field, e.Reason, e.Value)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidParameter)
func (e *ValidationError) Unwrap() error {
	return ErrInvalidParameter
}

func invalid(field string, value interface{}, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}
