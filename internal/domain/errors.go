package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is matched by every FormatError.
	ErrFormat = errors.New("invalid format")
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")
)

// FormatError reports a string that cannot be parsed into a postcode or zone.
type FormatError struct {
	Value  string
	Reason string
}

func NewFormatError(value, reason string) *FormatError {
	return &FormatError{Value: value, Reason: reason}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q: %s", ErrFormat, e.Value, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// ValidationError reports an argument that breaks a domain invariant,
// e.g. a wildcarded postcode where a literal one is required.
type ValidationError struct {
	ParamName string
	Reason    string
}

func NewValidationError(paramName, reason string) *ValidationError {
	return &ValidationError{ParamName: paramName, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.ParamName, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
