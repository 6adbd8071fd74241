package services

import (
	"errors"
	"strings"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrStepOutOfOrder   = errors.New("login step out of order")
	ErrAccountNotFound  = errors.New("account not found")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// FieldError describes one rejected input.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists the inputs rejected before any network call.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}
