package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrTransaction     = errors.New("transaction failed")
	ErrInvalidResponse = errors.New("invalid response")
)

// StatusError is returned for non-2xx responses. Message carries the
// server's explanation when the body had one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return ErrUnauthorized
	case e.StatusCode >= 500:
		return ErrUnavailable
	default:
		return nil
	}
}

// TransactionError is returned when a response envelope reports
// isTransactionDone=false, regardless of the HTTP status.
type TransactionError struct {
	Message string
}

func (e *TransactionError) Error() string {
	if e.Message == "" {
		return ErrTransaction.Error()
	}
	return e.Message
}

func (e *TransactionError) Unwrap() error { return ErrTransaction }
