package service

import (
	"errors"
	"fmt"
)

// Common error types for the study service.
var (
	// ErrSessionNotFound indicates that no active session exists for the
	// given handle ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDeckNotOwned indicates that the user does not own the deck.
	// Card lookups are keyed by user, so a card owned by someone else
	// surfaces as store.ErrCardStateNotFound instead.
	ErrDeckNotOwned = errors.New("unauthorized access: deck not owned by user")
)

// ServiceError wraps errors from the study service with additional context.
// This allows consumers to differentiate between different types of service
// errors using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start_session").
	Operation string
	// Message is a human-readable description of the error.
	Message string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a new ServiceError for the given operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
