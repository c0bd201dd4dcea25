package session

import (
	"errors"
	"fmt"
)

// Common session errors.
var (
	// ErrNoPhases indicates the study mode resolved to zero phases. This is
	// a fatal configuration error: the session cannot start.
	ErrNoPhases = errors.New("study mode resolves to zero phases")

	// ErrSessionFinished is returned when rate or advance is called on a
	// terminal session. Finished sessions are immutable.
	ErrSessionFinished = errors.New("session already finished")

	// ErrRatingNotAllowed is returned when rate is called during a phase
	// that disallows rating. The session state is left unchanged.
	ErrRatingNotAllowed = errors.New("rating not allowed in current phase")

	// ErrAdvanceNotAllowed is returned when advance is called during a
	// phase that expects a rating.
	ErrAdvanceNotAllowed = errors.New("current phase requires a rating to advance")

	// ErrNilScheduler indicates the controller was built without a
	// scheduling service.
	ErrNilScheduler = errors.New("scheduler cannot be nil")

	// ErrNilSink indicates the controller was built without a terminal sink.
	ErrNilSink = errors.New("sink cannot be nil")
)

// FlushError reports that the terminal batch flush failed. The session is
// still terminal and its local state is intact; callers should treat this
// as a warning-level, recoverable condition and decide on redelivery
// themselves.
type FlushError struct {
	Err error
}

// Error implements the error interface for FlushError.
func (e *FlushError) Error() string {
	return fmt.Sprintf("batch flush failed: %v", e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *FlushError) Unwrap() error {
	return e.Err
}

// CompletionError reports that the completion handling after the terminal
// transition failed (the streak and activity writes). Like FlushError, the
// session is still terminal and its local state is intact; callers should
// treat this as a warning-level, recoverable condition.
type CompletionError struct {
	Err error
}

// Error implements the error interface for CompletionError.
func (e *CompletionError) Error() string {
	return fmt.Sprintf("session completion handling failed: %v", e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CompletionError) Unwrap() error {
	return e.Err
}
