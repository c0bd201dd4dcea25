package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidRating is returned when a rating value is not one of the
	// closed set of recognized ratings.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrInvalidStudyMode is returned when a deck's study mode is not valid.
	ErrInvalidStudyMode = errors.New("invalid study mode")

	// ErrInvalidCardStatus is returned when a card status is not valid.
	ErrInvalidCardStatus = errors.New("invalid card status")
)
