package api

import (
	"errors"
	"net/http"

	"github.com/lsandoval/mnemo/internal/domain"
	"github.com/lsandoval/mnemo/internal/domain/srs"
	"github.com/lsandoval/mnemo/internal/service"
	"github.com/lsandoval/mnemo/internal/session"
	"github.com/lsandoval/mnemo/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authorization errors
	case errors.Is(err, service.ErrDeckNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Session state conflicts: valid request, wrong moment
	case errors.Is(err, session.ErrRatingNotAllowed),
		errors.Is(err, session.ErrAdvanceNotAllowed),
		errors.Is(err, session.ErrSessionFinished):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, srs.ErrInvalidRating),
		errors.Is(err, srs.ErrInvalidDays),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrDeckNotOwned):
		return "You do not own this deck"

	case errors.Is(err, service.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, store.ErrCardStateNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, session.ErrRatingNotAllowed):
		return "Rating is not allowed in the current phase"

	case errors.Is(err, session.ErrAdvanceNotAllowed):
		return "The current phase requires a rating"

	case errors.Is(err, session.ErrSessionFinished):
		return "Session is already finished"

	case errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, srs.ErrInvalidRating):
		return "Invalid rating"

	case errors.Is(err, srs.ErrInvalidDays):
		return "Postpone days must be at least 1"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}
