package srs

import (
	"errors"
	"time"

	"github.com/lsandoval/mnemo/internal/domain"
)

// Common errors
var (
	ErrNilState      = errors.New("card srs state cannot be nil")
	ErrInvalidRating = errors.New("invalid rating")
	ErrInvalidDays   = errors.New("postpone days must be at least 1")
)

// Service defines the interface for scheduling operations.
type Service interface {
	// Schedule computes new scheduling state based on a rating.
	// The input state is not modified. Returns ErrInvalidRating for a
	// rating outside the closed set; unknown ratings are never silently
	// defaulted.
	Schedule(
		state *domain.CardSrsState,
		rating domain.Rating,
		now time.Time,
	) (*domain.CardSrsState, error)

	// Postpone pushes the card's due date forward by a specified number of
	// days without touching the ease factor or repetition count.
	Postpone(
		state *domain.CardSrsState,
		days int,
		now time.Time,
	) (*domain.CardSrsState, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Schedule implements the Service interface.
func (s *defaultService) Schedule(
	state *domain.CardSrsState,
	rating domain.Rating,
	now time.Time,
) (*domain.CardSrsState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if !rating.IsValid() {
		return nil, ErrInvalidRating
	}

	return calculateNextState(state, rating, now, s.params), nil
}

// Postpone implements the Service interface.
func (s *defaultService) Postpone(
	state *domain.CardSrsState,
	days int,
	now time.Time,
) (*domain.CardSrsState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	newState := state.Clone()
	newState.DueDate = state.DueDate.AddDate(0, 0, days)
	newState.UpdatedAt = now

	return newState, nil
}
