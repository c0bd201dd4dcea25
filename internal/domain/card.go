package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CardStatus describes where a card sits in its review lifecycle.
type CardStatus string

// Possible card status values.
const (
	// CardStatusNew marks a card that has never been studied.
	CardStatusNew CardStatus = "new"

	// CardStatusWaiting marks a card that has been studied and is waiting
	// for its due date to come around.
	CardStatusWaiting CardStatus = "waiting"

	// CardStatusDue marks a card whose due date has passed. Persisted rows
	// never carry this value: review queue selection derives dueness from
	// the due date at query time, so it exists for presentation of derived
	// state only.
	CardStatusDue CardStatus = "due"

	// CardStatusMastered marks a card whose review interval has crossed the
	// mastery threshold.
	CardStatusMastered CardStatus = "mastered"

	// CardStatusSuspended marks a card excluded from queue selection.
	CardStatusSuspended CardStatus = "suspended"
)

// IsValid reports whether the status is one of the recognized values.
func (s CardStatus) IsValid() bool {
	switch s {
	case CardStatusNew, CardStatusWaiting, CardStatusDue, CardStatusMastered, CardStatusSuspended:
		return true
	default:
		return false
	}
}

// Validation errors for CardSrsState.
var (
	ErrEmptyStateUserID = errors.New("card srs state user ID cannot be empty")
	ErrEmptyStateCardID = errors.New("card srs state card ID cannot be empty")
	ErrEmptyStateDeckID = errors.New("card srs state deck ID cannot be empty")
	ErrInvalidInterval  = errors.New("review interval must be greater than or equal to 0")
	ErrInvalidEase      = errors.New("ease factor must be greater than 1.0")
	ErrInvalidReps      = errors.New("repetitions must be greater than or equal to 0")
)

// CardSrsState tracks the spaced repetition scheduling state for a single
// card. It is mutated only by applying scheduler output through the progress
// batcher; all scheduling math returns a new instance rather than modifying
// one in place.
type CardSrsState struct {
	CardID         uuid.UUID  `json:"card_id"`
	UserID         uuid.UUID  `json:"user_id"`
	DeckID         uuid.UUID  `json:"deck_id"`
	EaseFactor     float64    `json:"ease_factor"`     // Clamped to [1.3, 2.5]
	ReviewInterval int        `json:"review_interval"` // Current interval in days
	Repetitions    int        `json:"repetitions"`     // Consecutive non-lapsed reviews
	DueDate        time.Time  `json:"due_date"`        // When the card re-enters the review queue
	LastStudied    time.Time  `json:"last_studied"`    // When the card was last rated
	Status         CardStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewCardSrsState creates scheduling state for a card with default values.
// New cards are available for study immediately.
func NewCardSrsState(userID, deckID, cardID uuid.UUID) (*CardSrsState, error) {
	now := time.Now().UTC()
	state := &CardSrsState{
		CardID:         cardID,
		UserID:         userID,
		DeckID:         deckID,
		EaseFactor:     2.5, // Default ease factor
		ReviewInterval: 0,
		Repetitions:    0,
		DueDate:        now,         // Available immediately
		LastStudied:    time.Time{}, // Zero time
		Status:         CardStatusNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the CardSrsState has valid data.
// Returns an error if any field fails validation.
func (s *CardSrsState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyStateUserID
	}

	if s.CardID == uuid.Nil {
		return ErrEmptyStateCardID
	}

	if s.DeckID == uuid.Nil {
		return ErrEmptyStateDeckID
	}

	if s.ReviewInterval < 0 {
		return ErrInvalidInterval
	}

	if s.Repetitions < 0 {
		return ErrInvalidReps
	}

	if s.EaseFactor <= 1.0 {
		return ErrInvalidEase
	}

	if !s.Status.IsValid() {
		return ErrInvalidCardStatus
	}

	return nil
}

// Clone returns a copy of the state. Scheduling code works on copies so the
// caller's instance is never mutated.
func (s *CardSrsState) Clone() *CardSrsState {
	clone := *s
	return &clone
}
