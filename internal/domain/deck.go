package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// StudyMode selects the per-card phase sequence used when studying new cards
// from a deck.
type StudyMode string

// Recognized study modes.
const (
	// StudyModeFlipCard is the classic reveal-then-quiz sequence.
	StudyModeFlipCard StudyMode = "A"

	// StudyModeTrace walks the learner through a stroke animation and an
	// outline trace before quizzing.
	StudyModeTrace StudyMode = "C"
)

// IsValid reports whether the mode is one of the recognized values.
func (m StudyMode) IsValid() bool {
	switch m {
	case StudyModeFlipCard, StudyModeTrace:
		return true
	default:
		return false
	}
}

// Validation errors for Deck.
var (
	ErrEmptyDeckID     = errors.New("deck ID cannot be empty")
	ErrEmptyDeckUserID = errors.New("deck user ID cannot be empty")
	ErrEmptyDeckName   = errors.New("deck name cannot be empty")
)

// DeckStreak holds the per-deck study streak counters.
// LastActivity is the calendar date of the most recent credited session.
type DeckStreak struct {
	Current      int       `json:"current"`
	Max          int       `json:"max"`
	LastActivity time.Time `json:"last_activity"`
}

// Deck represents a collection of cards studied together. Only the fields
// the study engine consumes are modeled here; deck content management is
// handled elsewhere.
type Deck struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	StudyMode StudyMode  `json:"study_mode"`
	Streak    DeckStreak `json:"streak"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Validate checks if the Deck has valid data.
// Returns an error if any field fails validation.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDeckID
	}

	if d.UserID == uuid.Nil {
		return ErrEmptyDeckUserID
	}

	if d.Name == "" {
		return ErrEmptyDeckName
	}

	if !d.StudyMode.IsValid() {
		return ErrInvalidStudyMode
	}

	return nil
}
