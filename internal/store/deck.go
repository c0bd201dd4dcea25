package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lsandoval/mnemo/internal/domain"
)

// DeckStore defines the interface for the deck fields the study engine
// consumes: the study mode and the per-deck streak counters. Deck content
// management lives elsewhere.
// Version: 1.0
type DeckStore interface {
	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// UpdateStreak writes back the per-deck streak counters after a
	// credited session. Returns ErrDeckNotFound if the deck does not exist.
	UpdateStreak(ctx context.Context, id uuid.UUID, streak domain.DeckStreak) error

	// WithTx returns a new DeckStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) DeckStore
}
