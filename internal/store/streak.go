package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lsandoval/mnemo/internal/progress"
)

// StreakStore defines the interface for the global (per-user) streak scope.
// The per-deck scope lives on the deck row and goes through DeckStore.
// Version: 1.0
type StreakStore interface {
	// GetGlobal retrieves the user's global streak state. Returns a zero
	// StreakState, not an error, when the user has no streak row yet.
	GetGlobal(ctx context.Context, userID uuid.UUID) (progress.StreakState, error)

	// UpdateGlobal upserts the user's global streak state. Written at most
	// once per credited session.
	UpdateGlobal(ctx context.Context, userID uuid.UUID, state progress.StreakState) error

	// WithTx returns a new StreakStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) StreakStore
}
