package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/lsandoval/mnemo/internal/domain"
)

// CardStateStore defines the interface for card scheduling state
// persistence. It supplies the bounded, ordered queues a session is built
// from and accepts the batched updates a session flushes at termination.
// Version: 1.0
type CardStateStore interface {
	// GetByCardID retrieves scheduling state for a single card of a user.
	// Returns ErrCardStateNotFound if no state exists.
	GetByCardID(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardSrsState, error)

	// SelectNewCards returns up to limit cards from the deck that have
	// never been studied, in stable creation order. Suspended cards are
	// excluded.
	SelectNewCards(
		ctx context.Context,
		userID, deckID uuid.UUID,
		limit int,
	) ([]*domain.CardSrsState, error)

	// SelectDueCards returns up to limit cards from the deck whose due
	// date is at or before now, ordered by due date ascending. Suspended
	// cards are excluded.
	SelectDueCards(
		ctx context.Context,
		userID, deckID uuid.UUID,
		now time.Time,
		limit int,
	) ([]*domain.CardSrsState, error)

	// ApplyReviewBatch upserts a batch of scheduling updates keyed by
	// (user_id, card_id). The operation is idempotent under retries:
	// re-applying the same batch leaves the rows in the same state.
	ApplyReviewBatch(ctx context.Context, updates []*domain.CardSrsState) error

	// UpdateState replaces the scheduling state for a single card, used by
	// the postpone operation. Returns ErrCardStateNotFound if no state
	// exists.
	UpdateState(ctx context.Context, state *domain.CardSrsState) error

	// WithTx returns a new CardStateStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) CardStateStore
}
