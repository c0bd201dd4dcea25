package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/lsandoval/mnemo/internal/domain"
)

// FlushSink receives the deduplicated batch of card updates accumulated
// during a session. It is implemented by the persistence layer; the upsert
// must be idempotent under retries, keyed by (user_id, card_id).
type FlushSink interface {
	ApplyReviewBatch(ctx context.Context, updates []*domain.CardSrsState) error
}

// Batcher accumulates per-card scheduling updates produced during one
// session and delivers them in a single flush. If the same card is recorded
// more than once - possible when a card reappears across phases - only the
// most recently computed state is kept (last-write-wins).
//
// Batcher is not safe for concurrent use; it is owned by a single session.
type Batcher struct {
	order   []uuid.UUID
	updates map[uuid.UUID]*domain.CardSrsState
}

// NewBatcher creates an empty batcher.
func NewBatcher() *Batcher {
	return &Batcher{
		updates: make(map[uuid.UUID]*domain.CardSrsState),
	}
}

// Record appends a card update, replacing any earlier update for the same
// card. The first-recorded order is preserved for the flush.
func (b *Batcher) Record(state *domain.CardSrsState) {
	if _, seen := b.updates[state.CardID]; !seen {
		b.order = append(b.order, state.CardID)
	}
	b.updates[state.CardID] = state
}

// Len returns the number of distinct cards currently batched.
func (b *Batcher) Len() int {
	return len(b.updates)
}

// Flush delivers the deduplicated batch to the sink and clears the batcher.
// Flushing an empty batcher is a no-op and never touches the sink.
//
// The local batch is cleared whether or not the sink call succeeds: the
// session already reflects the computed state, and redelivery on failure is
// an explicit decision of the caller, not retried here.
func (b *Batcher) Flush(ctx context.Context, sink FlushSink) error {
	if len(b.updates) == 0 {
		return nil
	}

	batch := make([]*domain.CardSrsState, 0, len(b.updates))
	for _, id := range b.order {
		batch = append(batch, b.updates[id])
	}

	b.Reset()

	return sink.ApplyReviewBatch(ctx, batch)
}

// Reset discards any unflushed updates. Starting a fresh pass over the same
// queue is a new session for batching purposes.
func (b *Batcher) Reset() {
	b.order = nil
	b.updates = make(map[uuid.UUID]*domain.CardSrsState)
}
