package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsandoval/mnemo/internal/domain"
)

type recordingSink struct {
	flushes  [][]*domain.CardSrsState
	flushErr error
	outcomes []Outcome
	doneErr  error
}

func (s *recordingSink) ApplyReviewBatch(_ context.Context, updates []*domain.CardSrsState) error {
	s.flushes = append(s.flushes, updates)
	return s.flushErr
}

func (s *recordingSink) SessionFinished(_ context.Context, outcome Outcome) error {
	s.outcomes = append(s.outcomes, outcome)
	return s.doneErr
}

func newBatchState(t *testing.T, cardID uuid.UUID, interval int) *domain.CardSrsState {
	t.Helper()
	state, err := domain.NewCardSrsState(uuid.New(), uuid.New(), cardID)
	require.NoError(t, err)
	state.ReviewInterval = interval
	return state
}

func TestBatcherDedupLastWriteWins(t *testing.T) {
	t.Parallel()

	cardA := uuid.New()
	cardB := uuid.New()

	b := NewBatcher()
	b.Record(newBatchState(t, cardA, 1))
	b.Record(newBatchState(t, cardB, 3))
	b.Record(newBatchState(t, cardA, 6))

	assert.Equal(t, 2, b.Len())

	sink := &recordingSink{}
	require.NoError(t, b.Flush(context.Background(), sink))

	require.Len(t, sink.flushes, 1)
	batch := sink.flushes[0]
	require.Len(t, batch, 2, "same card recorded twice must yield one entry")
	assert.Equal(t, cardA, batch[0].CardID)
	assert.Equal(t, 6, batch[0].ReviewInterval, "later computation must win")
	assert.Equal(t, cardB, batch[1].CardID)
}

func TestBatcherEmptyFlushIsNoOp(t *testing.T) {
	t.Parallel()

	b := NewBatcher()
	sink := &recordingSink{}

	require.NoError(t, b.Flush(context.Background(), sink))
	assert.Empty(t, sink.flushes, "empty batch must not touch the sink")
}

func TestBatcherFlushClearsBatch(t *testing.T) {
	t.Parallel()

	b := NewBatcher()
	b.Record(newBatchState(t, uuid.New(), 1))

	sink := &recordingSink{}
	require.NoError(t, b.Flush(context.Background(), sink))
	assert.Equal(t, 0, b.Len())

	// Flushing again after a flush is a no-op.
	require.NoError(t, b.Flush(context.Background(), sink))
	assert.Len(t, sink.flushes, 1)
}

func TestBatcherFlushClearsEvenOnSinkError(t *testing.T) {
	t.Parallel()

	b := NewBatcher()
	b.Record(newBatchState(t, uuid.New(), 1))

	sink := &recordingSink{flushErr: errors.New("connection refused")}
	err := b.Flush(context.Background(), sink)
	assert.Error(t, err)
	assert.Equal(t, 0, b.Len(), "failed delivery must not keep the batch for implicit retry")
}

func TestBatcherReset(t *testing.T) {
	t.Parallel()

	b := NewBatcher()
	b.Record(newBatchState(t, uuid.New(), 1))
	b.Reset()

	assert.Equal(t, 0, b.Len())

	sink := &recordingSink{}
	require.NoError(t, b.Flush(context.Background(), sink))
	assert.Empty(t, sink.flushes)
}
