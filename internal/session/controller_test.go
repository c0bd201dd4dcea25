package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsandoval/mnemo/internal/domain"
	"github.com/lsandoval/mnemo/internal/domain/srs"
)

func makeQueue(t *testing.T, n int) []*domain.CardSrsState {
	t.Helper()
	userID := uuid.New()
	deckID := uuid.New()

	queue := make([]*domain.CardSrsState, 0, n)
	for i := 0; i < n; i++ {
		state, err := domain.NewCardSrsState(userID, deckID, uuid.New())
		require.NoError(t, err)
		queue = append(queue, state)
	}
	return queue
}

func newTestController(t *testing.T, cfg Config) (*Controller, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	if cfg.Sink == nil {
		cfg.Sink = sink
	} else {
		sink = cfg.Sink.(*recordingSink)
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = srs.NewDefaultService()
	}
	c, err := NewController(cfg)
	require.NoError(t, err)
	return c, sink
}

func TestNewControllerValidation(t *testing.T) {
	t.Parallel()

	t.Run("nil scheduler is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewController(Config{Kind: KindReview, Sink: &recordingSink{}})
		assert.ErrorIs(t, err, ErrNilScheduler)
	})

	t.Run("nil sink is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewController(Config{Kind: KindReview, Scheduler: srs.NewDefaultService()})
		assert.ErrorIs(t, err, ErrNilSink)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewController(Config{
			Kind:      Kind("cram"),
			Scheduler: srs.NewDefaultService(),
			Sink:      &recordingSink{},
		})
		assert.Error(t, err)
	})

	t.Run("zero phases is a fatal configuration error", func(t *testing.T) {
		t.Parallel()
		table := PhaseTable{domain.StudyModeFlipCard: {}}
		_, err := NewController(Config{
			Kind:      KindLearn,
			Mode:      domain.StudyModeFlipCard,
			Queue:     makeQueue(t, 1),
			Scheduler: srs.NewDefaultService(),
			Sink:      &recordingSink{},
			Phases:    table,
		})
		assert.ErrorIs(t, err, ErrNoPhases)
	})
}

func TestEmptyQueueIsTerminalAtStart(t *testing.T) {
	t.Parallel()

	c, sink := newTestController(t, Config{Kind: KindReview})

	assert.True(t, c.Finished())
	assert.Equal(t, 0, c.TotalSteps())
	assert.Nil(t, c.CurrentCard())
	assert.Empty(t, sink.flushes, "empty session must not trigger terminal actions")
	assert.Empty(t, sink.outcomes)

	assert.ErrorIs(t, c.Rate(context.Background(), domain.RatingGood), ErrSessionFinished)
	assert.ErrorIs(t, c.Advance(context.Background()), ErrSessionFinished)
}

func TestTwoPhaseSessionStepCount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, sink := newTestController(t, Config{
		Kind:  KindLearn,
		Mode:  domain.StudyModeFlipCard,
		Queue: makeQueue(t, 5),
	})

	assert.Equal(t, 10, c.TotalSteps(), "queue of 5 with a 2-phase mode has 10 steps")

	// Phase 0: reveal, no rating allowed.
	for i := 0; i < 5; i++ {
		assert.Equal(t, i, c.CurrentStep())
		assert.ErrorIs(t, c.Rate(ctx, domain.RatingGood), ErrRatingNotAllowed)
		require.NoError(t, c.Advance(ctx))
	}

	// Phase 1: quiz.
	for i := 0; i < 5; i++ {
		assert.False(t, c.Finished(), "finished must only become true after the 5th card of the 2nd phase")
		assert.Equal(t, 5+i, c.CurrentStep())
		assert.ErrorIs(t, c.Advance(ctx), ErrAdvanceNotAllowed)
		require.NoError(t, c.Rate(ctx, domain.RatingGood))
	}

	assert.True(t, c.Finished())
	assert.Equal(t, 10, c.CurrentStep())
	assert.Equal(t, 5, c.Learned())
	assert.Equal(t, 0, c.Reviewed())

	require.Len(t, sink.flushes, 1)
	assert.Len(t, sink.flushes[0], 5)
	require.Len(t, sink.outcomes, 1)
	assert.Equal(t, 5, sink.outcomes[0].CardsStudied)
	assert.Equal(t, 5, sink.outcomes[0].CardsLearned)
	assert.Equal(t, 50, sink.outcomes[0].XPEarned)
	assert.False(t, sink.outcomes[0].Exited)
}

func TestReviewSessionCountsReviewed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, sink := newTestController(t, Config{
		Kind:  KindReview,
		Queue: makeQueue(t, 3),
	})

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Rate(ctx, domain.RatingHard))
	}

	assert.True(t, c.Finished())
	assert.Equal(t, 3, c.Reviewed())
	assert.Equal(t, 0, c.Learned())
	require.Len(t, sink.outcomes, 1)
	assert.Equal(t, 3, sink.outcomes[0].CardsReviewed)
}

func TestRateRejectsInvalidRatingWithoutAdvancing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, _ := newTestController(t, Config{
		Kind:  KindReview,
		Queue: makeQueue(t, 2),
	})

	before := c.CurrentStep()
	err := c.Rate(ctx, domain.Rating("perfect"))
	assert.ErrorIs(t, err, srs.ErrInvalidRating)
	assert.Equal(t, before, c.CurrentStep(), "rejected rating must leave session state unchanged")
	assert.Equal(t, 0, c.Reviewed())
}

func TestRatingSameCardAcrossPhasesDedupes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Two rating phases so each card is rated twice within one session.
	table := PhaseTable{
		domain.StudyModeFlipCard: {
			{Display: DisplayQuiz, AllowRating: true},
			{Display: DisplayQuiz, AllowRating: true},
		},
	}

	c, sink := newTestController(t, Config{
		Kind:   KindLearn,
		Mode:   domain.StudyModeFlipCard,
		Queue:  makeQueue(t, 2),
		Phases: table,
	})

	require.NoError(t, c.Rate(ctx, domain.RatingGood))
	require.NoError(t, c.Rate(ctx, domain.RatingGood))
	require.NoError(t, c.Rate(ctx, domain.RatingGood))
	require.NoError(t, c.Rate(ctx, domain.RatingGood))

	require.Len(t, sink.flushes, 1)
	batch := sink.flushes[0]
	require.Len(t, batch, 2, "each card must appear once in the flushed batch")
	for _, update := range batch {
		assert.Equal(t, 2, update.Repetitions, "flushed state must be the later computation")
	}
}

func TestExitFlushesPartialBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, sink := newTestController(t, Config{
		Kind:  KindReview,
		Queue: makeQueue(t, 5),
	})

	require.NoError(t, c.Rate(ctx, domain.RatingGood))
	require.NoError(t, c.Rate(ctx, domain.RatingAgain))

	require.NoError(t, c.Exit(ctx))
	assert.True(t, c.Finished())

	require.Len(t, sink.flushes, 1, "early abort must flush what was accumulated")
	assert.Len(t, sink.flushes[0], 2)
	require.Len(t, sink.outcomes, 1)
	assert.Equal(t, 2, sink.outcomes[0].CardsStudied)
	assert.True(t, sink.outcomes[0].Exited)

	// Exit on a finished session is a no-op.
	require.NoError(t, c.Exit(ctx))
	assert.Len(t, sink.flushes, 1)
	assert.Len(t, sink.outcomes, 1)
}

func TestTerminalActionsFireExactlyOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, sink := newTestController(t, Config{
		Kind:  KindReview,
		Queue: makeQueue(t, 1),
	})

	require.NoError(t, c.Rate(ctx, domain.RatingGood))
	require.NoError(t, c.Exit(ctx))
	assert.ErrorIs(t, c.Rate(ctx, domain.RatingGood), ErrSessionFinished)

	assert.Len(t, sink.flushes, 1)
	assert.Len(t, sink.outcomes, 1)
}

func TestFlushFailureIsWarningLevel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sink := &recordingSink{flushErr: errors.New("upstream unavailable")}
	c, _ := newTestController(t, Config{
		Kind:  KindReview,
		Queue: makeQueue(t, 1),
		Sink:  sink,
	})

	err := c.Rate(ctx, domain.RatingGood)
	var flushErr *FlushError
	require.ErrorAs(t, err, &flushErr)

	assert.True(t, c.Finished(), "flush failure must not undo the terminal transition")
	require.Len(t, sink.outcomes, 1, "completion notification still fires after a failed flush")
}

func TestCompletionFailureIsWarningLevel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sink := &recordingSink{doneErr: errors.New("streak write refused")}
	c, _ := newTestController(t, Config{
		Kind:  KindReview,
		Queue: makeQueue(t, 1),
		Sink:  sink,
	})

	err := c.Rate(ctx, domain.RatingGood)
	var completionErr *CompletionError
	require.ErrorAs(t, err, &completionErr)

	assert.True(t, c.Finished(), "completion failure must not undo the terminal transition")
	require.Len(t, sink.flushes, 1, "the batch flush still ran before the failed completion handling")
	require.Len(t, sink.outcomes, 1)
}

func TestFlushFailureTakesPrecedenceOverCompletionFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sink := &recordingSink{
		flushErr: errors.New("upstream unavailable"),
		doneErr:  errors.New("streak write refused"),
	}
	c, _ := newTestController(t, Config{
		Kind:  KindReview,
		Queue: makeQueue(t, 1),
		Sink:  sink,
	})

	err := c.Rate(ctx, domain.RatingGood)
	var flushErr *FlushError
	require.ErrorAs(t, err, &flushErr)
	assert.True(t, c.Finished())
}

func TestResetStartsFreshPass(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, sink := newTestController(t, Config{
		Kind:  KindReview,
		Queue: makeQueue(t, 3),
	})

	require.NoError(t, c.Rate(ctx, domain.RatingGood))
	require.NoError(t, c.Rate(ctx, domain.RatingGood))

	c.Reset()
	assert.False(t, c.Finished())
	assert.Equal(t, 0, c.CurrentStep())
	assert.Equal(t, 0, c.Reviewed())

	// Finish the fresh pass; only post-reset ratings may appear.
	require.NoError(t, c.Rate(ctx, domain.RatingGood))
	require.NoError(t, c.Rate(ctx, domain.RatingGood))
	require.NoError(t, c.Rate(ctx, domain.RatingGood))

	require.Len(t, sink.flushes, 1, "reset must clear the unflushed batch")
	assert.Len(t, sink.flushes[0], 3)
	require.Len(t, sink.outcomes, 1)
	assert.Equal(t, 3, sink.outcomes[0].CardsStudied)
}

func TestSessionDurationAndFinishTime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	current := start
	clock := func() time.Time { return current }

	c, sink := newTestController(t, Config{
		Kind:  KindReview,
		Queue: makeQueue(t, 1),
		Clock: clock,
	})

	current = start.Add(90 * time.Second)
	require.NoError(t, c.Rate(ctx, domain.RatingGood))

	require.Len(t, sink.outcomes, 1)
	assert.Equal(t, 90, sink.outcomes[0].TimeStudiedSeconds)
	assert.Equal(t, current, sink.outcomes[0].FinishedAt)
}
