package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsandoval/mnemo/internal/domain"
)

func newTestState(t *testing.T) *domain.CardSrsState {
	t.Helper()
	state, err := domain.NewCardSrsState(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	return state
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  int
		newReps  int
		ef       float64
		rating   domain.Rating
		expected int
	}{
		{
			name:     "first repetition uses graduating interval",
			current:  0,
			newReps:  1,
			ef:       2.5,
			rating:   domain.RatingGood,
			expected: 1,
		},
		{
			name:     "second repetition uses second graduating interval",
			current:  1,
			newReps:  2,
			ef:       2.5,
			rating:   domain.RatingGood,
			expected: 6,
		},
		{
			name:     "third repetition multiplies by ease factor",
			current:  6,
			newReps:  3,
			ef:       2.5,
			rating:   domain.RatingGood,
			expected: 15, // round(6 * 2.5)
		},
		{
			name:     "hard uses same growth as good",
			current:  10,
			newReps:  5,
			ef:       1.3,
			rating:   domain.RatingHard,
			expected: 13, // round(10 * 1.3)
		},
		{
			name:     "easy applies interval bonus",
			current:  10,
			newReps:  6,
			ef:       2.0,
			rating:   domain.RatingEasy,
			expected: 26, // round(round(10 * 2.0) * 1.3)
		},
		{
			name:     "easy bonus applies to graduating interval too",
			current:  1,
			newReps:  2,
			ef:       2.5,
			rating:   domain.RatingEasy,
			expected: 8, // round(6 * 1.3)
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := calculateNewInterval(tc.current, tc.newReps, tc.ef, tc.rating, params)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		rating   domain.Rating
		expected float64
	}{
		{
			name:     "again decreases ease factor",
			current:  2.5,
			rating:   domain.RatingAgain,
			expected: 2.3,
		},
		{
			name:     "hard slightly decreases ease factor",
			current:  2.5,
			rating:   domain.RatingHard,
			expected: 2.35,
		},
		{
			name:     "good leaves ease factor unchanged",
			current:  2.0,
			rating:   domain.RatingGood,
			expected: 2.0,
		},
		{
			name:     "easy increases ease factor",
			current:  2.0,
			rating:   domain.RatingEasy,
			expected: 2.15,
		},
		{
			name:     "again clamps at lower bound",
			current:  1.35,
			rating:   domain.RatingAgain,
			expected: 1.3,
		},
		{
			name:     "easy clamps at upper bound",
			current:  2.45,
			rating:   domain.RatingEasy,
			expected: 2.5,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := calculateNewEaseFactor(tc.current, tc.rating, params)
			assert.InDelta(t, tc.expected, got, 1e-9)
		})
	}
}

func TestCalculateNextState_GoodGoodAgainWalk(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	state := newTestState(t)

	first := calculateNextState(state, domain.RatingGood, now, params)
	assert.Equal(t, 1, first.Repetitions)
	assert.Equal(t, 1, first.ReviewInterval)
	assert.InDelta(t, 2.5, first.EaseFactor, 1e-9)
	assert.Equal(t, now, first.LastStudied)
	assert.Equal(t, now.AddDate(0, 0, 1), first.DueDate)
	assert.Equal(t, domain.CardStatusWaiting, first.Status)

	second := calculateNextState(first, domain.RatingGood, now.AddDate(0, 0, 1), params)
	assert.Equal(t, 2, second.Repetitions)
	assert.Equal(t, 6, second.ReviewInterval)
	assert.InDelta(t, 2.5, second.EaseFactor, 1e-9)

	lapsed := calculateNextState(second, domain.RatingAgain, now.AddDate(0, 0, 7), params)
	assert.Equal(t, 0, lapsed.Repetitions)
	assert.Equal(t, 1, lapsed.ReviewInterval)
	assert.InDelta(t, 2.3, lapsed.EaseFactor, 1e-9)
	assert.Equal(t, domain.CardStatusWaiting, lapsed.Status)
}

func TestCalculateNextState_AgainAlwaysResets(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	state := newTestState(t)
	state.Repetitions = 9
	state.ReviewInterval = 120
	state.EaseFactor = 2.5
	state.Status = domain.CardStatusMastered

	got := calculateNextState(state, domain.RatingAgain, now, params)
	assert.Equal(t, 0, got.Repetitions)
	assert.Equal(t, 1, got.ReviewInterval)
	assert.Equal(t, domain.CardStatusWaiting, got.Status)
	assert.Equal(t, now.AddDate(0, 0, 1), got.DueDate)
}

func TestCalculateNextState_MasteryThreshold(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	state := newTestState(t)
	state.Repetitions = 3
	state.ReviewInterval = 10
	state.EaseFactor = 2.5

	// round(10 * 2.5) = 25 >= 21
	got := calculateNextState(state, domain.RatingGood, now, params)
	assert.Equal(t, 25, got.ReviewInterval)
	assert.Equal(t, domain.CardStatusMastered, got.Status)
}

func TestCalculateNextState_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	state := newTestState(t)
	original := *state

	_ = calculateNextState(state, domain.RatingEasy, now, params)
	assert.Equal(t, original, *state)
}

func TestEaseFactorStaysInBounds(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	ratings := []domain.Rating{
		domain.RatingAgain, domain.RatingAgain, domain.RatingAgain,
		domain.RatingHard, domain.RatingAgain, domain.RatingHard,
		domain.RatingEasy, domain.RatingEasy, domain.RatingEasy,
		domain.RatingEasy, domain.RatingGood, domain.RatingEasy,
		domain.RatingAgain, domain.RatingEasy, domain.RatingHard,
	}

	state := newTestState(t)
	for _, r := range ratings {
		state = calculateNextState(state, r, now, params)
		assert.GreaterOrEqual(t, state.EaseFactor, params.MinEaseFactor)
		assert.LessOrEqual(t, state.EaseFactor, params.MaxEaseFactor)
		now = now.AddDate(0, 0, 1)
	}
}
