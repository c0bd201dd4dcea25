package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsandoval/mnemo/internal/domain"
)

func TestServiceSchedule(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Now().UTC()

	t.Run("nil state is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Schedule(nil, domain.RatingGood, now)
		assert.ErrorIs(t, err, ErrNilState)
	})

	t.Run("unknown rating is rejected, never defaulted", func(t *testing.T) {
		t.Parallel()
		state := newTestState(t)
		_, err := svc.Schedule(state, domain.Rating("perfect"), now)
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("valid rating returns new state", func(t *testing.T) {
		t.Parallel()
		state := newTestState(t)
		got, err := svc.Schedule(state, domain.RatingGood, now)
		require.NoError(t, err)
		assert.NotSame(t, state, got)
		assert.Equal(t, 1, got.Repetitions)
		assert.NoError(t, got.Validate())
	})
}

func TestServicePostpone(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Now().UTC()

	t.Run("nil state is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Postpone(nil, 3, now)
		assert.ErrorIs(t, err, ErrNilState)
	})

	t.Run("days below one is rejected", func(t *testing.T) {
		t.Parallel()
		state := newTestState(t)
		_, err := svc.Postpone(state, 0, now)
		assert.ErrorIs(t, err, ErrInvalidDays)
	})

	t.Run("pushes due date without touching schedule", func(t *testing.T) {
		t.Parallel()
		state := newTestState(t)
		state.Repetitions = 4
		state.ReviewInterval = 12
		state.EaseFactor = 2.1

		got, err := svc.Postpone(state, 5, now)
		require.NoError(t, err)
		assert.Equal(t, state.DueDate.AddDate(0, 0, 5), got.DueDate)
		assert.Equal(t, 4, got.Repetitions)
		assert.Equal(t, 12, got.ReviewInterval)
		assert.InDelta(t, 2.1, got.EaseFactor, 1e-9)
		assert.Equal(t, state.LastStudied, got.LastStudied)
	})
}

func TestNewParamsOverrides(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{
		MinEaseFactor:        1.4,
		SecondInterval:       4,
		MasteryThresholdDays: 30,
	})

	assert.InDelta(t, 1.4, params.MinEaseFactor, 1e-9)
	assert.InDelta(t, 2.5, params.MaxEaseFactor, 1e-9)
	assert.Equal(t, 4, params.SecondInterval)
	assert.Equal(t, 1, params.FirstInterval)
	assert.Equal(t, 30, params.MasteryThresholdDays)
}
