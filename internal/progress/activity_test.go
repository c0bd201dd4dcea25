package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAppendAccumulates(t *testing.T) {
	t.Parallel()

	log := NewLog()
	log.Append(day(0), ActivityDay{CardsStudied: 3, CardsReviewed: 3, TimeStudiedSeconds: 120, XPEarned: 30})
	log.Append(day(0), ActivityDay{CardsStudied: 4, CardsLearned: 4, TimeStudiedSeconds: 300, XPEarned: 40})

	bucket, ok := log.Day(day(0))
	require.True(t, ok)
	assert.Equal(t, 7, bucket.CardsStudied, "same-day sessions must accumulate, not overwrite")
	assert.Equal(t, 3, bucket.CardsReviewed)
	assert.Equal(t, 4, bucket.CardsLearned)
	assert.Equal(t, 420, bucket.TimeStudiedSeconds)
	assert.Equal(t, 70, bucket.XPEarned)

	assert.Len(t, log.All(), 1, "same date must not produce separate buckets")
}

func TestLogBucketsByCalendarDate(t *testing.T) {
	t.Parallel()

	log := NewLog()
	log.Append(day(0).Add(8*time.Hour), ActivityDay{CardsStudied: 1})
	log.Append(day(0).Add(22*time.Hour), ActivityDay{CardsStudied: 2})
	log.Append(day(1).Add(time.Minute), ActivityDay{CardsStudied: 5})

	today, ok := log.Day(day(0))
	require.True(t, ok)
	assert.Equal(t, 3, today.CardsStudied)

	tomorrow, ok := log.Day(day(1))
	require.True(t, ok)
	assert.Equal(t, 5, tomorrow.CardsStudied)
}

func TestLogAllIsDateOrdered(t *testing.T) {
	t.Parallel()

	log := NewLog()
	log.Append(day(5), ActivityDay{CardsStudied: 1})
	log.Append(day(-3), ActivityDay{CardsStudied: 1})
	log.Append(day(2), ActivityDay{CardsStudied: 1})

	all := log.All()
	require.Len(t, all, 3)
	assert.Equal(t, day(-3), all[0].Date)
	assert.Equal(t, day(2), all[1].Date)
	assert.Equal(t, day(5), all[2].Date)
}

func TestLogWindowZeroFillsGaps(t *testing.T) {
	t.Parallel()

	log := NewLog()
	log.Append(day(0), ActivityDay{CardsStudied: 2})
	log.Append(day(3), ActivityDay{CardsStudied: 4})

	window := log.Window(day(0), day(3))
	require.Len(t, window, 4)
	assert.Equal(t, 2, window[0].CardsStudied)
	assert.Equal(t, 0, window[1].CardsStudied)
	assert.Equal(t, day(1), window[1].Date)
	assert.Equal(t, 0, window[2].CardsStudied)
	assert.Equal(t, 4, window[3].CardsStudied)
}

func TestLogWindowInvertedRange(t *testing.T) {
	t.Parallel()

	log := NewLog()
	assert.Nil(t, log.Window(day(3), day(0)))
}

func TestFillWindow(t *testing.T) {
	t.Parallel()

	days := []ActivityDay{
		{Date: day(1), CardsStudied: 2, XPEarned: 20},
	}

	window := FillWindow(days, day(0), day(2))
	require.Len(t, window, 3)
	assert.Equal(t, 0, window[0].CardsStudied)
	assert.Equal(t, 2, window[1].CardsStudied)
	assert.Equal(t, 20, window[1].XPEarned)
	assert.Equal(t, 0, window[2].CardsStudied)
}
