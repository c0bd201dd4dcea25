package srs

import (
	"math"
	"time"

	"github.com/lsandoval/mnemo/internal/domain"
)

// calculateNewEaseFactor determines the new ease factor based on the rating.
//
// The ease factor represents the card's difficulty - higher values mean the
// card is easier and intervals grow faster. The result is always clamped to
// [params.MinEaseFactor, params.MaxEaseFactor] to prevent runaway or
// collapsing schedules.
func calculateNewEaseFactor(
	currentEF float64,
	rating domain.Rating,
	params *Params,
) float64 {
	newEF := currentEF + params.EaseAdjustment[rating]

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	if newEF > params.MaxEaseFactor {
		newEF = params.MaxEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the new review interval in days for a
// non-lapse rating, given the repetition count after the current review.
//
// The first two successful repetitions use the fixed graduating intervals;
// from the third onward the interval grows multiplicatively by the ease
// factor in effect before this review. An Easy rating additionally scales
// the result by params.EasyIntervalBonus.
func calculateNewInterval(
	currentInterval int,
	newRepetitions int,
	easeFactor float64,
	rating domain.Rating,
	params *Params,
) int {
	var interval int
	switch {
	case newRepetitions == 1:
		interval = params.FirstInterval
	case newRepetitions == 2:
		interval = params.SecondInterval
	default:
		interval = int(math.Round(float64(currentInterval) * easeFactor))
	}

	if rating == domain.RatingEasy {
		interval = int(math.Round(float64(interval) * params.EasyIntervalBonus))
	}

	return interval
}

// calculateNextState creates a new CardSrsState with updated values based on
// the rating.
//
// The function follows the immutable update pattern: the input state is never
// modified, a fully populated copy is returned instead. Invariants upheld:
//
//   - the ease factor is clamped after every update
//   - an Again rating resets repetitions to 0 and the interval to the lapse
//     interval
//   - DueDate and LastStudied are always set together from the same clock
//     reading
func calculateNextState(
	state *domain.CardSrsState,
	rating domain.Rating,
	now time.Time,
	params *Params,
) *domain.CardSrsState {
	newState := state.Clone()

	newState.EaseFactor = calculateNewEaseFactor(state.EaseFactor, rating, params)

	if rating == domain.RatingAgain {
		newState.Repetitions = 0
		newState.ReviewInterval = params.LapseInterval
	} else {
		newState.Repetitions = state.Repetitions + 1
		// The interval grows by the ease factor in effect before this
		// review; the adjustment above only influences future reviews.
		newState.ReviewInterval = calculateNewInterval(
			state.ReviewInterval,
			newState.Repetitions,
			state.EaseFactor,
			rating,
			params,
		)
	}

	newState.LastStudied = now
	newState.DueDate = now.AddDate(0, 0, newState.ReviewInterval)
	newState.Status = statusForInterval(newState.ReviewInterval, rating, params)
	newState.UpdatedAt = now

	return newState
}

// statusForInterval decides the card status after a review. Lapsed cards and
// cards below the mastery threshold wait for their due date; long-interval
// cards graduate to mastered.
func statusForInterval(interval int, rating domain.Rating, params *Params) domain.CardStatus {
	if rating != domain.RatingAgain && interval >= params.MasteryThresholdDays {
		return domain.CardStatusMastered
	}
	return domain.CardStatusWaiting
}
