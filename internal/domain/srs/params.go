// Package srs implements the spaced repetition scheduling algorithm.
//
// The algorithm is an SM-2 variant with lapse handling: a card carries an
// ease factor, a review interval in days and a count of consecutive
// successful repetitions. Each rating maps the current state to a new state;
// the computation is pure and deterministic given the state, the rating and
// the clock.
package srs

import (
	"github.com/lsandoval/mnemo/internal/domain"
)

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// Core limits for the ease factor.
	MinEaseFactor float64
	MaxEaseFactor float64

	// Additive ease factor adjustments per rating.
	EaseAdjustment map[domain.Rating]float64

	// Graduating intervals for the first and second successful repetition,
	// in days.
	FirstInterval  int
	SecondInterval int

	// Extra multiplier applied to the interval on an Easy rating.
	EasyIntervalBonus float64

	// Interval assigned when a card lapses (Again rating), in days.
	LapseInterval int

	// Interval at or above which a card is considered mastered, in days.
	MasteryThresholdDays int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values leave the corresponding default in place.
type ParamsConfig struct {
	MinEaseFactor float64
	MaxEaseFactor float64

	AgainEaseAdjustment float64
	HardEaseAdjustment  float64
	EasyEaseAdjustment  float64

	FirstInterval  int
	SecondInterval int

	EasyIntervalBonus float64

	MasteryThresholdDays int
}

// NewDefaultParams creates a new Params instance with the canonical defaults.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor: 1.3,
		MaxEaseFactor: 2.5,

		EaseAdjustment: map[domain.Rating]float64{
			domain.RatingAgain: -0.20,
			domain.RatingHard:  -0.15,
			domain.RatingGood:  0.0,
			domain.RatingEasy:  0.15,
		},

		FirstInterval:  1,
		SecondInterval: 6,

		EasyIntervalBonus: 1.3,

		LapseInterval: 1,

		MasteryThresholdDays: 21,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}

	if config.AgainEaseAdjustment != 0 {
		params.EaseAdjustment[domain.RatingAgain] = config.AgainEaseAdjustment
	}
	if config.HardEaseAdjustment != 0 {
		params.EaseAdjustment[domain.RatingHard] = config.HardEaseAdjustment
	}
	if config.EasyEaseAdjustment != 0 {
		params.EaseAdjustment[domain.RatingEasy] = config.EasyEaseAdjustment
	}

	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}

	if config.EasyIntervalBonus > 0 {
		params.EasyIntervalBonus = config.EasyIntervalBonus
	}

	if config.MasteryThresholdDays > 0 {
		params.MasteryThresholdDays = config.MasteryThresholdDays
	}

	return params
}
