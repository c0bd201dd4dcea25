package domain

import "fmt"

// Rating represents the learner's self-assessment of a card review.
// It is a closed set; use ParseRating to construct one from external input
// so that invalid values are rejected at the boundary rather than leaking
// into the scheduler.
type Rating string

// Possible rating values.
const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// ParseRating converts a raw string into a Rating.
// Returns ErrInvalidRating for anything outside the closed set.
func ParseRating(s string) (Rating, error) {
	r := Rating(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	return r, nil
}

// IsValid reports whether the rating is one of the recognized values.
func (r Rating) IsValid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	default:
		return false
	}
}

// String returns the string representation of the rating.
func (r Rating) String() string {
	return string(r)
}
