package srs

import (
	"errors"
	"fmt"
)

// Rating is the learner's self-assessment after seeing a card's answer.
// The vocabulary is closed: exactly these four labels arrive from the
// review UI, anything else is rejected at this boundary before it can
// reach the scheduler.
type Rating string

const (
	RatingEasy      Rating = "easy"      // recalled effortlessly
	RatingConfusing Rating = "confusing" // recalled, but hesitated
	RatingAlmost    Rating = "almost"    // recalled with heavy effort
	RatingForgot    Rating = "forgot"    // failed to recall
)

var ErrInvalidRating = errors.New("invalid rating")

// ParseRating validates a raw rating label from the API.
func ParseRating(s string) (Rating, error) {
	switch Rating(s) {
	case RatingEasy, RatingConfusing, RatingAlmost, RatingForgot:
		return Rating(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRating, s)
}

// Quality maps the rating onto the 0-5 SM-2 quality scale.
func (r Rating) Quality() int {
	switch r {
	case RatingEasy:
		return 5
	case RatingConfusing:
		return 3
	case RatingAlmost:
		return 2
	default:
		return 0
	}
}

// IsCorrect reports whether the review counts as a successful recall
// (quality >= 3). Streak and retention tracking consume this boolean,
// never the raw label.
func (r Rating) IsCorrect() bool {
	return r.Quality() >= PassingQuality
}
