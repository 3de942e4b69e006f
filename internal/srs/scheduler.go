package srs

import (
	"math"
	"time"

	"github.com/marwayahua/study-smart-egypt/internal/models"
)

const (
	// InitialEaseFactor is the SM-2 starting ease for a new card.
	InitialEaseFactor = 2.5

	// MinEaseFactor is the hard floor; below it intervals would stop
	// growing and a difficult card would be shown forever.
	MinEaseFactor = 1.3

	// PassingQuality separates a successful recall from a lapse.
	PassingQuality = 3
)

// InitCard sets the scheduling defaults on a freshly created card.
// New cards are immediately due.
func InitCard(c models.Flashcard, now time.Time) models.Flashcard {
	c.EaseFactor = InitialEaseFactor
	c.IntervalDays = 0
	c.Repetitions = 0
	c.NextReviewAt = now
	return c
}

// Schedule applies one review to a card's scheduling state and returns
// the updated card. Pure function: the caller persists the result.
//
// SM-2 variant:
//   - quality < 3 is a lapse: repetitions reset to 0 and the interval
//     restarts at one day regardless of how mature the card was.
//   - otherwise repetitions advance 1 -> 1 day, 2 -> 6 days, and from the
//     third on the interval grows by the accumulated ease factor.
//   - the ease factor is updated on every review, pass or fail, and is
//     floored at MinEaseFactor. There is no upper interval cap: mature
//     cards may legitimately reach multi-year intervals.
//
// The next review is anchored to now, the moment of this review, not to
// the previous due date. Reviewing late is not penalized.
func Schedule(c models.Flashcard, quality int, now time.Time) models.Flashcard {
	if quality < PassingQuality {
		c.Repetitions = 0
		c.IntervalDays = 1
	} else {
		c.Repetitions++
		switch c.Repetitions {
		case 1:
			c.IntervalDays = 1
		case 2:
			c.IntervalDays = 6
		default:
			c.IntervalDays = int(math.Round(float64(c.IntervalDays) * c.EaseFactor))
			if c.IntervalDays < 1 {
				c.IntervalDays = 1
			}
		}
	}

	// EF' = EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02)), floored at 1.3
	q := float64(quality)
	c.EaseFactor = c.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if c.EaseFactor < MinEaseFactor {
		c.EaseFactor = MinEaseFactor
	}

	c.NextReviewAt = now.AddDate(0, 0, c.IntervalDays)
	reviewed := now
	c.LastReviewedAt = &reviewed

	return c
}
