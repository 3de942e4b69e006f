package srs

import (
	"math"
	"testing"
	"time"

	"github.com/marwayahua/study-smart-egypt/internal/models"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func freshCard() models.Flashcard {
	return InitCard(models.Flashcard{}, testNow)
}

func TestInitCardIsImmediatelyDue(t *testing.T) {
	c := freshCard()

	if c.EaseFactor != 2.5 {
		t.Errorf("expected ease factor 2.5, got %v", c.EaseFactor)
	}
	if c.IntervalDays != 0 || c.Repetitions != 0 {
		t.Errorf("expected zero interval and repetitions, got %d/%d", c.IntervalDays, c.Repetitions)
	}
	if c.NextReviewAt.After(testNow) {
		t.Errorf("new card must be due at creation time, got %v", c.NextReviewAt)
	}
}

// A fresh card rated easy three times: 1 day, 6 days, then round(6 * EF).
func TestScheduleEasyProgression(t *testing.T) {
	c := freshCard()

	c = Schedule(c, 5, testNow)
	if c.IntervalDays != 1 || c.Repetitions != 1 {
		t.Fatalf("after 1st review: expected interval 1, reps 1; got %d/%d", c.IntervalDays, c.Repetitions)
	}
	if math.Abs(c.EaseFactor-2.6) > 1e-9 {
		t.Fatalf("after 1st review: expected ease 2.6, got %v", c.EaseFactor)
	}

	c = Schedule(c, 5, testNow.AddDate(0, 0, 1))
	if c.IntervalDays != 6 || c.Repetitions != 2 {
		t.Fatalf("after 2nd review: expected interval 6, reps 2; got %d/%d", c.IntervalDays, c.Repetitions)
	}

	easeAfterSecond := c.EaseFactor
	c = Schedule(c, 5, testNow.AddDate(0, 0, 7))
	wantInterval := int(math.Round(6 * easeAfterSecond))
	if c.IntervalDays != wantInterval || c.Repetitions != 3 {
		t.Fatalf("after 3rd review: expected interval %d, reps 3; got %d/%d", wantInterval, c.IntervalDays, c.Repetitions)
	}
}

// A lapse restarts spacing at one day no matter how mature the card was.
func TestScheduleLapseResets(t *testing.T) {
	tests := []struct {
		name    string
		quality int
	}{
		{"forgot", 0},
		{"almost", 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := freshCard()
			c.EaseFactor = 2.8
			c.IntervalDays = 120
			c.Repetitions = 7

			c = Schedule(c, tc.quality, testNow)
			if c.Repetitions != 0 {
				t.Errorf("expected repetitions reset to 0, got %d", c.Repetitions)
			}
			if c.IntervalDays != 1 {
				t.Errorf("expected interval reset to 1, got %d", c.IntervalDays)
			}
		})
	}
}

// End-to-end vector: {ease 2.5, interval 1, reps 1} rated forgot.
// EF' = max(1.3, 2.5 + (0.1 - 5*(0.08 + 5*0.02))) = 1.7
func TestScheduleForgotVector(t *testing.T) {
	c := freshCard()
	c.EaseFactor = 2.5
	c.IntervalDays = 1
	c.Repetitions = 1

	c = Schedule(c, 0, testNow)

	if c.Repetitions != 0 || c.IntervalDays != 1 {
		t.Errorf("expected reps 0 and interval 1, got %d/%d", c.Repetitions, c.IntervalDays)
	}
	if math.Abs(c.EaseFactor-1.7) > 1e-9 {
		t.Errorf("expected ease 1.7, got %v", c.EaseFactor)
	}
}

// The 1.3 floor holds for every starting ease and every quality score.
func TestScheduleEaseFloor(t *testing.T) {
	for _, startEase := range []float64{1.3, 1.35, 1.5, 2.5, 3.2} {
		for quality := 0; quality <= 5; quality++ {
			c := freshCard()
			c.EaseFactor = startEase
			c.IntervalDays = 10
			c.Repetitions = 4

			c = Schedule(c, quality, testNow)
			if c.EaseFactor < MinEaseFactor {
				t.Errorf("ease %v with quality %d dropped below floor: %v", startEase, quality, c.EaseFactor)
			}
		}
	}
}

// Ease updates on every review: quality 5 raises it, quality 3 lowers it
// slightly even though the review passed.
func TestScheduleEaseMovesOnPass(t *testing.T) {
	c := freshCard()
	c.EaseFactor = 2.5
	c.Repetitions = 3
	c.IntervalDays = 10

	up := Schedule(c, 5, testNow)
	if up.EaseFactor <= 2.5 {
		t.Errorf("quality 5 should raise ease, got %v", up.EaseFactor)
	}

	down := Schedule(c, 3, testNow)
	if down.EaseFactor >= 2.5 {
		t.Errorf("quality 3 should lower ease, got %v", down.EaseFactor)
	}
}

// Pass-path intervals always round to at least one day.
func TestScheduleMinimumInterval(t *testing.T) {
	c := freshCard()
	c.EaseFactor = 1.3
	c.IntervalDays = 0
	c.Repetitions = 2 // next pass takes the multiplicative branch

	c = Schedule(c, 4, testNow)
	if c.IntervalDays < 1 {
		t.Errorf("pass path produced interval %d, want >= 1", c.IntervalDays)
	}
}

// Next review is anchored to the moment of review, not the previous due
// date: a late review still gets the full interval from now.
func TestScheduleAnchorsToReviewTime(t *testing.T) {
	c := freshCard()
	c.EaseFactor = 2.5
	c.IntervalDays = 6
	c.Repetitions = 2
	c.NextReviewAt = testNow.AddDate(0, 0, -30) // a month overdue

	late := testNow
	c = Schedule(c, 5, late)

	want := late.AddDate(0, 0, c.IntervalDays)
	if !c.NextReviewAt.Equal(want) {
		t.Errorf("expected next review %v, got %v", want, c.NextReviewAt)
	}
	if c.LastReviewedAt == nil || !c.LastReviewedAt.Equal(late) {
		t.Errorf("expected last reviewed at %v, got %v", late, c.LastReviewedAt)
	}
}

// No artificial cap: a mature card keeps growing past a year.
func TestScheduleNoIntervalCap(t *testing.T) {
	c := freshCard()
	c.EaseFactor = 2.5
	c.IntervalDays = 400
	c.Repetitions = 10

	c = Schedule(c, 5, testNow)
	if c.IntervalDays <= 400 {
		t.Errorf("expected interval to keep growing, got %d", c.IntervalDays)
	}
}
