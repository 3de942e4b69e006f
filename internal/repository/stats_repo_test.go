package repository

import (
	"testing"
	"time"
)

func TestAdvanceStreak(t *testing.T) {
	today := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	sameDayLater := time.Date(2026, 3, 15, 22, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	lastWeek := today.AddDate(0, 0, -7)

	tests := []struct {
		name    string
		current int
		last    *time.Time
		want    int
	}{
		{"first review ever", 0, nil, 1},
		{"second review same day keeps streak", 5, &sameDayLater, 5},
		{"reviewed yesterday extends streak", 5, &yesterday, 6},
		{"gap resets streak", 12, &lastWeek, 1},
		{"later same-day timestamp is still same day", 3, &sameDayLater, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AdvanceStreak(tc.current, tc.last, today)
			if got != tc.want {
				t.Errorf("expected streak %d, got %d", tc.want, got)
			}
		})
	}
}

func TestAdvanceStreakIgnoresTimeOfDay(t *testing.T) {
	lastNight := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	earlyMorning := time.Date(2026, 3, 15, 0, 5, 0, 0, time.UTC)

	if got := AdvanceStreak(2, &lastNight, earlyMorning); got != 3 {
		t.Errorf("consecutive calendar days should extend streak, got %d", got)
	}
}
