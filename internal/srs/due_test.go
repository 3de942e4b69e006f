package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/marwayahua/study-smart-egypt/internal/models"
)

func cardDueAt(at time.Time) models.Flashcard {
	return models.Flashcard{ID: uuid.New(), NextReviewAt: at}
}

func TestDueCardsFiltersAndSorts(t *testing.T) {
	now := testNow

	newest := cardDueAt(now.Add(-1 * time.Hour))
	oldest := cardDueAt(now.AddDate(0, 0, -10))
	middle := cardDueAt(now.AddDate(0, 0, -3))
	future := cardDueAt(now.Add(24 * time.Hour))
	exactlyNow := cardDueAt(now)

	due := DueCards([]models.Flashcard{newest, future, oldest, middle, exactlyNow}, now)

	if len(due) != 4 {
		t.Fatalf("expected 4 due cards, got %d", len(due))
	}

	wantOrder := []uuid.UUID{oldest.ID, middle.ID, newest.ID, exactlyNow.ID}
	for i, want := range wantOrder {
		if due[i].ID != want {
			t.Errorf("position %d: expected card %s, got %s", i, want, due[i].ID)
		}
	}
}

func TestDueCardsAllPast(t *testing.T) {
	now := testNow
	cards := []models.Flashcard{
		cardDueAt(now.AddDate(0, 0, -2)),
		cardDueAt(now.AddDate(0, 0, -1)),
		cardDueAt(now.AddDate(0, 0, -3)),
	}

	due := DueCards(cards, now)
	if len(due) != len(cards) {
		t.Fatalf("expected all %d cards due, got %d", len(cards), len(due))
	}
	for i := 1; i < len(due); i++ {
		if due[i].NextReviewAt.Before(due[i-1].NextReviewAt) {
			t.Errorf("due cards not sorted ascending at position %d", i)
		}
	}
}

func TestDueCardsAllFuture(t *testing.T) {
	now := testNow
	cards := []models.Flashcard{
		cardDueAt(now.Add(time.Minute)),
		cardDueAt(now.AddDate(0, 0, 5)),
	}

	if due := DueCards(cards, now); len(due) != 0 {
		t.Errorf("expected empty due set, got %d cards", len(due))
	}
}

// Ties keep stable input order.
func TestDueCardsStableTies(t *testing.T) {
	now := testNow
	at := now.AddDate(0, 0, -1)
	first := cardDueAt(at)
	second := cardDueAt(at)

	due := DueCards([]models.Flashcard{first, second}, now)
	if len(due) != 2 || due[0].ID != first.ID || due[1].ID != second.ID {
		t.Errorf("tie broke input order")
	}
}

func examAt(examType string, daysAhead int) models.ExamDate {
	return models.ExamDate{
		ID:       uuid.New(),
		Title:    examType + " exam",
		ExamType: examType,
		ExamDate: testNow.AddDate(0, 0, daysAhead),
	}
}

func TestUpcomingExamsWindow(t *testing.T) {
	exams := []models.ExamDate{
		examAt(models.ExamTypeMonthly, -1), // already past
		examAt(models.ExamTypeMonthly, 3),
		examAt(models.ExamTypeMidterm, 29),
		examAt(models.ExamTypeFinal, 45), // beyond window
	}

	upcoming := UpcomingExams(exams, testNow, 30)
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming exams, got %d", len(upcoming))
	}
}

func TestIntensiveMultiplier(t *testing.T) {
	tests := []struct {
		name  string
		exams []models.ExamDate
		want  float64
	}{
		{"no exams", nil, 1},
		{"exam outside window", []models.ExamDate{examAt(models.ExamTypeFinal, 10)}, 1},
		{"monthly within window", []models.ExamDate{examAt(models.ExamTypeMonthly, 3)}, 1.5},
		{"midterm within window", []models.ExamDate{examAt(models.ExamTypeMidterm, 5)}, 2},
		{"final within window", []models.ExamDate{examAt(models.ExamTypeFinal, 6)}, 3},
		{
			// A final outranks a midterm even when both are imminent.
			"final and midterm both within window",
			[]models.ExamDate{examAt(models.ExamTypeMidterm, 2), examAt(models.ExamTypeFinal, 6)},
			3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IntensiveMultiplier(tc.exams, testNow); got != tc.want {
				t.Errorf("expected multiplier %v, got %v", tc.want, got)
			}
		})
	}
}
