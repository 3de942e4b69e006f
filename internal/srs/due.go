package srs

import (
	"sort"
	"time"

	"github.com/marwayahua/study-smart-egypt/internal/models"
)

// ExamWindowDays is how far ahead the intensive-review computation looks.
const ExamWindowDays = 7

// DueCards returns the cards whose next review time has passed, most
// overdue first. Ties keep the input order. The input slice is not
// modified; call again for a fresh snapshot.
func DueCards(cards []models.Flashcard, now time.Time) []models.Flashcard {
	var due []models.Flashcard
	for _, c := range cards {
		if !c.NextReviewAt.After(now) {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextReviewAt.Before(due[j].NextReviewAt)
	})

	return due
}

// UpcomingExams returns the exams falling within [now, now+windowDays].
func UpcomingExams(exams []models.ExamDate, now time.Time, windowDays int) []models.ExamDate {
	cutoff := now.AddDate(0, 0, windowDays)

	var upcoming []models.ExamDate
	for _, e := range exams {
		if !e.ExamDate.Before(now) && !e.ExamDate.After(cutoff) {
			upcoming = append(upcoming, e)
		}
	}
	return upcoming
}

// IntensiveMultiplier suggests how aggressively review volume should be
// scaled based on exams within the next seven days: 3x ahead of a final,
// 2x ahead of a midterm, 1.5x for any other exam, otherwise 1. Advisory
// only; the scheduler itself never pulls extra cards.
func IntensiveMultiplier(exams []models.ExamDate, now time.Time) float64 {
	upcoming := UpcomingExams(exams, now, ExamWindowDays)

	hasFinal, hasMidterm := false, false
	for _, e := range upcoming {
		switch e.ExamType {
		case models.ExamTypeFinal:
			hasFinal = true
		case models.ExamTypeMidterm:
			hasMidterm = true
		}
	}

	switch {
	case hasFinal:
		return 3
	case hasMidterm:
		return 2
	case len(upcoming) > 0:
		return 1.5
	default:
		return 1
	}
}
