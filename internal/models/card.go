package models

import (
	"time"

	"github.com/google/uuid"
)

type Flashcard struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	Subject        string     `json:"subject"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ReviewEvent is one completed review, inserted into history after each
// rating. It is append-only.
type ReviewEvent struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	CardID     uuid.UUID `json:"card_id"`
	Rating     string    `json:"rating"`
	Quality    int       `json:"quality"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

type CreateCardRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Subject  string `json:"subject"`
}

type CardRatingRequest struct {
	Rating string `json:"rating"` // "easy" | "confusing" | "almost" | "forgot"
}

type GenerateFlashcardsRequest struct {
	Topic   string `json:"topic"`
	Subject string `json:"subject"`
	Grade   string `json:"grade,omitempty"`
	Count   int    `json:"count"`
}

// GeneratedCard is one question/answer pair returned by the AI endpoint
// before the user accepts it into the collection.
type GeneratedCard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
