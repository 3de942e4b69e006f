package models

import (
	"time"

	"github.com/google/uuid"
)

type UserStats struct {
	UserID         uuid.UUID  `json:"user_id"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	TotalReviews   int        `json:"total_reviews"`
	CorrectReviews int        `json:"correct_reviews"`
	LastReviewDate *time.Time `json:"last_review_date"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// RetentionRate is the percentage of reviews rated as a successful
// recall, rounded to a whole number.
func (s *UserStats) RetentionRate() int {
	if s.TotalReviews == 0 {
		return 0
	}
	return int(float64(s.CorrectReviews)/float64(s.TotalReviews)*100 + 0.5)
}
