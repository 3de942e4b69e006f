package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ExamTypeMonthly = "monthly"
	ExamTypeMidterm = "midterm"
	ExamTypeFinal   = "final"
)

// ExamDate is immutable once created except for deletion. The scheduler
// only ever reads it.
type ExamDate struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	ExamDate  time.Time `json:"exam_date"`
	ExamType  string    `json:"exam_type"` // "monthly" | "midterm" | "final"
	Subject   *string   `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateExamRequest struct {
	Title    string  `json:"title"`
	ExamDate string  `json:"exam_date"` // YYYY-MM-DD
	ExamType string  `json:"exam_type"`
	Subject  *string `json:"subject,omitempty"`
}
