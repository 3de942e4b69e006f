package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marwayahua/study-smart-egypt/internal/models"
)

type CardRepo struct {
	pool *pgxpool.Pool
}

func NewCardRepo(pool *pgxpool.Pool) *CardRepo {
	return &CardRepo{pool: pool}
}

func (r *CardRepo) Create(ctx context.Context, c *models.Flashcard) error {
	c.ID = uuid.New()

	query := `INSERT INTO flashcards (id, user_id, question, answer, subject, ease_factor, interval_days, repetitions, next_review_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		c.ID, c.UserID, c.Question, c.Answer, c.Subject,
		c.EaseFactor, c.IntervalDays, c.Repetitions, c.NextReviewAt,
	).Scan(&c.CreatedAt)
}

// CreateBatch inserts AI-generated cards in one transaction: either the
// whole set is accepted or none of it is.
func (r *CardRepo) CreateBatch(ctx context.Context, cards []models.Flashcard) error {
	if len(cards) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range cards {
		cards[i].ID = uuid.New()
		_, err := tx.Exec(ctx,
			`INSERT INTO flashcards (id, user_id, question, answer, subject, ease_factor, interval_days, repetitions, next_review_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			cards[i].ID, cards[i].UserID, cards[i].Question, cards[i].Answer, cards[i].Subject,
			cards[i].EaseFactor, cards[i].IntervalDays, cards[i].Repetitions, cards[i].NextReviewAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListByUser returns the user's full collection ordered most-overdue
// first, the order the due-set selector expects.
func (r *CardRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Flashcard, error) {
	query := `SELECT id, user_id, question, answer, subject, ease_factor, interval_days, repetitions, next_review_at, last_reviewed_at, created_at
		FROM flashcards WHERE user_id = $1 ORDER BY next_review_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		c := models.Flashcard{}
		err := rows.Scan(
			&c.ID, &c.UserID, &c.Question, &c.Answer, &c.Subject,
			&c.EaseFactor, &c.IntervalDays, &c.Repetitions, &c.NextReviewAt, &c.LastReviewedAt, &c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *CardRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Flashcard, error) {
	c := &models.Flashcard{}
	query := `SELECT id, user_id, question, answer, subject, ease_factor, interval_days, repetitions, next_review_at, last_reviewed_at, created_at
		FROM flashcards WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Question, &c.Answer, &c.Subject,
		&c.EaseFactor, &c.IntervalDays, &c.Repetitions, &c.NextReviewAt, &c.LastReviewedAt, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateScheduling persists the four scheduling fields after a review.
// Content fields are never touched here.
func (r *CardRepo) UpdateScheduling(ctx context.Context, c models.Flashcard) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE flashcards SET ease_factor = $1, interval_days = $2, repetitions = $3,
		 next_review_at = $4, last_reviewed_at = $5 WHERE id = $6`,
		c.EaseFactor, c.IntervalDays, c.Repetitions, c.NextReviewAt, c.LastReviewedAt, c.ID,
	)
	return err
}

func (r *CardRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM flashcards WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
