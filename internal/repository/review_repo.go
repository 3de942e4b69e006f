package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marwayahua/study-smart-egypt/internal/models"
)

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

func (r *ReviewRepo) Insert(ctx context.Context, ev models.ReviewEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO review_history (id, user_id, card_id, rating, quality, reviewed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), ev.UserID, ev.CardID, ev.Rating, ev.Quality, ev.ReviewedAt,
	)
	return err
}

func (r *ReviewRepo) ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]models.ReviewEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, user_id, card_id, rating, quality, reviewed_at
		FROM review_history WHERE card_id = $1 ORDER BY reviewed_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, cardID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.ReviewEvent
	for rows.Next() {
		ev := models.ReviewEvent{}
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.CardID, &ev.Rating, &ev.Quality, &ev.ReviewedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
