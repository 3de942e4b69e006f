package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marwayahua/study-smart-egypt/internal/models"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// Get returns the user's stats row, creating a zeroed one on first use.
func (r *StatsRepo) Get(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	s := &models.UserStats{}
	query := `SELECT user_id, current_streak, longest_streak, total_reviews, correct_reviews, last_review_date, updated_at
		FROM user_stats WHERE user_id = $1`

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.CurrentStreak, &s.LongestStreak, &s.TotalReviews, &s.CorrectReviews, &s.LastReviewDate, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.createDefault(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StatsRepo) createDefault(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	s := &models.UserStats{UserID: userID}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO user_stats (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING updated_at`,
		userID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// RecordReview folds one review outcome into the streak and retention
// counters. Reviewing more than once on the same day does not extend
// the streak; skipping a day resets it.
func (r *StatsRepo) RecordReview(ctx context.Context, userID uuid.UUID, correct bool, reviewedAt time.Time) error {
	s, err := r.Get(ctx, userID)
	if err != nil {
		return err
	}

	streak := AdvanceStreak(s.CurrentStreak, s.LastReviewDate, reviewedAt)
	longest := s.LongestStreak
	if streak > longest {
		longest = streak
	}

	correctDelta := 0
	if correct {
		correctDelta = 1
	}

	_, err = r.pool.Exec(ctx, `
		UPDATE user_stats
		SET current_streak = $1,
			longest_streak = $2,
			total_reviews = total_reviews + 1,
			correct_reviews = correct_reviews + $3,
			last_review_date = $4,
			updated_at = NOW()
		WHERE user_id = $5
	`, streak, longest, correctDelta, reviewedAt, userID)
	return err
}

// AdvanceStreak computes the new daily streak given the previous review
// date: same day keeps it, the day after extends it, anything else
// restarts at one.
func AdvanceStreak(current int, last *time.Time, today time.Time) int {
	if last == nil {
		return 1
	}

	lastDay := last.UTC().Truncate(24 * time.Hour)
	thisDay := today.UTC().Truncate(24 * time.Hour)

	switch thisDay.Sub(lastDay) {
	case 0:
		if current == 0 {
			return 1
		}
		return current
	case 24 * time.Hour:
		return current + 1
	default:
		return 1
	}
}
