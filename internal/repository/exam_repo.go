package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marwayahua/study-smart-egypt/internal/models"
)

type ExamRepo struct {
	pool *pgxpool.Pool
}

func NewExamRepo(pool *pgxpool.Pool) *ExamRepo {
	return &ExamRepo{pool: pool}
}

func (r *ExamRepo) Create(ctx context.Context, e *models.ExamDate) error {
	e.ID = uuid.New()

	query := `INSERT INTO exam_dates (id, user_id, title, exam_date, exam_type, subject)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		e.ID, e.UserID, e.Title, e.ExamDate, e.ExamType, e.Subject,
	).Scan(&e.CreatedAt)
}

func (r *ExamRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ExamDate, error) {
	query := `SELECT id, user_id, title, exam_date, exam_type, subject, created_at
		FROM exam_dates WHERE user_id = $1 ORDER BY exam_date ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []models.ExamDate
	for rows.Next() {
		e := models.ExamDate{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.ExamDate, &e.ExamType, &e.Subject, &e.CreatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

func (r *ExamRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM exam_dates WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
