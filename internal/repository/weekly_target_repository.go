package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/study-plan-api/internal/models"
)

// WeeklyTargetRepository persists informational hour targets.
type WeeklyTargetRepository struct {
	db *sqlx.DB
}

// NewWeeklyTargetRepository constructs the repository.
func NewWeeklyTargetRepository(db *sqlx.DB) *WeeklyTargetRepository {
	return &WeeklyTargetRepository{db: db}
}

// ListByStudent returns targets newest week first.
func (r *WeeklyTargetRepository) ListByStudent(ctx context.Context, studentID string) ([]models.WeeklyTarget, error) {
	const query = `SELECT w.id, w.student_id, w.subject_id, COALESCE(s.name, '') AS subject_name,
w.target_hours, w.week_start_date, w.created_at
FROM weekly_targets w LEFT JOIN subjects s ON s.id = w.subject_id
WHERE w.student_id = $1 ORDER BY w.week_start_date DESC, s.name ASC`
	var targets []models.WeeklyTarget
	if err := r.db.SelectContext(ctx, &targets, query, studentID); err != nil {
		return nil, fmt.Errorf("list weekly targets: %w", err)
	}
	return targets, nil
}

// Create inserts a target.
func (r *WeeklyTargetRepository) Create(ctx context.Context, target *models.WeeklyTarget) error {
	if target.ID == "" {
		target.ID = uuid.NewString()
	}
	if target.CreatedAt.IsZero() {
		target.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO weekly_targets (id, student_id, subject_id, target_hours, week_start_date, created_at)
VALUES (:id, :student_id, :subject_id, :target_hours, :week_start_date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, target); err != nil {
		return fmt.Errorf("create weekly target: %w", err)
	}
	return nil
}

// Delete removes a target.
func (r *WeeklyTargetRepository) Delete(ctx context.Context, studentID, id string) error {
	const query = `DELETE FROM weekly_targets WHERE id = $1 AND student_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, studentID)
	if err != nil {
		return fmt.Errorf("delete weekly target: %w", err)
	}
	return requireAffected(res)
}
