package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/study-plan-api/internal/models"
)

// AvailabilityRepository persists weekly availability windows.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs the repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListByStudent returns every window of a student, available or not.
func (r *AvailabilityRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Availability, error) {
	const query = `SELECT id, student_id, day_of_week, start_time, end_time, is_available
FROM availabilities WHERE student_id = $1 ORDER BY day_of_week ASC, start_time ASC`
	var windows []models.Availability
	if err := r.db.SelectContext(ctx, &windows, query, studentID); err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	return windows, nil
}

// Create inserts a window.
func (r *AvailabilityRepository) Create(ctx context.Context, window *models.Availability) error {
	if window.ID == "" {
		window.ID = uuid.NewString()
	}
	const query = `INSERT INTO availabilities (id, student_id, day_of_week, start_time, end_time, is_available)
VALUES (:id, :student_id, :day_of_week, :start_time, :end_time, :is_available)`
	if _, err := r.db.NamedExecContext(ctx, query, window); err != nil {
		return fmt.Errorf("create availability: %w", err)
	}
	return nil
}

// Delete removes a window owned by the student. Missing rows yield sql.ErrNoRows.
func (r *AvailabilityRepository) Delete(ctx context.Context, studentID, id string) error {
	const query = `DELETE FROM availabilities WHERE id = $1 AND student_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, studentID)
	if err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
