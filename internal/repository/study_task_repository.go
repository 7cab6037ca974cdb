package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/study-plan-api/internal/models"
)

const studyTaskSelect = `SELECT t.id, t.student_id, t.subject_id, COALESCE(s.name, '') AS subject_name,
t.scheduled_date, t.start_time, t.end_time, t.status, t.completed_duration_minutes, t.created_at, t.updated_at
FROM study_tasks t LEFT JOIN subjects s ON s.id = t.subject_id`

// StudyTaskRepository persists scheduled sessions. Methods taking a queryer
// run inside the caller's transaction when one is supplied.
type StudyTaskRepository struct {
	db *sqlx.DB
}

// NewStudyTaskRepository constructs the repository.
func NewStudyTaskRepository(db *sqlx.DB) *StudyTaskRepository {
	return &StudyTaskRepository{db: db}
}

func (r *StudyTaskRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListInRange returns sessions of any status with scheduled_date in [from, to].
func (r *StudyTaskRepository) ListInRange(ctx context.Context, exec sqlx.ExtContext, studentID string, from, to time.Time) ([]models.StudyTask, error) {
	const query = studyTaskSelect + ` WHERE t.student_id = $1 AND t.scheduled_date BETWEEN $2 AND $3
ORDER BY t.scheduled_date ASC, t.start_time ASC`
	var tasks []models.StudyTask
	if err := sqlx.SelectContext(ctx, r.exec(exec), &tasks, query, studentID, dateOnly(from), dateOnly(to)); err != nil {
		return nil, fmt.Errorf("list study tasks: %w", err)
	}
	return tasks, nil
}

// ListByDate returns the sessions stored for one calendar date.
func (r *StudyTaskRepository) ListByDate(ctx context.Context, exec sqlx.ExtContext, studentID string, date time.Time) ([]models.StudyTask, error) {
	const query = studyTaskSelect + ` WHERE t.student_id = $1 AND t.scheduled_date = $2 ORDER BY t.start_time ASC`
	var tasks []models.StudyTask
	if err := sqlx.SelectContext(ctx, r.exec(exec), &tasks, query, studentID, dateOnly(date)); err != nil {
		return nil, fmt.Errorf("list study tasks by date: %w", err)
	}
	return tasks, nil
}

// FindByID returns one session of a student.
func (r *StudyTaskRepository) FindByID(ctx context.Context, studentID, id string) (*models.StudyTask, error) {
	const query = studyTaskSelect + ` WHERE t.id = $1 AND t.student_id = $2`
	var task models.StudyTask
	if err := r.db.GetContext(ctx, &task, query, id, studentID); err != nil {
		return nil, err
	}
	return &task, nil
}

// Create inserts one session.
func (r *StudyTaskRepository) Create(ctx context.Context, exec sqlx.ExtContext, task *models.StudyTask) error {
	return r.BulkCreate(ctx, exec, []*models.StudyTask{task})
}

// BulkCreate inserts sessions in order, assigning ids and timestamps.
func (r *StudyTaskRepository) BulkCreate(ctx context.Context, exec sqlx.ExtContext, tasks []*models.StudyTask) error {
	if len(tasks) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `INSERT INTO study_tasks (id, student_id, subject_id, scheduled_date, start_time, end_time, status, completed_duration_minutes, created_at, updated_at)
VALUES (:id, :student_id, :subject_id, :scheduled_date, :start_time, :end_time, :status, :completed_duration_minutes, :created_at, :updated_at)`

	for _, task := range tasks {
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		if task.Status == "" {
			task.Status = models.StudyTaskStatusPending
		}
		task.ScheduledDate = dateOnly(task.ScheduledDate)
		task.CreatedAt = now
		task.UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, task); err != nil {
			return fmt.Errorf("create study task: %w", err)
		}
	}
	return nil
}

// Delete removes one session.
func (r *StudyTaskRepository) Delete(ctx context.Context, studentID, id string) error {
	const query = `DELETE FROM study_tasks WHERE id = $1 AND student_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, studentID)
	if err != nil {
		return fmt.Errorf("delete study task: %w", err)
	}
	return requireAffected(res)
}

// DeletePendingOnDate removes every Pending session of one date and returns how many were removed.
func (r *StudyTaskRepository) DeletePendingOnDate(ctx context.Context, studentID string, date time.Time) (int64, error) {
	const query = `DELETE FROM study_tasks WHERE student_id = $1 AND scheduled_date = $2 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, studentID, dateOnly(date), models.StudyTaskStatusPending)
	if err != nil {
		return 0, fmt.Errorf("clear study tasks: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// MarkCompleted flips a session to Completed with an optional actual duration.
func (r *StudyTaskRepository) MarkCompleted(ctx context.Context, studentID, id string, minutes *int) error {
	const query = `UPDATE study_tasks SET status = $1, completed_duration_minutes = $2, updated_at = $3
WHERE id = $4 AND student_id = $5`
	res, err := r.db.ExecContext(ctx, query, models.StudyTaskStatusCompleted, minutes, time.Now().UTC(), id, studentID)
	if err != nil {
		return fmt.Errorf("complete study task: %w", err)
	}
	return requireAffected(res)
}

// dateOnly maps a calendar day onto a UTC midnight so DATE columns never shift across zones.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
