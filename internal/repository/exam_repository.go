package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/study-plan-api/internal/models"
)

const examSelect = `SELECT e.id, e.student_id, e.subject_id, COALESCE(s.name, '') AS subject_name,
e.exam_date, e.importance_level, e.score
FROM exams e LEFT JOIN subjects s ON s.id = e.subject_id`

// ExamRepository persists exam records.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs the repository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// ListByStudent returns all exams of a student ordered by date.
func (r *ExamRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Exam, error) {
	const query = examSelect + ` WHERE e.student_id = $1 ORDER BY e.exam_date ASC`
	var exams []models.Exam
	if err := r.db.SelectContext(ctx, &exams, query, studentID); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// ListInRange returns exams with exam_date in [from, to].
func (r *ExamRepository) ListInRange(ctx context.Context, studentID string, from, to time.Time) ([]models.Exam, error) {
	const query = examSelect + ` WHERE e.student_id = $1 AND e.exam_date BETWEEN $2 AND $3 ORDER BY e.exam_date ASC`
	var exams []models.Exam
	if err := r.db.SelectContext(ctx, &exams, query, studentID, from, to); err != nil {
		return nil, fmt.Errorf("list exams in range: %w", err)
	}
	return exams, nil
}

// FindByID returns one exam of a student.
func (r *ExamRepository) FindByID(ctx context.Context, studentID, id string) (*models.Exam, error) {
	const query = examSelect + ` WHERE e.id = $1 AND e.student_id = $2`
	var exam models.Exam
	if err := r.db.GetContext(ctx, &exam, query, id, studentID); err != nil {
		return nil, err
	}
	return &exam, nil
}

// Create inserts an exam.
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	const query = `INSERT INTO exams (id, student_id, subject_id, exam_date, importance_level, score)
VALUES (:id, :student_id, :subject_id, :exam_date, :importance_level, :score)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// UpdateScore records a graded score.
func (r *ExamRepository) UpdateScore(ctx context.Context, studentID, id string, score int) error {
	const query = `UPDATE exams SET score = $1 WHERE id = $2 AND student_id = $3`
	res, err := r.db.ExecContext(ctx, query, score, id, studentID)
	if err != nil {
		return fmt.Errorf("update exam score: %w", err)
	}
	return requireAffected(res)
}

// Delete removes an exam.
func (r *ExamRepository) Delete(ctx context.Context, studentID, id string) error {
	const query = `DELETE FROM exams WHERE id = $1 AND student_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, studentID)
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return requireAffected(res)
}
