package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/study-plan-api/internal/models"
)

const studentProfileColumns = `id, user_id, teacher_id, full_name, grade_level, target_university`

// StudentProfileRepository reads student profiles and their teacher link.
type StudentProfileRepository struct {
	db *sqlx.DB
}

// NewStudentProfileRepository constructs the repository.
func NewStudentProfileRepository(db *sqlx.DB) *StudentProfileRepository {
	return &StudentProfileRepository{db: db}
}

// FindByID returns a profile by primary key.
func (r *StudentProfileRepository) FindByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	const query = `SELECT ` + studentProfileColumns + ` FROM student_profiles WHERE id = $1`
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUserID returns the profile owned by a student account.
func (r *StudentProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	const query = `SELECT ` + studentProfileColumns + ` FROM student_profiles WHERE user_id = $1`
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// LockForUpdate takes a row lock on the profile for the lifetime of tx,
// serialising plan and placement writes for one student.
func (r *StudentProfileRepository) LockForUpdate(ctx context.Context, tx sqlx.QueryerContext, id string) error {
	const query = `SELECT id FROM student_profiles WHERE id = $1 FOR UPDATE`
	var locked string
	return sqlx.GetContext(ctx, tx, &locked, query, id)
}
