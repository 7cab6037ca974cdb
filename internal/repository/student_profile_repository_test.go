package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentProfileRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentProfileRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "teacher_id", "full_name", "grade_level", "target_university"}).
		AddRow("student-1", "user-1", "teacher-1", "Budi", "12", nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, teacher_id, full_name, grade_level, target_university FROM student_profiles WHERE id = $1")).
		WithArgs("student-1").
		WillReturnRows(rows)

	profile, err := repo.FindByID(context.Background(), "student-1")
	require.NoError(t, err)
	assert.True(t, profile.SupervisedBy("teacher-1"))
	assert.False(t, profile.SupervisedBy("teacher-2"))
	assert.Nil(t, profile.TargetUniversity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentProfileRepositoryFindByUserIDMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentProfileRepository(db)

	mock.ExpectQuery("FROM student_profiles WHERE user_id").
		WithArgs("user-9").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUserID(context.Background(), "user-9")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStudentProfileRepositoryLockForUpdate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentProfileRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM student_profiles WHERE id = $1 FOR UPDATE")).
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("student-1"))
	mock.ExpectRollback()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.LockForUpdate(context.Background(), tx, "student-1"))
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
