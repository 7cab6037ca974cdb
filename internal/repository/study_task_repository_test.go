package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-plan-api/internal/models"
)

var studyTaskColumns = []string{"id", "student_id", "subject_id", "subject_name", "scheduled_date", "start_time", "end_time", "status", "completed_duration_minutes", "created_at", "updated_at"}

func TestStudyTaskRepositoryListInRange(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudyTaskRepository(db)

	from := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	now := time.Now()
	rows := sqlmock.NewRows(studyTaskColumns).
		AddRow("task-1", "student-1", "math", "Math", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), "18:00:00", "19:00:00", "PENDING", nil, now, now)
	mock.ExpectQuery(`FROM study_tasks t LEFT JOIN subjects s ON s.id = t.subject_id WHERE t.student_id = \$1 AND t.scheduled_date BETWEEN \$2 AND \$3`).
		WithArgs("student-1", from, to).
		WillReturnRows(rows)

	tasks, err := repo.ListInRange(context.Background(), nil, "student-1", from, to)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Math", tasks[0].SubjectName)
	assert.Equal(t, models.NewTimeOfDay(18, 0), tasks[0].StartTime)
	assert.Equal(t, models.StudyTaskStatusPending, tasks[0].Status)
	assert.Nil(t, tasks[0].CompletedDurationMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudyTaskRepositoryBulkCreateInTransaction(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudyTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO study_tasks").
		WithArgs(sqlmock.AnyArg(), "student-1", "math", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), "18:00:00", "19:00:00", "PENDING", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO study_tasks").
		WithArgs(sqlmock.AnyArg(), "student-1", "math", sqlmock.AnyArg(), "19:00:00", "20:00:00", "PENDING", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	local := time.FixedZone("WIB", 7*3600)
	tasks := []*models.StudyTask{
		{StudentID: "student-1", SubjectID: "math", ScheduledDate: time.Date(2024, 3, 13, 0, 0, 0, 0, local), StartTime: models.NewTimeOfDay(18, 0), EndTime: models.NewTimeOfDay(19, 0)},
		{StudentID: "student-1", SubjectID: "math", ScheduledDate: time.Date(2024, 3, 13, 0, 0, 0, 0, local), StartTime: models.NewTimeOfDay(19, 0), EndTime: models.NewTimeOfDay(20, 0)},
	}
	require.NoError(t, repo.BulkCreate(context.Background(), tx, tasks))
	require.NoError(t, tx.Commit())

	for _, task := range tasks {
		assert.NotEmpty(t, task.ID)
		assert.Equal(t, models.StudyTaskStatusPending, task.Status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudyTaskRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudyTaskRepository(db)

	mock.ExpectExec(`DELETE FROM study_tasks WHERE id = \$1 AND student_id = \$2`).
		WithArgs("task-1", "student-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "student-1", "task-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudyTaskRepositoryDeletePendingOnDate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudyTaskRepository(db)

	date := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`DELETE FROM study_tasks WHERE student_id = \$1 AND scheduled_date = \$2 AND status = \$3`).
		WithArgs("student-1", date, "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := repo.DeletePendingOnDate(context.Background(), "student-1", date)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudyTaskRepositoryMarkCompleted(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudyTaskRepository(db)

	minutes := 45
	mock.ExpectExec("UPDATE study_tasks SET status").
		WithArgs("COMPLETED", int64(45), sqlmock.AnyArg(), "task-1", "student-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkCompleted(context.Background(), "student-1", "task-1", &minutes))
	assert.NoError(t, mock.ExpectationsWereMet())
}
