package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-plan-api/internal/dto"
	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/pkg/signing"
)

type planFixture struct {
	svc    *PlanService
	tasks  *taskStoreStub
	exams  *examStub
	locker *lockerStub
	cache  *cacheRepoStub
	now    *time.Time
}

func newPlanFixture(t *testing.T, tx txProvider) *planFixture {
	t.Helper()
	now := fixedNow
	f := &planFixture{
		tasks:  &taskStoreStub{},
		exams:  &examStub{},
		locker: &lockerStub{},
		cache:  newCacheRepoStub(),
		now:    &now,
	}
	f.svc = NewPlanService(PlanServiceDeps{
		Access:       NewStudentAccess(defaultProfiles(), nil),
		Tasks:        f.tasks,
		Subjects:     defaultSubjects(),
		Exams:        f.exams,
		Availability: wednesdayEvening(),
		Locker:       f.locker,
		Tx:           tx,
		Signer:       signing.NewSigner("test-secret", 30*time.Minute),
		Cache:        NewCacheService(f.cache, nil, time.Minute, nil, true),
		Metrics:      NewMetricsService(),
		Clock:        func() time.Time { return *f.now },
	})
	return f
}

func TestPlanServicePreviewProposesNextWeek(t *testing.T) {
	f := newPlanFixture(t, nil)

	preview, err := f.svc.Preview(context.Background(), "teacher-1", "student-1")
	require.NoError(t, err)

	require.Len(t, preview.Sessions, 2)
	assert.Equal(t, "2024-05-22", preview.Sessions[0].Date)
	assert.Equal(t, tod(18, 0), preview.Sessions[0].StartTime)
	assert.Equal(t, tod(19, 0), preview.Sessions[0].EndTime)
	assert.Equal(t, "math", preview.Sessions[0].SubjectID)
	assert.Equal(t, "physics", preview.Sessions[1].SubjectID)
	assert.Equal(t, map[string]int{"math": 1, "physics": 1}, preview.Weights)
	assert.NotEmpty(t, preview.Snapshot)
	assert.Equal(t, fixedNow.Add(30*time.Minute), preview.ExpiresAt)
	assert.Empty(t, f.tasks.tasks, "preview must not persist")
}

func TestPlanServicePreviewRejectsWhenPlanExists(t *testing.T) {
	f := newPlanFixture(t, nil)
	f.tasks.tasks = []models.StudyTask{{ID: "t", StudentID: "student-1", SubjectID: "math", ScheduledDate: day(3), StartTime: tod(18, 0), EndTime: tod(19, 0), Status: models.StudyTaskStatusPending}}

	_, err := f.svc.Preview(context.Background(), "teacher-1", "student-1")
	appErr := requireAppError(t, err, "PLAN_EXISTS", http.StatusConflict)
	assert.Equal(t, "plan already exists for upcoming week", appErr.Message)
}

func TestPlanServicePreviewRejectsWithoutAvailability(t *testing.T) {
	f := newPlanFixture(t, nil)

	_, err := f.svc.Preview(context.Background(), "teacher-9", "student-3")
	requireAppError(t, err, "NO_AVAILABILITY", http.StatusUnprocessableEntity)
}

func TestPlanServicePreviewHidesForeignStudents(t *testing.T) {
	f := newPlanFixture(t, nil)

	_, err := f.svc.Preview(context.Background(), "teacher-1", "student-3")
	requireAppError(t, err, "NOT_FOUND", http.StatusNotFound)

	_, err = f.svc.Preview(context.Background(), "teacher-1", "missing")
	requireAppError(t, err, "NOT_FOUND", http.StatusNotFound)
}

func TestPlanServiceCommitPersistsPreview(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPlanFixture(t, tx)
	f.cache.entries["schedule:student-1:2024-05-20"] = []byte(`{}`)

	preview, err := f.svc.Preview(context.Background(), "teacher-1", "student-1")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := f.svc.Commit(context.Background(), "teacher-1", "student-1", dto.CommitPlanRequest{Snapshot: preview.Snapshot})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 2, resp.Created)
	require.Len(t, f.tasks.tasks, 2)
	for i, task := range f.tasks.tasks {
		assert.Equal(t, preview.Sessions[i].SubjectID, task.SubjectID)
		assert.Equal(t, preview.Sessions[i].StartTime, task.StartTime)
		assert.Equal(t, models.StudyTaskStatusPending, task.Status)
		assert.Equal(t, day(7), task.ScheduledDate)
	}
	assert.Equal(t, 1, f.locker.calls)
	assert.Empty(t, f.cache.entries, "commit invalidates the student's cached weeks")
}

func TestPlanServiceCommitTwiceRejectsSecond(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPlanFixture(t, tx)

	preview, err := f.svc.Preview(context.Background(), "teacher-1", "student-1")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = f.svc.Commit(context.Background(), "teacher-1", "student-1", dto.CommitPlanRequest{Snapshot: preview.Snapshot})
	require.NoError(t, err)
	_, err = f.svc.Commit(context.Background(), "teacher-1", "student-1", dto.CommitPlanRequest{Snapshot: preview.Snapshot})
	requireAppError(t, err, "PLAN_EXISTS", http.StatusConflict)

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Len(t, f.tasks.tasks, 2)
}

func TestPlanServiceCommitRollsBackOnInsertFailure(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPlanFixture(t, tx)
	f.tasks.failBulk = errors.New("insert failed")

	preview, err := f.svc.Preview(context.Background(), "teacher-1", "student-1")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = f.svc.Commit(context.Background(), "teacher-1", "student-1", dto.CommitPlanRequest{Snapshot: preview.Snapshot})
	requireAppError(t, err, "INTERNAL_ERROR", http.StatusInternalServerError)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, f.tasks.tasks)
}

func TestPlanServiceCommitRejectsBadSnapshots(t *testing.T) {
	f := newPlanFixture(t, nil)
	preview, err := f.svc.Preview(context.Background(), "teacher-1", "student-1")
	require.NoError(t, err)

	t.Run("tampered", func(t *testing.T) {
		token := []byte(preview.Snapshot)
		token[0] ^= 0x01
		_, err := f.svc.Commit(context.Background(), "teacher-1", "student-1", dto.CommitPlanRequest{Snapshot: string(token)})
		requireAppError(t, err, "INVALID_SNAPSHOT", http.StatusBadRequest)
	})

	t.Run("other student", func(t *testing.T) {
		_, err := f.svc.Commit(context.Background(), "teacher-1", "student-2", dto.CommitPlanRequest{Snapshot: preview.Snapshot})
		requireAppError(t, err, "INVALID_SNAPSHOT", http.StatusBadRequest)
	})

	t.Run("expired", func(t *testing.T) {
		*f.now = fixedNow.Add(31 * time.Minute)
		defer func() { *f.now = fixedNow }()
		_, err := f.svc.Commit(context.Background(), "teacher-1", "student-1", dto.CommitPlanRequest{Snapshot: preview.Snapshot})
		requireAppError(t, err, "SNAPSHOT_EXPIRED", http.StatusGone)
	})

	assert.Empty(t, f.tasks.tasks)
	assert.Zero(t, f.locker.calls)
}
