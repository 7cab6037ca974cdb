package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-plan-api/internal/dto"
	"github.com/noah-isme/study-plan-api/internal/models"
)

func newStudyTaskServiceForTest(t *testing.T, tx txProvider, tasks *taskStoreStub) *StudyTaskService {
	t.Helper()
	return NewStudyTaskService(
		NewStudentAccess(defaultProfiles(), nil),
		tasks,
		defaultSubjects(),
		wednesdayEvening(),
		&lockerStub{},
		tx,
		nil,
		NewMetricsService(),
		fixedClock(fixedNow),
		nil,
		nil,
	)
}

func pendingTask(id string, date time.Time, start, end models.TimeOfDay) models.StudyTask {
	return models.StudyTask{ID: id, StudentID: "student-1", SubjectID: "math", ScheduledDate: date, StartTime: start, EndTime: end, Status: models.StudyTaskStatusPending}
}

func TestStudyTaskServiceCreateAcceptsFreeSlot(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	tasks := &taskStoreStub{tasks: []models.StudyTask{pendingTask("t-1", day(7), tod(18, 0), tod(19, 0))}}
	svc := newStudyTaskServiceForTest(t, tx, tasks)

	mock.ExpectBegin()
	mock.ExpectCommit()

	task, err := svc.Create(context.Background(), "teacher-1", "student-1", dto.CreateStudyTaskRequest{
		SubjectID:     "physics",
		ScheduledDate: "2024-05-22",
		StartTime:     tod(19, 0),
		EndTime:       tod(20, 0),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, models.StudyTaskStatusPending, task.Status)
	assert.Equal(t, "Physics", task.SubjectName)
	assert.Len(t, tasks.tasks, 2)
}

func TestStudyTaskServiceCreateRejections(t *testing.T) {
	cases := []struct {
		name   string
		start  models.TimeOfDay
		end    models.TimeOfDay
		code   string
		status int
	}{
		{name: "inverted range", start: tod(19, 0), end: tod(18, 0), code: "INVALID_TIME_RANGE", status: http.StatusUnprocessableEntity},
		{name: "outside availability", start: tod(17, 0), end: tod(18, 0), code: "OUTSIDE_AVAILABILITY", status: http.StatusUnprocessableEntity},
		{name: "overlap", start: tod(18, 30), end: tod(19, 30), code: "COLLISION", status: http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx, mock := newTxProviderMock(t)
			tasks := &taskStoreStub{tasks: []models.StudyTask{pendingTask("t-1", day(7), tod(18, 0), tod(19, 0))}}
			svc := newStudyTaskServiceForTest(t, tx, tasks)

			mock.ExpectBegin()
			mock.ExpectRollback()

			_, err := svc.Create(context.Background(), "teacher-1", "student-1", dto.CreateStudyTaskRequest{
				SubjectID:     "math",
				ScheduledDate: "2024-05-22",
				StartTime:     tc.start,
				EndTime:       tc.end,
			})
			requireAppError(t, err, tc.code, tc.status)
			require.NoError(t, mock.ExpectationsWereMet())
			assert.Len(t, tasks.tasks, 1)
		})
	}
}

func TestStudyTaskServiceCreateValidatesPayload(t *testing.T) {
	svc := newStudyTaskServiceForTest(t, nil, &taskStoreStub{})

	_, err := svc.Create(context.Background(), "teacher-1", "student-1", dto.CreateStudyTaskRequest{SubjectID: "math", ScheduledDate: "22/05/2024"})
	requireAppError(t, err, "VALIDATION_ERROR", http.StatusBadRequest)

	_, err = svc.Create(context.Background(), "teacher-1", "student-1", dto.CreateStudyTaskRequest{SubjectID: "chemistry", ScheduledDate: "2024-05-22", StartTime: tod(18, 0), EndTime: tod(19, 0)})
	requireAppError(t, err, "NOT_FOUND", http.StatusNotFound)
}

func TestStudyTaskServiceDeletePolicy(t *testing.T) {
	completed := pendingTask("t-done", day(2), tod(18, 0), tod(19, 0))
	completed.Status = models.StudyTaskStatusCompleted
	tasks := &taskStoreStub{tasks: []models.StudyTask{
		pendingTask("t-today", day(0), tod(18, 0), tod(19, 0)),
		pendingTask("t-tomorrow", day(1), tod(18, 0), tod(19, 0)),
		completed,
	}}
	svc := newStudyTaskServiceForTest(t, nil, tasks)
	ctx := context.Background()

	requireAppError(t, svc.Delete(ctx, "teacher-1", "student-1", "t-today"), "NOT_DELETABLE", http.StatusUnprocessableEntity)
	requireAppError(t, svc.Delete(ctx, "teacher-1", "student-1", "t-done"), "NOT_DELETABLE", http.StatusUnprocessableEntity)
	requireAppError(t, svc.Delete(ctx, "teacher-1", "student-1", "missing"), "NOT_FOUND", http.StatusNotFound)
	require.NoError(t, svc.Delete(ctx, "teacher-1", "student-1", "t-tomorrow"))

	assert.Len(t, tasks.tasks, 2)
}

func TestStudyTaskServiceClearDay(t *testing.T) {
	completed := pendingTask("t-done", day(2), tod(19, 0), tod(20, 0))
	completed.Status = models.StudyTaskStatusCompleted
	tasks := &taskStoreStub{tasks: []models.StudyTask{
		pendingTask("t-1", day(2), tod(18, 0), tod(19, 0)),
		completed,
		pendingTask("t-3", day(3), tod(18, 0), tod(19, 0)),
	}}
	svc := newStudyTaskServiceForTest(t, nil, tasks)

	resp, err := svc.ClearDay(context.Background(), "teacher-1", "student-1", dto.ClearDayRequest{Date: "2024-05-17"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Removed)
	assert.Len(t, tasks.tasks, 2)

	_, err = svc.ClearDay(context.Background(), "teacher-1", "student-1", dto.ClearDayRequest{Date: "2024-05-15"})
	requireAppError(t, err, "NOT_DELETABLE", http.StatusUnprocessableEntity)
}

func TestStudyTaskServiceMarkComplete(t *testing.T) {
	tasks := &taskStoreStub{tasks: []models.StudyTask{pendingTask("t-1", day(0), tod(18, 0), tod(19, 0))}}
	svc := newStudyTaskServiceForTest(t, nil, tasks)

	task, err := svc.MarkComplete(context.Background(), "user-1", "t-1", dto.CompleteTaskRequest{CompletedDurationMinutes: intPtr(45)})
	require.NoError(t, err)
	assert.Equal(t, models.StudyTaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedDurationMinutes)
	assert.Equal(t, 45, *task.CompletedDurationMinutes)

	_, err = svc.MarkComplete(context.Background(), "user-2", "t-1", dto.CompleteTaskRequest{})
	requireAppError(t, err, "NOT_FOUND", http.StatusNotFound)
}
