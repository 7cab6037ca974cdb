package service

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-plan-api/internal/models"
)

func newExportServiceForTest() *ExportService {
	tasks := &taskStoreStub{tasks: []models.StudyTask{pendingTask("t-1", day(1), tod(18, 0), tod(19, 0))}}
	tasks.tasks[0].SubjectName = "Mathematics"
	exams := &examStub{exams: []models.Exam{{ID: "e-1", StudentID: "student-1", SubjectID: "physics", ExamDate: day(2), ImportanceLevel: 5}}}
	return NewExportService(newScheduleQueryForTest(tasks, exams, nil), nil, nil, nil)
}

func TestExportServiceWeekCSV(t *testing.T) {
	svc := newExportServiceForTest()

	out, err := svc.Week(context.Background(), "teacher-1", "student-1", "2024-05-15", "CSV")
	require.NoError(t, err)

	assert.Equal(t, "schedule_student-1_2024-05-13.csv", out.Filename)
	assert.Equal(t, "text/csv", out.ContentType)
	body := string(out.Body)
	assert.Contains(t, body, "2024-05-16,Thursday,18:00,19:00,Mathematics,PENDING")
	assert.Contains(t, body, "2024-05-17,physics,5,-")
	assert.True(t, strings.Contains(body, "# Subject hours"))
}

func TestExportServiceWeekPDF(t *testing.T) {
	svc := newExportServiceForTest()

	out, err := svc.Week(context.Background(), "teacher-1", "student-1", "", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.True(t, bytes.HasPrefix(out.Body, []byte("%PDF")))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newExportServiceForTest()

	_, err := svc.Week(context.Background(), "teacher-1", "student-1", "", "xlsx")
	requireAppError(t, err, "VALIDATION_ERROR", http.StatusBadRequest)

	_, err = svc.Week(context.Background(), "teacher-9", "student-1", "", "csv")
	requireAppError(t, err, "NOT_FOUND", http.StatusNotFound)
}
