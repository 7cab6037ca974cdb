package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-plan-api/internal/dto"
	"github.com/noah-isme/study-plan-api/internal/models"
	appErrors "github.com/noah-isme/study-plan-api/pkg/errors"
)

type examManagerMock struct {
	score dto.ExamScoreRequest
}

func (m *examManagerMock) List(ctx context.Context, teacherID, studentID string) ([]models.Exam, error) {
	return []models.Exam{{ID: "exam-1", StudentID: studentID}}, nil
}

func (m *examManagerMock) Create(ctx context.Context, teacherID, studentID string, req dto.CreateExamRequest) (*models.Exam, error) {
	return &models.Exam{ID: "exam-2", SubjectID: req.SubjectID, ImportanceLevel: req.ImportanceLevel}, nil
}

func (m *examManagerMock) SetScore(ctx context.Context, teacherID, studentID, examID string, req dto.ExamScoreRequest) (*models.Exam, error) {
	m.score = req
	return &models.Exam{ID: examID, Score: req.Score}, nil
}

func (m *examManagerMock) Delete(ctx context.Context, teacherID, studentID, examID string) error {
	return appErrors.Clone(appErrors.ErrNotFound, "exam not found")
}

func TestExamHandlerEndpoints(t *testing.T) {
	mock := &examManagerMock{}
	h := NewExamHandler(mock)
	examParams := append(gin.Params{{Key: "examId", Value: "exam-1"}}, studentParam...)

	c, w := newTestContext(http.MethodGet, "/", nil, teacherClaims, studentParam)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext(http.MethodPost, "/", []byte(`{"subject_id":"math","exam_date":"2024-05-20","importance_level":4}`), teacherClaims, studentParam)
	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"importance_level":4`)

	c, w = newTestContext(http.MethodPut, "/", []byte(`{"score":91}`), teacherClaims, examParams)
	h.Score(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mock.score.Score)
	assert.Equal(t, 91, *mock.score.Score)

	c, w = newTestContext(http.MethodDelete, "/", nil, teacherClaims, examParams)
	h.Delete(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type targetManagerMock struct{}

func (targetManagerMock) List(ctx context.Context, teacherID, studentID string) ([]models.WeeklyTarget, error) {
	return []models.WeeklyTarget{}, nil
}

func (targetManagerMock) Create(ctx context.Context, teacherID, studentID string, req dto.CreateWeeklyTargetRequest) (*models.WeeklyTarget, error) {
	return &models.WeeklyTarget{ID: "target-1", TargetHours: req.TargetHours}, nil
}

func (targetManagerMock) Delete(ctx context.Context, teacherID, studentID, targetID string) error {
	return nil
}

func TestWeeklyTargetHandlerEndpoints(t *testing.T) {
	h := NewWeeklyTargetHandler(targetManagerMock{})

	c, w := newTestContext(http.MethodGet, "/", nil, teacherClaims, studentParam)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)

	c, w = newTestContext(http.MethodPost, "/", []byte(`{"subject_id":"math","target_hours":5,"week_start_date":"2024-05-13"}`), teacherClaims, studentParam)
	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = newTestContext(http.MethodDelete, "/", nil, teacherClaims, append(gin.Params{{Key: "targetId", Value: "target-1"}}, studentParam...))
	h.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
}

type availabilityManagerMock struct {
	created dto.CreateAvailabilityRequest
}

func (m *availabilityManagerMock) List(ctx context.Context, userID string) ([]models.Availability, error) {
	return []models.Availability{}, nil
}

func (m *availabilityManagerMock) Create(ctx context.Context, userID string, req dto.CreateAvailabilityRequest) (*models.Availability, error) {
	m.created = req
	if req.EndTime <= req.StartTime {
		return nil, appErrors.FromRejection("INVALID_TIME_RANGE", "invalid time range")
	}
	return &models.Availability{ID: "av-1", StartTime: req.StartTime, EndTime: req.EndTime}, nil
}

func (m *availabilityManagerMock) Delete(ctx context.Context, userID, id string) error {
	return nil
}

func TestAvailabilityHandlerEndpoints(t *testing.T) {
	mock := &availabilityManagerMock{}
	h := NewAvailabilityHandler(mock)

	c, w := newTestContext(http.MethodPost, "/", []byte(`{"day_of_week":3,"start_time":"18:00","end_time":"20:00"}`), studentClaims, nil)
	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mock.created.DayOfWeek)
	assert.Equal(t, 3, *mock.created.DayOfWeek)

	c, w = newTestContext(http.MethodPost, "/", []byte(`{"day_of_week":3,"start_time":"20:00","end_time":"18:00"}`), studentClaims, nil)
	h.Create(c)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_TIME_RANGE", decode(t, w).Error.Code)

	c, w = newTestContext(http.MethodGet, "/", nil, studentClaims, nil)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext(http.MethodDelete, "/", nil, studentClaims, gin.Params{{Key: "id", Value: "av-1"}})
	h.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
}
