package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-plan-api/internal/dto"
	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/pkg/response"
)

type examManager interface {
	List(ctx context.Context, teacherID, studentID string) ([]models.Exam, error)
	Create(ctx context.Context, teacherID, studentID string, req dto.CreateExamRequest) (*models.Exam, error)
	SetScore(ctx context.Context, teacherID, studentID, examID string, req dto.ExamScoreRequest) (*models.Exam, error)
	Delete(ctx context.Context, teacherID, studentID, examID string) error
}

// ExamHandler manages a student's exams.
type ExamHandler struct {
	service examManager
}

// NewExamHandler constructs the handler.
func NewExamHandler(svc examManager) *ExamHandler {
	return &ExamHandler{service: svc}
}

// List godoc
// @Summary List exams of a supervised student
// @Tags Exams
// @Produce json
// @Param studentId path string true "Student profile ID"
// @Success 200 {object} response.Envelope
// @Router /teacher/students/{studentId}/exams [get]
func (h *ExamHandler) List(c *gin.Context) {
	teacherID, ok := currentUserID(c)
	if !ok {
		return
	}
	exams, err := h.service.List(c.Request.Context(), teacherID, c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exams)
}

// Create godoc
// @Summary Record an exam
// @Tags Exams
// @Accept json
// @Produce json
// @Param studentId path string true "Student profile ID"
// @Param payload body dto.CreateExamRequest true "Exam payload"
// @Success 201 {object} response.Envelope
// @Router /teacher/students/{studentId}/exams [post]
func (h *ExamHandler) Create(c *gin.Context) {
	teacherID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CreateExamRequest
	if !bindJSON(c, &req, "invalid exam payload") {
		return
	}
	exam, err := h.service.Create(c.Request.Context(), teacherID, c.Param("studentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exam)
}

// Score godoc
// @Summary Grade an exam
// @Tags Exams
// @Accept json
// @Produce json
// @Param studentId path string true "Student profile ID"
// @Param examId path string true "Exam ID"
// @Param payload body dto.ExamScoreRequest true "Score 0-100"
// @Success 200 {object} response.Envelope
// @Router /teacher/students/{studentId}/exams/{examId}/score [put]
func (h *ExamHandler) Score(c *gin.Context) {
	teacherID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.ExamScoreRequest
	if !bindJSON(c, &req, "invalid score payload") {
		return
	}
	exam, err := h.service.SetScore(c.Request.Context(), teacherID, c.Param("studentId"), c.Param("examId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exam)
}

// Delete godoc
// @Summary Delete an exam
// @Tags Exams
// @Param studentId path string true "Student profile ID"
// @Param examId path string true "Exam ID"
// @Success 204
// @Router /teacher/students/{studentId}/exams/{examId} [delete]
func (h *ExamHandler) Delete(c *gin.Context) {
	teacherID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), teacherID, c.Param("studentId"), c.Param("examId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
