package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-plan-api/internal/dto"
	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/pkg/response"
)

type studyTaskManager interface {
	Create(ctx context.Context, teacherID, studentID string, req dto.CreateStudyTaskRequest) (*models.StudyTask, error)
	Delete(ctx context.Context, teacherID, studentID, taskID string) error
	ClearDay(ctx context.Context, teacherID, studentID string, req dto.ClearDayRequest) (*dto.ClearDayResponse, error)
	MarkComplete(ctx context.Context, userID, taskID string, req dto.CompleteTaskRequest) (*models.StudyTask, error)
}

// StudyTaskHandler exposes manual placement and session lifecycle endpoints.
type StudyTaskHandler struct {
	service studyTaskManager
}

// NewStudyTaskHandler constructs the handler.
func NewStudyTaskHandler(svc studyTaskManager) *StudyTaskHandler {
	return &StudyTaskHandler{service: svc}
}

// Create godoc
// @Summary Place a study session manually
// @Tags Sessions
// @Accept json
// @Produce json
// @Param studentId path string true "Student profile ID"
// @Param payload body dto.CreateStudyTaskRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /teacher/students/{studentId}/tasks [post]
func (h *StudyTaskHandler) Create(c *gin.Context) {
	teacherID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CreateStudyTaskRequest
	if !bindJSON(c, &req, "invalid session payload") {
		return
	}
	task, err := h.service.Create(c.Request.Context(), teacherID, c.Param("studentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

// Delete godoc
// @Summary Delete a pending future session
// @Tags Sessions
// @Param studentId path string true "Student profile ID"
// @Param taskId path string true "Session ID"
// @Success 204
// @Failure 422 {object} response.Envelope
// @Router /teacher/students/{studentId}/tasks/{taskId} [delete]
func (h *StudyTaskHandler) Delete(c *gin.Context) {
	teacherID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), teacherID, c.Param("studentId"), c.Param("taskId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ClearDay godoc
// @Summary Remove every pending session of a future date
// @Tags Sessions
// @Accept json
// @Produce json
// @Param studentId path string true "Student profile ID"
// @Param payload body dto.ClearDayRequest true "Date to clear"
// @Success 200 {object} response.Envelope
// @Router /teacher/students/{studentId}/tasks/clear [post]
func (h *StudyTaskHandler) ClearDay(c *gin.Context) {
	teacherID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.ClearDayRequest
	if !bindJSON(c, &req, "invalid clear payload") {
		return
	}
	result, err := h.service.ClearDay(c.Request.Context(), teacherID, c.Param("studentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Complete godoc
// @Summary Mark one of the caller's sessions as completed
// @Tags Student
// @Accept json
// @Produce json
// @Param taskId path string true "Session ID"
// @Param payload body dto.CompleteTaskRequest false "Actual minutes studied"
// @Success 200 {object} response.Envelope
// @Router /student/tasks/{taskId}/complete [post]
func (h *StudyTaskHandler) Complete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CompleteTaskRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req, "invalid completion payload") {
		return
	}
	task, err := h.service.MarkComplete(c.Request.Context(), userID, c.Param("taskId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task)
}
