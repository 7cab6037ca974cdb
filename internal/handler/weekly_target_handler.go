package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-plan-api/internal/dto"
	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/pkg/response"
)

type weeklyTargetManager interface {
	List(ctx context.Context, teacherID, studentID string) ([]models.WeeklyTarget, error)
	Create(ctx context.Context, teacherID, studentID string, req dto.CreateWeeklyTargetRequest) (*models.WeeklyTarget, error)
	Delete(ctx context.Context, teacherID, studentID, targetID string) error
}

// WeeklyTargetHandler manages informational hour goals.
type WeeklyTargetHandler struct {
	service weeklyTargetManager
}

// NewWeeklyTargetHandler constructs the handler.
func NewWeeklyTargetHandler(svc weeklyTargetManager) *WeeklyTargetHandler {
	return &WeeklyTargetHandler{service: svc}
}

// List godoc
// @Summary List weekly targets
// @Tags Targets
// @Produce json
// @Param studentId path string true "Student profile ID"
// @Success 200 {object} response.Envelope
// @Router /teacher/students/{studentId}/targets [get]
func (h *WeeklyTargetHandler) List(c *gin.Context) {
	teacherID, ok := currentUserID(c)
	if !ok {
		return
	}
	targets, err := h.service.List(c.Request.Context(), teacherID, c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, targets)
}

// Create godoc
// @Summary Set a weekly hour target
// @Tags Targets
// @Accept json
// @Produce json
// @Param studentId path string true "Student profile ID"
// @Param payload body dto.CreateWeeklyTargetRequest true "Target payload"
// @Success 201 {object} response.Envelope
// @Router /teacher/students/{studentId}/targets [post]
func (h *WeeklyTargetHandler) Create(c *gin.Context) {
	teacherID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CreateWeeklyTargetRequest
	if !bindJSON(c, &req, "invalid target payload") {
		return
	}
	target, err := h.service.Create(c.Request.Context(), teacherID, c.Param("studentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, target)
}

// Delete godoc
// @Summary Delete a weekly target
// @Tags Targets
// @Param studentId path string true "Student profile ID"
// @Param targetId path string true "Target ID"
// @Success 204
// @Router /teacher/students/{studentId}/targets/{targetId} [delete]
func (h *WeeklyTargetHandler) Delete(c *gin.Context) {
	teacherID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), teacherID, c.Param("studentId"), c.Param("targetId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
