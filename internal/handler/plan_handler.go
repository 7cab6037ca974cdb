package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-plan-api/internal/dto"
	"github.com/noah-isme/study-plan-api/pkg/response"
)

type planner interface {
	Preview(ctx context.Context, teacherID, studentID string) (*dto.PlanPreviewResponse, error)
	Commit(ctx context.Context, teacherID, studentID string, req dto.CommitPlanRequest) (*dto.CommitPlanResponse, error)
}

// PlanHandler exposes the two-phase weekly plan endpoints.
type PlanHandler struct {
	service planner
}

// NewPlanHandler constructs the handler.
func NewPlanHandler(svc planner) *PlanHandler {
	return &PlanHandler{service: svc}
}

// Preview godoc
// @Summary Preview next week's study plan
// @Description Proposes one-hour sessions for the next seven days without persisting them. The returned snapshot commits exactly this proposal.
// @Tags Planner
// @Produce json
// @Param studentId path string true "Student profile ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /teacher/students/{studentId}/plan/preview [get]
func (h *PlanHandler) Preview(c *gin.Context) {
	teacherID, ok := currentUserID(c)
	if !ok {
		return
	}
	preview, err := h.service.Preview(c.Request.Context(), teacherID, c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, map[string]interface{}{"mode": "preview"})
}

// Commit godoc
// @Summary Commit a previewed plan
// @Tags Planner
// @Accept json
// @Produce json
// @Param studentId path string true "Student profile ID"
// @Param payload body dto.CommitPlanRequest true "Snapshot returned by preview"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /teacher/students/{studentId}/plan/commit [post]
func (h *PlanHandler) Commit(c *gin.Context) {
	teacherID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CommitPlanRequest
	if !bindJSON(c, &req, "invalid commit payload") {
		return
	}
	result, err := h.service.Commit(c.Request.Context(), teacherID, c.Param("studentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
