package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-plan-api/internal/dto"
	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/pkg/response"
)

type availabilityManager interface {
	List(ctx context.Context, userID string) ([]models.Availability, error)
	Create(ctx context.Context, userID string, req dto.CreateAvailabilityRequest) (*models.Availability, error)
	Delete(ctx context.Context, userID, id string) error
}

// AvailabilityHandler lets students manage their weekly windows.
type AvailabilityHandler struct {
	service availabilityManager
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(svc availabilityManager) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// List godoc
// @Summary List the caller's availability windows
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/availability [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	windows, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, windows)
}

// Create godoc
// @Summary Declare an availability window
// @Tags Student
// @Accept json
// @Produce json
// @Param payload body dto.CreateAvailabilityRequest true "Window payload, day 0 is Sunday"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /student/availability [post]
func (h *AvailabilityHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CreateAvailabilityRequest
	if !bindJSON(c, &req, "invalid availability payload") {
		return
	}
	window, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, window)
}

// Delete godoc
// @Summary Delete an availability window
// @Tags Student
// @Param id path string true "Availability ID"
// @Success 204
// @Router /student/availability/{id} [delete]
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
