package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-plan-api/internal/dto"
	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/pkg/response"
)

type weekReader interface {
	ForTeacher(ctx context.Context, teacherID, studentID, rawDate string) (*models.WeekSchedule, error)
	ForStudentUser(ctx context.Context, userID, rawDate string) (*models.WeekSchedule, error)
}

type weekExporter interface {
	Week(ctx context.Context, teacherID, studentID, rawDate, format string) (*dto.ScheduleExport, error)
}

// ScheduleHandler serves the weekly schedule view and its exports.
type ScheduleHandler struct {
	weeks    weekReader
	exporter weekExporter
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(weeks weekReader, exporter weekExporter) *ScheduleHandler {
	return &ScheduleHandler{weeks: weeks, exporter: exporter}
}

// TeacherWeek godoc
// @Summary Weekly schedule of a supervised student
// @Description Returns the Monday to Sunday week containing date. Unparseable dates fall back to the current week and set date_fallback.
// @Tags Schedule
// @Produce json
// @Param studentId path string true "Student profile ID"
// @Param date query string false "Any date in the week (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /teacher/students/{studentId}/schedule [get]
func (h *ScheduleHandler) TeacherWeek(c *gin.Context) {
	teacherID, ok := currentUserID(c)
	if !ok {
		return
	}
	week, err := h.weeks.ForTeacher(c.Request.Context(), teacherID, c.Param("studentId"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, weekMeta(week))
}

// StudentWeek godoc
// @Summary The caller's weekly schedule
// @Tags Student
// @Produce json
// @Param date query string false "Any date in the week (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /student/schedule [get]
func (h *ScheduleHandler) StudentWeek(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	week, err := h.weeks.ForStudentUser(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, weekMeta(week))
}

// Export godoc
// @Summary Download a student's week as CSV or PDF
// @Tags Schedule
// @Produce text/csv
// @Produce application/pdf
// @Param studentId path string true "Student profile ID"
// @Param date query string false "Any date in the week (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /teacher/students/{studentId}/schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	teacherID, ok := currentUserID(c)
	if !ok {
		return
	}
	file, err := h.exporter.Week(c.Request.Context(), teacherID, c.Param("studentId"), c.Query("date"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

func weekMeta(week *models.WeekSchedule) map[string]interface{} {
	if !week.DateFallback {
		return nil
	}
	return map[string]interface{}{"warning": "date could not be parsed, showing the current week"}
}
