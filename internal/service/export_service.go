package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/study-plan-api/internal/dto"
	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/internal/scheduling"
	appErrors "github.com/noah-isme/study-plan-api/pkg/errors"
	"github.com/noah-isme/study-plan-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type teacherWeekLoader interface {
	ForTeacher(ctx context.Context, teacherID, studentID, rawDate string) (*models.WeekSchedule, error)
}

// ExportService renders a student's week as a downloadable file.
type ExportService struct {
	schedules teacherWeekLoader
	renderers map[string]export.Renderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(schedules teacherWeekLoader, csv, pdf export.Renderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		schedules: schedules,
		renderers: map[string]export.Renderer{ExportFormatCSV: csv, ExportFormatPDF: pdf},
		logger:    logger,
	}
}

// Week exports the week containing rawDate in the requested format.
func (s *ExportService) Week(ctx context.Context, teacherID, studentID, rawDate, format string) (*dto.ScheduleExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	schedule, err := s.schedules.ForTeacher(ctx, teacherID, studentID, rawDate)
	if err != nil {
		return nil, err
	}

	body, err := renderer.Render(BuildScheduleDocument(schedule))
	if err != nil {
		s.logger.Error("schedule export failed", zap.String("student_id", studentID), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule")
	}
	return &dto.ScheduleExport{
		Filename:    fmt.Sprintf("schedule_%s_%s.%s", studentID, schedule.WeekStart.Format(scheduling.DateLayout), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// BuildScheduleDocument lays out sessions, exams and subject hours as tables.
func BuildScheduleDocument(schedule *models.WeekSchedule) export.Document {
	sessions := export.Section{
		Heading: "Sessions",
		Headers: []string{"Date", "Day", "Start", "End", "Subject", "Status"},
	}
	for _, task := range schedule.Tasks {
		sessions.Rows = append(sessions.Rows, []string{
			task.ScheduledDate.Format(scheduling.DateLayout),
			task.ScheduledDate.Weekday().String(),
			task.StartTime.String(),
			task.EndTime.String(),
			subjectLabel(task.SubjectName, task.SubjectID),
			string(task.Status),
		})
	}

	exams := export.Section{
		Heading: "Exams",
		Headers: []string{"Date", "Subject", "Importance", "Score"},
	}
	for _, exam := range schedule.Exams {
		score := "-"
		if exam.Score != nil {
			score = strconv.Itoa(*exam.Score)
		}
		exams.Rows = append(exams.Rows, []string{
			exam.ExamDate.Format(scheduling.DateLayout),
			subjectLabel(exam.SubjectName, exam.SubjectID),
			strconv.Itoa(exam.ImportanceLevel),
			score,
		})
	}

	hours := export.Section{
		Heading: "Subject hours",
		Headers: []string{"Subject", "Planned", "Completed", "Progress"},
	}
	for _, h := range schedule.SubjectHours {
		hours.Rows = append(hours.Rows, []string{
			subjectLabel(h.SubjectName, h.SubjectID),
			strconv.FormatFloat(h.PlannedHours, 'f', 1, 64),
			strconv.FormatFloat(h.CompletedHours, 'f', 1, 64),
			strconv.Itoa(h.Progress) + "%",
		})
	}

	return export.Document{
		Title: "Weekly study plan",
		Subtitle: fmt.Sprintf("%s to %s",
			schedule.WeekStart.Format(scheduling.DateLayout),
			schedule.WeekEnd.Format(scheduling.DateLayout)),
		Sections: []export.Section{sessions, exams, hours},
	}
}

func subjectLabel(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
