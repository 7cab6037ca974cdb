package dto

import (
	"time"

	"github.com/noah-isme/study-plan-api/internal/models"
)

// PlanSession is one proposed session in a preview.
type PlanSession struct {
	SubjectID   string           `json:"subject_id"`
	SubjectName string           `json:"subject_name"`
	Date        string           `json:"date"`
	StartTime   models.TimeOfDay `json:"start_time"`
	EndTime     models.TimeOfDay `json:"end_time"`
}

// PlanPreviewResponse carries a proposed week plus the opaque snapshot to commit it.
type PlanPreviewResponse struct {
	StudentID string         `json:"student_id"`
	Sessions  []PlanSession  `json:"sessions"`
	Weights   map[string]int `json:"weights"`
	Snapshot  string         `json:"snapshot"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// CommitPlanRequest replays a previewed plan.
type CommitPlanRequest struct {
	Snapshot string `json:"snapshot" validate:"required"`
}

// CommitPlanResponse lists the persisted sessions.
type CommitPlanResponse struct {
	Created  int                `json:"created"`
	Sessions []models.StudyTask `json:"sessions"`
}

// CreateStudyTaskRequest is a manual placement.
type CreateStudyTaskRequest struct {
	SubjectID     string           `json:"subject_id" validate:"required"`
	ScheduledDate string           `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	StartTime     models.TimeOfDay `json:"start_time"`
	EndTime       models.TimeOfDay `json:"end_time"`
}

// ClearDayRequest removes every pending session of one date.
type ClearDayRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// ClearDayResponse reports how many sessions were removed.
type ClearDayResponse struct {
	Date    string `json:"date"`
	Removed int64  `json:"removed"`
}

// CompleteTaskRequest optionally records the actual minutes studied.
type CompleteTaskRequest struct {
	CompletedDurationMinutes *int `json:"completed_duration_minutes" validate:"omitempty,min=1,max=1440"`
}

// CreateAvailabilityRequest declares a weekly window. Day 0 is Sunday.
type CreateAvailabilityRequest struct {
	DayOfWeek   *int             `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime   models.TimeOfDay `json:"start_time"`
	EndTime     models.TimeOfDay `json:"end_time"`
	IsAvailable *bool            `json:"is_available"`
}

// CreateExamRequest records an exam. ExamDate accepts RFC3339 or YYYY-MM-DD.
type CreateExamRequest struct {
	SubjectID       string `json:"subject_id" validate:"required"`
	ExamDate        string `json:"exam_date" validate:"required"`
	ImportanceLevel int    `json:"importance_level" validate:"required,min=1,max=5"`
	Score           *int   `json:"score" validate:"omitempty,min=0,max=100"`
}

// ExamScoreRequest grades an exam.
type ExamScoreRequest struct {
	Score *int `json:"score" validate:"required,min=0,max=100"`
}

// CreateWeeklyTargetRequest sets an informational hour goal. WeekStartDate is
// normalised to the Monday of its week.
type CreateWeeklyTargetRequest struct {
	SubjectID     string `json:"subject_id" validate:"required"`
	TargetHours   int    `json:"target_hours" validate:"required,min=1,max=168"`
	WeekStartDate string `json:"week_start_date" validate:"required,datetime=2006-01-02"`
}

// ScheduleExport is a rendered weekly schedule file.
type ScheduleExport struct {
	Filename    string
	ContentType string
	Body        []byte
}
