package models

import "time"

// StudyTaskStatus enumerates session lifecycle states.
type StudyTaskStatus string

const (
	StudyTaskStatusPending   StudyTaskStatus = "PENDING"
	StudyTaskStatusCompleted StudyTaskStatus = "COMPLETED"
)

// StudyTask is a single scheduled study session.
type StudyTask struct {
	ID                       string          `db:"id" json:"id"`
	StudentID                string          `db:"student_id" json:"student_id"`
	SubjectID                string          `db:"subject_id" json:"subject_id"`
	SubjectName              string          `db:"subject_name" json:"subject_name,omitempty"`
	ScheduledDate            time.Time       `db:"scheduled_date" json:"scheduled_date"`
	StartTime                TimeOfDay       `db:"start_time" json:"start_time"`
	EndTime                  TimeOfDay       `db:"end_time" json:"end_time"`
	Status                   StudyTaskStatus `db:"status" json:"status"`
	CompletedDurationMinutes *int            `db:"completed_duration_minutes" json:"completed_duration_minutes,omitempty"`
	CreatedAt                time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time       `db:"updated_at" json:"updated_at"`
}

// Duration returns the planned length of the session.
func (t StudyTask) Duration() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}
