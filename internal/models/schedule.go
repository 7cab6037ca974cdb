package models

import "time"

// SubjectHours is the derived planned/completed breakdown for one subject in a week.
type SubjectHours struct {
	SubjectID      string  `json:"subject_id"`
	SubjectName    string  `json:"subject_name"`
	PlannedHours   float64 `json:"planned_hours"`
	CompletedHours float64 `json:"completed_hours"`
	Progress       int     `json:"progress_percentage"`
}

// WeekSchedule is the rendering-neutral weekly view of a student's plan.
type WeekSchedule struct {
	StudentID      string         `json:"student_id"`
	WeekStart      time.Time      `json:"week_start"`
	WeekEnd        time.Time      `json:"week_end"`
	DateFallback   bool           `json:"date_fallback"`
	Tasks          []StudyTask    `json:"tasks"`
	Exams          []Exam         `json:"exams"`
	Availabilities []Availability `json:"availabilities"`
	SubjectHours   []SubjectHours `json:"subject_hours"`
}
