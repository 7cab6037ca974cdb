package models

import "time"

// WeeklyTarget is an informational hour goal per subject per week.
type WeeklyTarget struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	SubjectID     string    `db:"subject_id" json:"subject_id"`
	SubjectName   string    `db:"subject_name" json:"subject_name,omitempty"`
	TargetHours   int       `db:"target_hours" json:"target_hours"`
	WeekStartDate time.Time `db:"week_start_date" json:"week_start_date"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
