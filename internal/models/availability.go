package models

import "time"

// Availability is a recurring weekly window during which a student can study.
// IsAvailable=false entries are explicit unavailability overrides.
type Availability struct {
	ID          string       `db:"id" json:"id"`
	StudentID   string       `db:"student_id" json:"student_id"`
	DayOfWeek   time.Weekday `db:"day_of_week" json:"day_of_week"`
	StartTime   TimeOfDay    `db:"start_time" json:"start_time"`
	EndTime     TimeOfDay    `db:"end_time" json:"end_time"`
	IsAvailable bool         `db:"is_available" json:"is_available"`
}
