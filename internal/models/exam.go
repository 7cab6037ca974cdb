package models

import "time"

// Exam records an upcoming or graded exam for a student and subject.
type Exam struct {
	ID              string    `db:"id" json:"id"`
	StudentID       string    `db:"student_id" json:"student_id"`
	SubjectID       string    `db:"subject_id" json:"subject_id"`
	SubjectName     string    `db:"subject_name" json:"subject_name,omitempty"`
	ExamDate        time.Time `db:"exam_date" json:"exam_date"`
	ImportanceLevel int       `db:"importance_level" json:"importance_level"`
	Score           *int      `db:"score" json:"score,omitempty"`
}

// IsUpcoming reports whether the exam is at or after now.
func (e Exam) IsUpcoming(now time.Time) bool {
	return !e.ExamDate.Before(now)
}
