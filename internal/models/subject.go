package models

// Subject is a catalog entry referenced by exams, sessions and targets.
type Subject struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	SubjectType string `db:"subject_type" json:"subject_type"`
}
