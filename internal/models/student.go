package models

// StudentProfile links a student account to its supervising teacher.
type StudentProfile struct {
	ID               string  `db:"id" json:"id"`
	UserID           string  `db:"user_id" json:"user_id"`
	TeacherID        *string `db:"teacher_id" json:"teacher_id,omitempty"`
	FullName         string  `db:"full_name" json:"full_name"`
	GradeLevel       *string `db:"grade_level" json:"grade_level,omitempty"`
	TargetUniversity *string `db:"target_university" json:"target_university,omitempty"`
}

// SupervisedBy reports whether teacherID owns the profile.
func (p *StudentProfile) SupervisedBy(teacherID string) bool {
	return p != nil && p.TeacherID != nil && *p.TeacherID == teacherID
}
