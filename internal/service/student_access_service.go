package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/internal/scheduling"
	appErrors "github.com/noah-isme/study-plan-api/pkg/errors"
)

type studentProfileReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentProfile, error)
	FindByUserID(ctx context.Context, userID string) (*models.StudentProfile, error)
}

// StudentAccess resolves which student profile a caller may act on.
// A student the caller does not own is reported exactly like a missing one.
type StudentAccess struct {
	profiles studentProfileReader
	logger   *zap.Logger
}

// NewStudentAccess constructs the access checker.
func NewStudentAccess(profiles studentProfileReader, logger *zap.Logger) *StudentAccess {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentAccess{profiles: profiles, logger: logger}
}

// ForTeacher returns the profile when teacherID supervises studentID.
func (a *StudentAccess) ForTeacher(ctx context.Context, teacherID, studentID string) (*models.StudentProfile, error) {
	profile, err := a.profiles.FindByID(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	if !profile.SupervisedBy(teacherID) {
		a.logger.Debug("teacher does not supervise student", zap.String("teacher_id", teacherID), zap.String("student_id", studentID))
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return profile, nil
}

// ForStudentUser returns the profile owned by a student account.
func (a *StudentAccess) ForStudentUser(ctx context.Context, userID string) (*models.StudentProfile, error) {
	profile, err := a.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "student profile not found", "failed to load student profile")
	}
	return profile, nil
}

// lookupError maps sql.ErrNoRows to NOT_FOUND and anything else to INTERNAL_ERROR.
func lookupError(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
}

func rejectionError(r *scheduling.Rejection) error {
	return appErrors.FromRejection(string(r.Code), r.Reason)
}
