package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/study-plan-api/internal/dto"
	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/internal/scheduling"
	appErrors "github.com/noah-isme/study-plan-api/pkg/errors"
)

type weeklyTargetRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.WeeklyTarget, error)
	Create(ctx context.Context, target *models.WeeklyTarget) error
	Delete(ctx context.Context, studentID, id string) error
}

// WeeklyTargetService manages informational hour goals. The planner never reads them.
type WeeklyTargetService struct {
	access    *StudentAccess
	repo      weeklyTargetRepository
	subjects  subjectFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWeeklyTargetService constructs the service.
func NewWeeklyTargetService(access *StudentAccess, repo weeklyTargetRepository, subjects subjectFinder, validate *validator.Validate, logger *zap.Logger) *WeeklyTargetService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeeklyTargetService{access: access, repo: repo, subjects: subjects, validator: validate, logger: logger}
}

// List returns a supervised student's targets.
func (s *WeeklyTargetService) List(ctx context.Context, teacherID, studentID string) ([]models.WeeklyTarget, error) {
	if _, err := s.access.ForTeacher(ctx, teacherID, studentID); err != nil {
		return nil, err
	}
	targets, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly targets")
	}
	if targets == nil {
		targets = []models.WeeklyTarget{}
	}
	return targets, nil
}

// Create stores a target for the week containing WeekStartDate.
func (s *WeeklyTargetService) Create(ctx context.Context, teacherID, studentID string, req dto.CreateWeeklyTargetRequest) (*models.WeeklyTarget, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	date, err := time.Parse(scheduling.DateLayout, req.WeekStartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid week_start_date")
	}
	if _, err := s.access.ForTeacher(ctx, teacherID, studentID); err != nil {
		return nil, err
	}
	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		return nil, lookupError(err, "subject not found", "failed to load subject")
	}

	weekStart, _ := scheduling.WeekBounds(date)
	target := &models.WeeklyTarget{
		StudentID:     studentID,
		SubjectID:     subject.ID,
		SubjectName:   subject.Name,
		TargetHours:   req.TargetHours,
		WeekStartDate: weekStart,
	}
	if err := s.repo.Create(ctx, target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create weekly target")
	}
	return target, nil
}

// Delete removes a target.
func (s *WeeklyTargetService) Delete(ctx context.Context, teacherID, studentID, targetID string) error {
	if _, err := s.access.ForTeacher(ctx, teacherID, studentID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, studentID, targetID); err != nil {
		return lookupError(err, "weekly target not found", "failed to delete weekly target")
	}
	return nil
}
