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

type examRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Exam, error)
	Create(ctx context.Context, exam *models.Exam) error
	UpdateScore(ctx context.Context, studentID, id string, score int) error
	FindByID(ctx context.Context, studentID, id string) (*models.Exam, error)
	Delete(ctx context.Context, studentID, id string) error
}

// ExamService manages the exam records that drive subject priorities.
type ExamService struct {
	access    *StudentAccess
	repo      examRepository
	subjects  subjectFinder
	cache     *CacheService
	clock     Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamService constructs the service.
func NewExamService(access *StudentAccess, repo examRepository, subjects subjectFinder, cache *CacheService, clock Clock, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{access: access, repo: repo, subjects: subjects, cache: cache, clock: clock, validator: validate, logger: logger}
}

// List returns a supervised student's exams ordered by date.
func (s *ExamService) List(ctx context.Context, teacherID, studentID string) ([]models.Exam, error) {
	if _, err := s.access.ForTeacher(ctx, teacherID, studentID); err != nil {
		return nil, err
	}
	exams, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exams")
	}
	return nonNilExams(exams), nil
}

// Create records an exam for a supervised student.
func (s *ExamService) Create(ctx context.Context, teacherID, studentID string, req dto.CreateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	examDate, err := s.parseExamDate(req.ExamDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam_date")
	}
	if _, err := s.access.ForTeacher(ctx, teacherID, studentID); err != nil {
		return nil, err
	}
	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		return nil, lookupError(err, "subject not found", "failed to load subject")
	}

	exam := &models.Exam{
		StudentID:       studentID,
		SubjectID:       subject.ID,
		SubjectName:     subject.Name,
		ExamDate:        examDate,
		ImportanceLevel: req.ImportanceLevel,
		Score:           req.Score,
	}
	if err := s.repo.Create(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam")
	}
	_ = s.cache.InvalidateStudent(ctx, studentID)
	return exam, nil
}

// SetScore grades an exam.
func (s *ExamService) SetScore(ctx context.Context, teacherID, studentID, examID string, req dto.ExamScoreRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if _, err := s.access.ForTeacher(ctx, teacherID, studentID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateScore(ctx, studentID, examID, *req.Score); err != nil {
		return nil, lookupError(err, "exam not found", "failed to update exam score")
	}
	exam, err := s.repo.FindByID(ctx, studentID, examID)
	if err != nil {
		return nil, lookupError(err, "exam not found", "failed to load exam")
	}
	_ = s.cache.InvalidateStudent(ctx, studentID)
	return exam, nil
}

// Delete removes an exam.
func (s *ExamService) Delete(ctx context.Context, teacherID, studentID, examID string) error {
	if _, err := s.access.ForTeacher(ctx, teacherID, studentID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, studentID, examID); err != nil {
		return lookupError(err, "exam not found", "failed to delete exam")
	}
	_ = s.cache.InvalidateStudent(ctx, studentID)
	return nil
}

func (s *ExamService) parseExamDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation(scheduling.DateLayout, raw, s.clock.now().Location())
}
