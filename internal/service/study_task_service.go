package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/study-plan-api/internal/dto"
	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/internal/scheduling"
	appErrors "github.com/noah-isme/study-plan-api/pkg/errors"
)

type studyTaskStore interface {
	ListByDate(ctx context.Context, exec sqlx.ExtContext, studentID string, date time.Time) ([]models.StudyTask, error)
	FindByID(ctx context.Context, studentID, id string) (*models.StudyTask, error)
	Create(ctx context.Context, exec sqlx.ExtContext, task *models.StudyTask) error
	Delete(ctx context.Context, studentID, id string) error
	DeletePendingOnDate(ctx context.Context, studentID string, date time.Time) (int64, error)
	MarkCompleted(ctx context.Context, studentID, id string, minutes *int) error
}

type subjectFinder interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// StudyTaskService handles manual placement and the session lifecycle.
type StudyTaskService struct {
	access       *StudentAccess
	tasks        studyTaskStore
	subjects     subjectFinder
	availability availabilityLister
	locker       studentLocker
	tx           txProvider
	cache        *CacheService
	metrics      *MetricsService
	clock        Clock
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewStudyTaskService constructs the service.
func NewStudyTaskService(
	access *StudentAccess,
	tasks studyTaskStore,
	subjects subjectFinder,
	availability availabilityLister,
	locker studentLocker,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	clock Clock,
	validate *validator.Validate,
	logger *zap.Logger,
) *StudyTaskService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudyTaskService{
		access:       access,
		tasks:        tasks,
		subjects:     subjects,
		availability: availability,
		locker:       locker,
		tx:           tx,
		cache:        cache,
		metrics:      metrics,
		clock:        clock,
		validator:    validate,
		logger:       logger,
	}
}

// Create places a session after validating it against availability and a
// fresh read of the sessions stored for its date.
func (s *StudyTaskService) Create(ctx context.Context, teacherID, studentID string, req dto.CreateStudyTaskRequest) (task *models.StudyTask, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if _, err := s.access.ForTeacher(ctx, teacherID, studentID); err != nil {
		return nil, err
	}
	date, parseErr := time.ParseInLocation(scheduling.DateLayout, req.ScheduledDate, s.clock.now().Location())
	if parseErr != nil {
		return nil, appErrors.Wrap(parseErr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scheduled_date")
	}
	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		return nil, lookupError(err, "subject not found", "failed to load subject")
	}
	windows, err := s.availability.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.locker.LockForUpdate(ctx, tx, studentID); err != nil {
		err = lookupError(err, "student not found", "failed to lock student")
		return nil, err
	}
	existing, listErr := s.tasks.ListByDate(ctx, tx, studentID, date)
	if listErr != nil {
		err = appErrors.Wrap(listErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
		return nil, err
	}

	proposed := scheduling.ProposedSession{
		SubjectID: subject.ID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if rejection := scheduling.Validate(scheduling.NewAvailabilityIndex(windows), proposed, existing); rejection != nil {
		s.metrics.RecordPlacement(OutcomeRejected)
		s.logger.Info("placement rejected", zap.String("student_id", studentID), zap.String("reason", rejection.Reason))
		err = rejectionError(rejection)
		return nil, err
	}

	task = &models.StudyTask{
		StudentID:     studentID,
		SubjectID:     subject.ID,
		SubjectName:   subject.Name,
		ScheduledDate: date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        models.StudyTaskStatusPending,
	}
	if err = s.tasks.Create(ctx, tx, task); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit session")
		return nil, err
	}

	_ = s.cache.InvalidateStudent(ctx, studentID)
	s.metrics.RecordPlacement(OutcomeAccepted)
	return task, nil
}

// Delete removes a Pending session dated after today.
func (s *StudyTaskService) Delete(ctx context.Context, teacherID, studentID, taskID string) error {
	if _, err := s.access.ForTeacher(ctx, teacherID, studentID); err != nil {
		return err
	}
	task, err := s.tasks.FindByID(ctx, studentID, taskID)
	if err != nil {
		return lookupError(err, "session not found", "failed to load session")
	}
	if rejection := scheduling.CanDelete(*task, s.clock.now()); rejection != nil {
		return rejectionError(rejection)
	}
	if err := s.tasks.Delete(ctx, studentID, taskID); err != nil {
		return lookupError(err, "session not found", "failed to delete session")
	}
	_ = s.cache.InvalidateStudent(ctx, studentID)
	s.logger.Info("session deleted", zap.String("student_id", studentID), zap.String("task_id", taskID))
	return nil
}

// ClearDay removes every Pending session of a future date, typically before regenerating a plan.
func (s *StudyTaskService) ClearDay(ctx context.Context, teacherID, studentID string, req dto.ClearDayRequest) (*dto.ClearDayResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if _, err := s.access.ForTeacher(ctx, teacherID, studentID); err != nil {
		return nil, err
	}
	now := s.clock.now()
	date, err := time.ParseInLocation(scheduling.DateLayout, req.Date, now.Location())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	if !date.After(scheduling.DateOf(now)) {
		return nil, rejectionError(scheduling.Reject(scheduling.RejectNotDeletable))
	}

	removed, err := s.tasks.DeletePendingOnDate(ctx, studentID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear sessions")
	}
	if removed > 0 {
		_ = s.cache.InvalidateStudent(ctx, studentID)
	}
	return &dto.ClearDayResponse{Date: req.Date, Removed: removed}, nil
}

// MarkComplete lets a student flip one of their own sessions to Completed.
func (s *StudyTaskService) MarkComplete(ctx context.Context, userID, taskID string, req dto.CompleteTaskRequest) (*models.StudyTask, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	profile, err := s.access.ForStudentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.MarkCompleted(ctx, profile.ID, taskID, req.CompletedDurationMinutes); err != nil {
		return nil, lookupError(err, "session not found", "failed to complete session")
	}
	task, err := s.tasks.FindByID(ctx, profile.ID, taskID)
	if err != nil {
		return nil, lookupError(err, "session not found", "failed to load session")
	}
	_ = s.cache.InvalidateStudent(ctx, profile.ID)
	return task, nil
}
