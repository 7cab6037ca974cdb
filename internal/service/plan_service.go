package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/study-plan-api/internal/dto"
	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/internal/scheduling"
	appErrors "github.com/noah-isme/study-plan-api/pkg/errors"
	"github.com/noah-isme/study-plan-api/pkg/signing"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type studentLocker interface {
	LockForUpdate(ctx context.Context, tx sqlx.QueryerContext, id string) error
}

type planTaskRepository interface {
	ListInRange(ctx context.Context, exec sqlx.ExtContext, studentID string, from, to time.Time) ([]models.StudyTask, error)
	BulkCreate(ctx context.Context, exec sqlx.ExtContext, tasks []*models.StudyTask) error
}

type subjectLister interface {
	List(ctx context.Context) ([]models.Subject, error)
}

type examLister interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Exam, error)
}

type availabilityLister interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Availability, error)
}

type snapshotSigner interface {
	Sign(subject string, payload []byte, now time.Time) (string, time.Time, error)
	Verify(token, subject string, now time.Time) ([]byte, error)
}

// PlanService runs the two-phase weekly plan flow: Preview generates and
// signs a snapshot without writing; Commit replays that snapshot verbatim.
type PlanService struct {
	access       *StudentAccess
	tasks        planTaskRepository
	subjects     subjectLister
	exams        examLister
	availability availabilityLister
	locker       studentLocker
	tx           txProvider
	signer       snapshotSigner
	generator    *scheduling.Generator
	cache        *CacheService
	metrics      *MetricsService
	clock        Clock
	logger       *zap.Logger
}

// PlanServiceDeps groups PlanService collaborators.
type PlanServiceDeps struct {
	Access       *StudentAccess
	Tasks        planTaskRepository
	Subjects     subjectLister
	Exams        examLister
	Availability availabilityLister
	Locker       studentLocker
	Tx           txProvider
	Signer       snapshotSigner
	Generator    *scheduling.Generator
	Cache        *CacheService
	Metrics      *MetricsService
	Clock        Clock
	Logger       *zap.Logger
}

// NewPlanService wires the planner.
func NewPlanService(deps PlanServiceDeps) *PlanService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Generator == nil {
		deps.Generator = scheduling.NewGenerator()
	}
	return &PlanService{
		access:       deps.Access,
		tasks:        deps.Tasks,
		subjects:     deps.Subjects,
		exams:        deps.Exams,
		availability: deps.Availability,
		locker:       deps.Locker,
		tx:           deps.Tx,
		signer:       deps.Signer,
		generator:    deps.Generator,
		cache:        deps.Cache,
		metrics:      deps.Metrics,
		clock:        deps.Clock,
		logger:       deps.Logger,
	}
}

// Preview proposes next week's sessions for a supervised student. Nothing is persisted.
func (s *PlanService) Preview(ctx context.Context, teacherID, studentID string) (*dto.PlanPreviewResponse, error) {
	if _, err := s.access.ForTeacher(ctx, teacherID, studentID); err != nil {
		return nil, err
	}
	now := s.clock.now()

	from, to := scheduling.PlanWindow(now)
	existing, err := s.tasks.ListInRange(ctx, nil, studentID, from, to)
	if err != nil {
		return nil, s.fail(err, "failed to load existing sessions")
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, s.fail(err, "failed to load subjects")
	}
	exams, err := s.exams.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, s.fail(err, "failed to load exams")
	}
	windows, err := s.availability.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, s.fail(err, "failed to load availability")
	}

	result := s.generator.Generate(scheduling.PlanInput{
		StudentID:    studentID,
		Subjects:     subjects,
		Exams:        exams,
		Availability: windows,
		Existing:     existing,
		Now:          now,
	})
	if result.Rejection != nil {
		s.metrics.RecordPlan(StagePreview, OutcomeRejected, 0)
		s.logger.Info("plan preview rejected", zap.String("student_id", studentID), zap.String("reason", result.Rejection.Reason))
		return nil, rejectionError(result.Rejection)
	}

	payload, err := scheduling.NewSnapshot(studentID, now, result.Sessions).Marshal()
	if err != nil {
		return nil, s.fail(err, "failed to encode plan snapshot")
	}
	token, expiresAt, err := s.signer.Sign(studentID, payload, now)
	if err != nil {
		return nil, s.fail(err, "failed to sign plan snapshot")
	}

	sessions := make([]dto.PlanSession, 0, len(result.Sessions))
	for _, session := range result.Sessions {
		sessions = append(sessions, dto.PlanSession{
			SubjectID:   session.SubjectID,
			SubjectName: session.SubjectName,
			Date:        session.ScheduledDate.Format(scheduling.DateLayout),
			StartTime:   session.StartTime,
			EndTime:     session.EndTime,
		})
	}

	s.metrics.RecordPlan(StagePreview, OutcomeProposed, len(sessions))
	s.logger.Info("plan preview generated", zap.String("student_id", studentID), zap.Int("sessions", len(sessions)))

	return &dto.PlanPreviewResponse{
		StudentID: studentID,
		Sessions:  sessions,
		Weights:   result.Weights,
		Snapshot:  token,
		ExpiresAt: expiresAt,
	}, nil
}

// Commit persists a previewed plan. The plan-exists check is repeated under a
// row lock on the student so concurrent commits cannot both succeed.
func (s *PlanService) Commit(ctx context.Context, teacherID, studentID string, req dto.CommitPlanRequest) (resp *dto.CommitPlanResponse, err error) {
	if _, err := s.access.ForTeacher(ctx, teacherID, studentID); err != nil {
		return nil, err
	}
	now := s.clock.now()

	tasks, err := s.decodeSnapshot(req.Snapshot, studentID, now)
	if err != nil {
		s.metrics.RecordPlan(StageCommit, OutcomeRejected, 0)
		return nil, err
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

	from, to := scheduling.PlanWindow(now)
	existing, listErr := s.tasks.ListInRange(ctx, tx, studentID, from, to)
	if listErr != nil {
		err = appErrors.Wrap(listErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to re-check existing sessions")
		return nil, err
	}
	if scheduling.HasPlanInWindow(existing, now) {
		s.metrics.RecordPlan(StageCommit, OutcomeRejected, 0)
		err = rejectionError(scheduling.Reject(scheduling.RejectPlanExists))
		return nil, err
	}

	if err = s.tasks.BulkCreate(ctx, tx, tasks); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist plan")
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit plan")
		return nil, err
	}

	_ = s.cache.InvalidateStudent(ctx, studentID)
	s.metrics.RecordPlan(StageCommit, OutcomeCommitted, len(tasks))
	s.logger.Info("plan committed", zap.String("student_id", studentID), zap.String("teacher_id", teacherID), zap.Int("sessions", len(tasks)))

	created := make([]models.StudyTask, 0, len(tasks))
	for _, task := range tasks {
		created = append(created, *task)
	}
	return &dto.CommitPlanResponse{Created: len(created), Sessions: created}, nil
}

func (s *PlanService) decodeSnapshot(token, studentID string, now time.Time) ([]*models.StudyTask, error) {
	payload, err := s.signer.Verify(token, studentID, now)
	if err != nil {
		if errors.Is(err, signing.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrPlanExpired, "plan snapshot expired, preview again")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidPlan.Code, appErrors.ErrInvalidPlan.Status, appErrors.ErrInvalidPlan.Message)
	}
	snap, err := scheduling.UnmarshalSnapshot(payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidPlan.Code, appErrors.ErrInvalidPlan.Status, appErrors.ErrInvalidPlan.Message)
	}
	if snap.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrInvalidPlan, "plan snapshot belongs to another student")
	}
	decoded, err := snap.Tasks(now.Location())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidPlan.Code, appErrors.ErrInvalidPlan.Status, appErrors.ErrInvalidPlan.Message)
	}
	tasks := make([]*models.StudyTask, 0, len(decoded))
	for i := range decoded {
		tasks = append(tasks, &decoded[i])
	}
	return tasks, nil
}

func (s *PlanService) fail(err error, message string) error {
	s.metrics.RecordPlan(StagePreview, OutcomeError, 0)
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
