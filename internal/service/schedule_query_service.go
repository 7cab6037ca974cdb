package service

import (
	"context"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/internal/scheduling"
	appErrors "github.com/noah-isme/study-plan-api/pkg/errors"
)

type weekTaskReader interface {
	ListInRange(ctx context.Context, exec sqlx.ExtContext, studentID string, from, to time.Time) ([]models.StudyTask, error)
}

type weekExamReader interface {
	ListInRange(ctx context.Context, studentID string, from, to time.Time) ([]models.Exam, error)
}

// ScheduleQueryService assembles the weekly schedule view for any target date.
type ScheduleQueryService struct {
	access       *StudentAccess
	tasks        weekTaskReader
	exams        weekExamReader
	availability availabilityLister
	cache        *CacheService
	cacheTTL     time.Duration
	clock        Clock
	logger       *zap.Logger
}

// NewScheduleQueryService constructs the service.
func NewScheduleQueryService(access *StudentAccess, tasks weekTaskReader, exams weekExamReader, availability availabilityLister, cache *CacheService, cacheTTL time.Duration, clock Clock, logger *zap.Logger) *ScheduleQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleQueryService{
		access:       access,
		tasks:        tasks,
		exams:        exams,
		availability: availability,
		cache:        cache,
		cacheTTL:     cacheTTL,
		clock:        clock,
		logger:       logger,
	}
}

// ForTeacher returns the week of a supervised student.
func (s *ScheduleQueryService) ForTeacher(ctx context.Context, teacherID, studentID, rawDate string) (*models.WeekSchedule, error) {
	if _, err := s.access.ForTeacher(ctx, teacherID, studentID); err != nil {
		return nil, err
	}
	return s.Week(ctx, studentID, rawDate)
}

// ForStudentUser returns the caller's own week.
func (s *ScheduleQueryService) ForStudentUser(ctx context.Context, userID, rawDate string) (*models.WeekSchedule, error) {
	profile, err := s.access.ForStudentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Week(ctx, profile.ID, rawDate)
}

// Week resolves rawDate to its Monday–Sunday window and loads sessions,
// exams and availability. Unparseable dates fall back to the current week
// and are flagged on the result.
func (s *ScheduleQueryService) Week(ctx context.Context, studentID, rawDate string) (*models.WeekSchedule, error) {
	window := scheduling.ResolveWeek(rawDate, s.clock.now())
	if window.Fallback {
		s.logger.Warn("unparseable schedule date, using current week", zap.String("student_id", studentID), zap.String("date", rawDate))
	}

	key := ScheduleKey(studentID, window.Start)
	var cached models.WeekSchedule
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		cached.DateFallback = window.Fallback
		return &cached, nil
	}

	tasks, err := s.tasks.ListInRange(ctx, nil, studentID, window.Start, window.End)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	exams, err := s.exams.ListInRange(ctx, studentID, window.Start, window.End)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exams")
	}
	windows, err := s.availability.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}

	schedule := &models.WeekSchedule{
		StudentID:      studentID,
		WeekStart:      window.Start,
		WeekEnd:        window.End,
		DateFallback:   window.Fallback,
		Tasks:          nonNilTasks(tasks),
		Exams:          nonNilExams(exams),
		Availabilities: nonNilWindows(windows),
		SubjectHours:   SubjectHours(tasks),
	}
	_ = s.cache.Set(ctx, key, schedule, s.cacheTTL)
	return schedule, nil
}

// SubjectHours derives planned and completed hours per subject, largest plan first.
func SubjectHours(tasks []models.StudyTask) []models.SubjectHours {
	index := make(map[string]int)
	hours := make([]models.SubjectHours, 0)
	for _, task := range tasks {
		i, ok := index[task.SubjectID]
		if !ok {
			i = len(hours)
			index[task.SubjectID] = i
			hours = append(hours, models.SubjectHours{SubjectID: task.SubjectID, SubjectName: task.SubjectName})
		}
		duration := task.Duration().Hours()
		hours[i].PlannedHours += duration
		if task.Status == models.StudyTaskStatusCompleted {
			hours[i].CompletedHours += duration
		}
	}
	for i := range hours {
		if hours[i].PlannedHours > 0 {
			hours[i].Progress = int(hours[i].CompletedHours / hours[i].PlannedHours * 100)
		}
	}
	sort.SliceStable(hours, func(a, b int) bool {
		return hours[a].PlannedHours > hours[b].PlannedHours
	})
	return hours
}

func nonNilTasks(tasks []models.StudyTask) []models.StudyTask {
	if tasks == nil {
		return []models.StudyTask{}
	}
	return tasks
}

func nonNilExams(exams []models.Exam) []models.Exam {
	if exams == nil {
		return []models.Exam{}
	}
	return exams
}

func nonNilWindows(windows []models.Availability) []models.Availability {
	if windows == nil {
		return []models.Availability{}
	}
	return windows
}
