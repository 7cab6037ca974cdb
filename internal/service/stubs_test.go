package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/internal/scheduling"
	appErrors "github.com/noah-isme/study-plan-api/pkg/errors"
)

// 2024-05-15 is a Wednesday.
var fixedNow = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func day(offset int) time.Time {
	return scheduling.DateOf(fixedNow).AddDate(0, 0, offset)
}

func tod(h, m int) models.TimeOfDay {
	return models.TimeOfDay(h*60 + m)
}

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

type txProviderMock struct {
	db *sqlx.DB
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlx.NewDb(db, "sqlmock")}, mock
}

func (p *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return p.db.BeginTxx(ctx, opts)
}

type profileStub struct {
	byID map[string]*models.StudentProfile
}

func newProfileStub(profiles ...*models.StudentProfile) *profileStub {
	stub := &profileStub{byID: map[string]*models.StudentProfile{}}
	for _, p := range profiles {
		stub.byID[p.ID] = p
	}
	return stub
}

func (s *profileStub) FindByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (s *profileStub) FindByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	for _, p := range s.byID {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func defaultProfiles() *profileStub {
	return newProfileStub(
		&models.StudentProfile{ID: "student-1", UserID: "user-1", TeacherID: strPtr("teacher-1"), FullName: "Ana"},
		&models.StudentProfile{ID: "student-2", UserID: "user-2", TeacherID: strPtr("teacher-1"), FullName: "Budi"},
		&models.StudentProfile{ID: "student-3", UserID: "user-3", TeacherID: strPtr("teacher-9"), FullName: "Citra"},
	)
}

type lockerStub struct {
	calls int
	err   error
}

func (l *lockerStub) LockForUpdate(ctx context.Context, tx sqlx.QueryerContext, id string) error {
	l.calls++
	return l.err
}

type taskStoreStub struct {
	mu        sync.Mutex
	tasks     []models.StudyTask
	seq       int
	listCalls int
	failBulk  error
}

func (s *taskStoreStub) nextID() string {
	s.seq++
	return fmt.Sprintf("task-%d", s.seq)
}

func (s *taskStoreStub) ListInRange(ctx context.Context, exec sqlx.ExtContext, studentID string, from, to time.Time) ([]models.StudyTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	var out []models.StudyTask
	for _, task := range s.tasks {
		d := scheduling.DateOf(task.ScheduledDate)
		if task.StudentID == studentID && !d.Before(scheduling.DateOf(from)) && !d.After(scheduling.DateOf(to)) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *taskStoreStub) ListByDate(ctx context.Context, exec sqlx.ExtContext, studentID string, date time.Time) ([]models.StudyTask, error) {
	return s.ListInRange(ctx, exec, studentID, date, date)
}

func (s *taskStoreStub) FindByID(ctx context.Context, studentID, id string) (*models.StudyTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id && s.tasks[i].StudentID == studentID {
			task := s.tasks[i]
			return &task, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *taskStoreStub) Create(ctx context.Context, exec sqlx.ExtContext, task *models.StudyTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = s.nextID()
	s.tasks = append(s.tasks, *task)
	return nil
}

func (s *taskStoreStub) BulkCreate(ctx context.Context, exec sqlx.ExtContext, tasks []*models.StudyTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failBulk != nil {
		return s.failBulk
	}
	for _, task := range tasks {
		task.ID = s.nextID()
		s.tasks = append(s.tasks, *task)
	}
	return nil
}

func (s *taskStoreStub) Delete(ctx context.Context, studentID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id && s.tasks[i].StudentID == studentID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *taskStoreStub) DeletePendingOnDate(ctx context.Context, studentID string, date time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tasks[:0]
	var removed int64
	for _, task := range s.tasks {
		if task.StudentID == studentID && task.Status == models.StudyTaskStatusPending && scheduling.SameDate(task.ScheduledDate, date) {
			removed++
			continue
		}
		kept = append(kept, task)
	}
	s.tasks = kept
	return removed, nil
}

func (s *taskStoreStub) MarkCompleted(ctx context.Context, studentID, id string, minutes *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id && s.tasks[i].StudentID == studentID {
			s.tasks[i].Status = models.StudyTaskStatusCompleted
			s.tasks[i].CompletedDurationMinutes = minutes
			return nil
		}
	}
	return sql.ErrNoRows
}

type subjectStub struct {
	subjects []models.Subject
}

func defaultSubjects() *subjectStub {
	return &subjectStub{subjects: []models.Subject{
		{ID: "math", Name: "Mathematics", SubjectType: "CORE"},
		{ID: "physics", Name: "Physics", SubjectType: "CORE"},
	}}
}

func (s *subjectStub) List(ctx context.Context) ([]models.Subject, error) {
	return s.subjects, nil
}

func (s *subjectStub) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	for i := range s.subjects {
		if s.subjects[i].ID == id {
			subject := s.subjects[i]
			return &subject, nil
		}
	}
	return nil, sql.ErrNoRows
}

type examStub struct {
	exams     []models.Exam
	listCalls int
}

func (s *examStub) ListByStudent(ctx context.Context, studentID string) ([]models.Exam, error) {
	var out []models.Exam
	for _, exam := range s.exams {
		if exam.StudentID == studentID {
			out = append(out, exam)
		}
	}
	return out, nil
}

func (s *examStub) ListInRange(ctx context.Context, studentID string, from, to time.Time) ([]models.Exam, error) {
	s.listCalls++
	var out []models.Exam
	for _, exam := range s.exams {
		d := scheduling.DateOf(exam.ExamDate)
		if exam.StudentID == studentID && !d.Before(from) && !d.After(to) {
			out = append(out, exam)
		}
	}
	return out, nil
}

func (s *examStub) FindByID(ctx context.Context, studentID, id string) (*models.Exam, error) {
	for i := range s.exams {
		if s.exams[i].ID == id && s.exams[i].StudentID == studentID {
			exam := s.exams[i]
			return &exam, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *examStub) Create(ctx context.Context, exam *models.Exam) error {
	exam.ID = fmt.Sprintf("exam-%d", len(s.exams)+1)
	s.exams = append(s.exams, *exam)
	return nil
}

func (s *examStub) UpdateScore(ctx context.Context, studentID, id string, score int) error {
	for i := range s.exams {
		if s.exams[i].ID == id && s.exams[i].StudentID == studentID {
			s.exams[i].Score = intPtr(score)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *examStub) Delete(ctx context.Context, studentID, id string) error {
	for i := range s.exams {
		if s.exams[i].ID == id && s.exams[i].StudentID == studentID {
			s.exams = append(s.exams[:i], s.exams[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type availabilityStub struct {
	windows []models.Availability
}

func wednesdayEvening() *availabilityStub {
	return &availabilityStub{windows: []models.Availability{
		{ID: "av-1", StudentID: "student-1", DayOfWeek: time.Wednesday, StartTime: tod(18, 0), EndTime: tod(20, 0), IsAvailable: true},
		{ID: "av-2", StudentID: "student-2", DayOfWeek: time.Wednesday, StartTime: tod(18, 0), EndTime: tod(20, 0), IsAvailable: true},
	}}
}

func (s *availabilityStub) ListByStudent(ctx context.Context, studentID string) ([]models.Availability, error) {
	var out []models.Availability
	for _, w := range s.windows {
		if w.StudentID == studentID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *availabilityStub) Create(ctx context.Context, window *models.Availability) error {
	window.ID = fmt.Sprintf("av-%d", len(s.windows)+1)
	s.windows = append(s.windows, *window)
	return nil
}

func (s *availabilityStub) Delete(ctx context.Context, studentID, id string) error {
	for i := range s.windows {
		if s.windows[i].ID == id && s.windows[i].StudentID == studentID {
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type cacheRepoStub struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{entries: map[string][]byte{}}
}

func (c *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (c *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = payload
	return nil
}

func (c *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func requireAppError(t *testing.T, err error, code string, status int) *appErrors.Error {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, code, appErr.Code, appErr.Message)
	require.Equal(t, status, appErr.Status)
	return appErr
}

type weeklyTargetRepoStub struct {
	targets []models.WeeklyTarget
}

func (s *weeklyTargetRepoStub) ListByStudent(ctx context.Context, studentID string) ([]models.WeeklyTarget, error) {
	var out []models.WeeklyTarget
	for _, target := range s.targets {
		if target.StudentID == studentID {
			out = append(out, target)
		}
	}
	return out, nil
}

func (s *weeklyTargetRepoStub) Create(ctx context.Context, target *models.WeeklyTarget) error {
	target.ID = fmt.Sprintf("target-%d", len(s.targets)+1)
	s.targets = append(s.targets, *target)
	return nil
}

func (s *weeklyTargetRepoStub) Delete(ctx context.Context, studentID, id string) error {
	for i := range s.targets {
		if s.targets[i].ID == id && s.targets[i].StudentID == studentID {
			s.targets = append(s.targets[:i], s.targets[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}
