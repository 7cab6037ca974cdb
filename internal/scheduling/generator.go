package scheduling

import (
	"time"

	"github.com/noah-isme/study-plan-api/internal/models"
)

// chunkLength is the fixed size of generated sessions; partial chunks are never created.
const chunkLength = time.Hour

// PlanInput carries everything the generator reads. Existing holds the
// student's stored sessions around the plan window, of any status.
type PlanInput struct {
	StudentID    string
	Subjects     []models.Subject
	Exams        []models.Exam
	Availability []models.Availability
	Existing     []models.StudyTask
	Now          time.Time
}

// PlanResult is either a rejection or a list of proposed Pending sessions.
type PlanResult struct {
	Rejection *Rejection
	Sessions  []models.StudyTask
	Weights   map[string]int
}

// Proposed reports whether generation produced a plan.
func (r PlanResult) Proposed() bool {
	return r.Rejection == nil
}

// Generator builds a week of sessions with a single greedy pass.
type Generator struct {
	selectors SelectorFactory
}

// GeneratorOption customises a Generator.
type GeneratorOption func(*Generator)

// WithSelectorFactory swaps the subject selection strategy.
func WithSelectorFactory(factory SelectorFactory) GeneratorOption {
	return func(g *Generator) {
		if factory != nil {
			g.selectors = factory
		}
	}
}

// NewGenerator returns a generator using the round-robin priority pool by default.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{selectors: PriorityPoolFactory}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HasPlanInWindow reports whether any session falls in PlanWindow(now).
func HasPlanInWindow(tasks []models.StudyTask, now time.Time) bool {
	from, to := PlanWindow(now)
	from, to = civilDate(from), civilDate(to)
	for _, task := range tasks {
		day := civilDate(task.ScheduledDate)
		if !day.Before(from) && !day.After(to) {
			return true
		}
	}
	return false
}

// Generate proposes sessions for the seven days after in.Now. Nothing is persisted.
func (g *Generator) Generate(in PlanInput) PlanResult {
	if HasPlanInWindow(in.Existing, in.Now) {
		return PlanResult{Rejection: Reject(RejectPlanExists)}
	}
	index := NewAvailabilityIndex(in.Availability)
	if index.Empty() {
		return PlanResult{Rejection: Reject(RejectNoAvailability)}
	}
	if len(in.Subjects) == 0 {
		return PlanResult{Rejection: Reject(RejectNoSubjects)}
	}

	weights := ScoreSubjects(in.Subjects, in.Exams, in.Now)
	selector := g.selectors(in.Subjects, weights)

	today := DateOf(in.Now)
	sessions := make([]models.StudyTask, 0)
	for offset := 1; offset <= planHorizonDays; offset++ {
		day := today.AddDate(0, 0, offset)
		placed := make([]models.StudyTask, 0)
		for _, window := range index.WindowsFor(day.Weekday()) {
			for start := window.StartTime; start.Add(chunkLength) <= window.EndTime; start = start.Add(chunkLength) {
				end := start.Add(chunkLength)
				if overlapsAny(placed, start, end) {
					continue
				}
				subject, ok := selector.Next()
				if !ok {
					return PlanResult{Rejection: Reject(RejectNoSubjects)}
				}
				task := models.StudyTask{
					StudentID:     in.StudentID,
					SubjectID:     subject.ID,
					SubjectName:   subject.Name,
					ScheduledDate: day,
					StartTime:     start,
					EndTime:       end,
					Status:        models.StudyTaskStatusPending,
				}
				placed = append(placed, task)
			}
		}
		sessions = append(sessions, placed...)
	}

	return PlanResult{Sessions: sessions, Weights: weights}
}

func overlapsAny(tasks []models.StudyTask, start, end models.TimeOfDay) bool {
	for _, task := range tasks {
		if Collides(start, end, task.StartTime, task.EndTime) {
			return true
		}
	}
	return false
}
