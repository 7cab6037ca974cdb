package scheduling

import (
	"time"

	"github.com/noah-isme/study-plan-api/internal/models"
)

// ProposedSession is a candidate session awaiting placement checks.
type ProposedSession struct {
	SubjectID string
	Date      time.Time
	StartTime models.TimeOfDay
	EndTime   models.TimeOfDay
}

// Collides reports whether [aStart, aEnd) and [bStart, bEnd) overlap.
// Back-to-back ranges do not collide.
func Collides(aStart, aEnd, bStart, bEnd models.TimeOfDay) bool {
	return (aStart >= bStart && aStart < bEnd) ||
		(aEnd > bStart && aEnd <= bEnd) ||
		(aStart <= bStart && aEnd >= bEnd)
}

// ValidTimeRange reports whether start precedes end within one day.
func ValidTimeRange(start, end models.TimeOfDay) bool {
	return start.Valid() && end.Valid() && start < end
}

// Validate checks a proposed session against availability and the sessions
// already stored for its date. A nil result means accepted; nothing is persisted here.
func Validate(index *AvailabilityIndex, proposed ProposedSession, existing []models.StudyTask) *Rejection {
	if !ValidTimeRange(proposed.StartTime, proposed.EndTime) {
		return Reject(RejectInvalidTimeRange)
	}
	if !index.Contains(proposed.Date.Weekday(), proposed.StartTime, proposed.EndTime) {
		return Reject(RejectOutsideAvailability)
	}
	for _, task := range existing {
		if !SameDate(task.ScheduledDate, proposed.Date) {
			continue
		}
		if Collides(proposed.StartTime, proposed.EndTime, task.StartTime, task.EndTime) {
			return Reject(RejectCollision)
		}
	}
	return nil
}

// CanDelete applies the deletion policy: only Pending sessions dated after today.
func CanDelete(task models.StudyTask, today time.Time) *Rejection {
	if task.Status != models.StudyTaskStatusPending {
		return Reject(RejectNotDeletable)
	}
	if !civilDate(task.ScheduledDate).After(civilDate(today)) {
		return Reject(RejectNotDeletable)
	}
	return nil
}
