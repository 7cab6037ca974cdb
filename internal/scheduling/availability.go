package scheduling

import (
	"time"

	"github.com/noah-isme/study-plan-api/internal/models"
)

// AvailabilityIndex answers containment questions over one student's weekly windows.
// Windows are evaluated independently; adjacent or overlapping windows are never merged.
type AvailabilityIndex struct {
	total int
	byDay map[time.Weekday][]models.Availability
}

// NewAvailabilityIndex indexes windows by weekday, keeping input order.
func NewAvailabilityIndex(windows []models.Availability) *AvailabilityIndex {
	idx := &AvailabilityIndex{
		total: len(windows),
		byDay: make(map[time.Weekday][]models.Availability),
	}
	for _, w := range windows {
		if !w.IsAvailable {
			continue
		}
		idx.byDay[w.DayOfWeek] = append(idx.byDay[w.DayOfWeek], w)
	}
	return idx
}

// Empty reports whether the student declared no windows at all, available or not.
func (i *AvailabilityIndex) Empty() bool {
	return i == nil || i.total == 0
}

// WindowsFor returns the available windows for day.
func (i *AvailabilityIndex) WindowsFor(day time.Weekday) []models.Availability {
	if i == nil {
		return nil
	}
	return i.byDay[day]
}

// Contains reports whether [start, end] lies fully inside a single available window on day.
func (i *AvailabilityIndex) Contains(day time.Weekday, start, end models.TimeOfDay) bool {
	for _, w := range i.WindowsFor(day) {
		if w.StartTime <= start && end <= w.EndTime {
			return true
		}
	}
	return false
}
