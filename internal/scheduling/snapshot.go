package scheduling

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/noah-isme/study-plan-api/internal/models"
)

// SnapshotVersion is the current plan snapshot contract.
const SnapshotVersion = 1

// SnapshotEntry is one replayable session.
type SnapshotEntry struct {
	SubjectID string           `json:"subjectId"`
	Date      string           `json:"date"`
	Start     models.TimeOfDay `json:"start"`
	End       models.TimeOfDay `json:"end"`
}

// Snapshot is the ordered, versioned record of a previewed plan. Committing
// replays it verbatim instead of regenerating.
type Snapshot struct {
	Version   int             `json:"v"`
	StudentID string          `json:"studentId"`
	IssuedAt  time.Time       `json:"issuedAt"`
	Sessions  []SnapshotEntry `json:"sessions"`
}

// NewSnapshot captures proposed sessions in order.
func NewSnapshot(studentID string, issuedAt time.Time, tasks []models.StudyTask) Snapshot {
	entries := make([]SnapshotEntry, 0, len(tasks))
	for _, task := range tasks {
		entries = append(entries, SnapshotEntry{
			SubjectID: task.SubjectID,
			Date:      task.ScheduledDate.Format(DateLayout),
			Start:     task.StartTime,
			End:       task.EndTime,
		})
	}
	return Snapshot{
		Version:   SnapshotVersion,
		StudentID: studentID,
		IssuedAt:  issuedAt,
		Sessions:  entries,
	}
}

// Marshal encodes the snapshot payload.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes and version-checks a payload.
func UnmarshalSnapshot(payload []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return snap, nil
}

// Tasks rebuilds Pending sessions for the snapshot's student.
func (s Snapshot) Tasks(loc *time.Location) ([]models.StudyTask, error) {
	if loc == nil {
		loc = time.UTC
	}
	tasks := make([]models.StudyTask, 0, len(s.Sessions))
	for i, entry := range s.Sessions {
		date, err := time.ParseInLocation(DateLayout, entry.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("snapshot entry %d: invalid date %q", i, entry.Date)
		}
		if entry.SubjectID == "" {
			return nil, fmt.Errorf("snapshot entry %d: missing subject", i)
		}
		if !ValidTimeRange(entry.Start, entry.End) {
			return nil, fmt.Errorf("snapshot entry %d: %s", i, Reject(RejectInvalidTimeRange).Reason)
		}
		tasks = append(tasks, models.StudyTask{
			StudentID:     s.StudentID,
			SubjectID:     entry.SubjectID,
			ScheduledDate: date,
			StartTime:     entry.Start,
			EndTime:       entry.End,
			Status:        models.StudyTaskStatusPending,
		})
	}
	return tasks, nil
}
