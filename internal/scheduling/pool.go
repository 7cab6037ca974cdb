package scheduling

import (
	"sort"

	"github.com/noah-isme/study-plan-api/internal/models"
)

// SubjectSelector hands out the subject for each consecutive plan chunk.
type SubjectSelector interface {
	Next() (models.Subject, bool)
}

// SelectorFactory builds a selector from the catalog and its priority weights.
type SelectorFactory func(subjects []models.Subject, weights map[string]int) SubjectSelector

// PriorityPool is the deterministic round-robin selector: every subject appears
// weight times in a flat pool ordered by descending weight, consumed cyclically.
type PriorityPool struct {
	entries []models.Subject
	cursor  int
}

// NewPriorityPool builds the flattened pool. Ties keep catalog order.
func NewPriorityPool(subjects []models.Subject, weights map[string]int) *PriorityPool {
	ranked := RankSubjects(subjects, weights)
	pool := &PriorityPool{}
	for _, subject := range ranked {
		for i := 0; i < weights[subject.ID]; i++ {
			pool.entries = append(pool.entries, subject)
		}
	}
	return pool
}

// PriorityPoolFactory adapts NewPriorityPool to SelectorFactory.
func PriorityPoolFactory(subjects []models.Subject, weights map[string]int) SubjectSelector {
	return NewPriorityPool(subjects, weights)
}

// Next returns pool[cursor mod len] and advances the cursor.
func (p *PriorityPool) Next() (models.Subject, bool) {
	if len(p.entries) == 0 {
		return models.Subject{}, false
	}
	subject := p.entries[p.cursor%len(p.entries)]
	p.cursor++
	return subject, true
}

// Len returns the flattened pool size.
func (p *PriorityPool) Len() int {
	return len(p.entries)
}

// Counts returns how many pool positions each subject occupies.
func (p *PriorityPool) Counts() map[string]int {
	counts := make(map[string]int)
	for _, subject := range p.entries {
		counts[subject.ID]++
	}
	return counts
}

// RankSubjects orders subjects by descending weight, stable on catalog order.
func RankSubjects(subjects []models.Subject, weights map[string]int) []models.Subject {
	ranked := make([]models.Subject, len(subjects))
	copy(ranked, subjects)
	sort.SliceStable(ranked, func(i, j int) bool {
		return weights[ranked[i].ID] > weights[ranked[j].ID]
	})
	return ranked
}
