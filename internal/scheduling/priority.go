package scheduling

import (
	"time"

	"github.com/noah-isme/study-plan-api/internal/models"
)

// BaseWeight keeps every subject schedulable without exam history.
const BaseWeight = 1

const (
	urgentWindow = 7 * 24 * time.Hour
	urgentBonus  = 5
	soonWindow   = 30 * 24 * time.Hour
	soonBonus    = 3

	failingScore = 50
	failingBonus = 4
	weakScore    = 70
	weakBonus    = 2
)

// ScoreSubjects computes additive priority weights per subject id.
// Exams referencing subjects outside the catalog are ignored.
func ScoreSubjects(subjects []models.Subject, exams []models.Exam, now time.Time) map[string]int {
	weights := make(map[string]int, len(subjects))
	for _, subject := range subjects {
		weights[subject.ID] = BaseWeight
	}
	for _, exam := range exams {
		if _, ok := weights[exam.SubjectID]; !ok {
			continue
		}
		weights[exam.SubjectID] += examWeight(exam, now)
	}
	return weights
}

func examWeight(exam models.Exam, now time.Time) int {
	if exam.IsUpcoming(now) {
		weight := exam.ImportanceLevel
		// first matching tier wins
		until := exam.ExamDate.Sub(now)
		switch {
		case until <= urgentWindow:
			weight += urgentBonus
		case until <= soonWindow:
			weight += soonBonus
		}
		return weight
	}
	if exam.Score == nil {
		return 0
	}
	switch score := *exam.Score; {
	case score < failingScore:
		return failingBonus
	case score < weakScore:
		return weakBonus
	default:
		return 0
	}
}
