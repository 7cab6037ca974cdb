// Package scheduling holds the study-plan rules: week windows, availability
// containment, subject priorities, placement validation and weekly plan
// generation. Everything here is pure; callers supply data and referenceNow.
package scheduling

import (
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// planHorizonDays is the length of the upcoming plan window.
const planHorizonDays = 7

// WeekWindow is a resolved Monday–Sunday range.
type WeekWindow struct {
	Start time.Time
	End   time.Time
	// Fallback is set when the requested date could not be parsed and today was used instead.
	Fallback bool
}

// DateOf truncates t to midnight of its calendar day, keeping the location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// civilDate drops the clock and location so naive dates compare by calendar day.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekBounds returns Monday 00:00 and the last instant of Sunday for the week containing date.
func WeekBounds(date time.Time) (time.Time, time.Time) {
	day := DateOf(date)
	offset := (7 + int(day.Weekday()-time.Monday)) % 7
	start := day.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// ResolveWeek parses raw as YYYY-MM-DD and returns its week. Unparseable input
// falls back to the week of now and flags it; an empty string means the current week.
func ResolveWeek(raw string, now time.Time) WeekWindow {
	raw = strings.TrimSpace(raw)
	target := DateOf(now)
	fallback := false
	if raw != "" {
		parsed, err := time.ParseInLocation(DateLayout, raw, now.Location())
		if err != nil {
			fallback = true
		} else {
			target = parsed
		}
	}
	start, end := WeekBounds(target)
	return WeekWindow{Start: start, End: end, Fallback: fallback}
}

// PlanWindow returns the calendar range checked for an existing plan: today through today+7, inclusive.
func PlanWindow(now time.Time) (time.Time, time.Time) {
	from := DateOf(now)
	return from, from.AddDate(0, 0, planHorizonDays)
}
