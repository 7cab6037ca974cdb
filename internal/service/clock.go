package service

import "time"

// Clock supplies referenceNow to the planner services.
type Clock func() time.Time

// NewClock reads the wall clock in loc. Dates derived from it are the planner's calendar days.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}
