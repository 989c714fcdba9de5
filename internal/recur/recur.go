// Package recur computes due windows for recurring actions.
package recur

import (
	"time"

	"vtd-cli/internal/model"
)

// Window is the span in which a recurring action comes due: from the
// earliest next-due instant (interval minimum elapsed) to the latest
// (interval maximum elapsed; equal to earliest for fixed intervals).
type Window struct {
	Earliest time.Time
	Latest   time.Time
}

// NextDue computes the due window from the last completion. A node with
// no last-done stamp has no window: it is always due.
func NextDue(spec *model.RecurrenceSpec, lastDone *time.Time) *Window {
	if spec == nil || lastDone == nil {
		return nil
	}
	return &Window{
		Earliest: add(*lastDone, spec.Unit, spec.MinCount),
		Latest:   add(*lastDone, spec.Unit, spec.MaxCount),
	}
}

// DueNow reports whether the action is actionable at now: the minimum
// interval has elapsed (or there is no last-done stamp), and now falls
// inside the spec's time-of-day window if one is set.
func DueNow(spec *model.RecurrenceSpec, lastDone *time.Time, now time.Time) bool {
	if spec == nil {
		return false
	}
	if w := NextDue(spec, lastDone); w != nil && now.Before(w.Earliest) {
		return false
	}
	if spec.Window != nil && !inWindow(spec.Window, now) {
		return false
	}
	return true
}

// Overdue reports whether now has passed the latest next-due instant.
func Overdue(spec *model.RecurrenceSpec, lastDone *time.Time, now time.Time) bool {
	w := NextDue(spec, lastDone)
	return w != nil && now.After(w.Latest)
}

func add(t time.Time, unit model.RecurUnit, count int) time.Time {
	switch unit {
	case model.UnitDay:
		return t.AddDate(0, 0, count)
	case model.UnitWeek:
		return t.AddDate(0, 0, 7*count)
	case model.UnitMonth:
		return t.AddDate(0, count, 0)
	}
	return t
}

// inWindow tests now against a time window. Edges without weekdays wrap
// within the day (22:00 - 06:00 spans midnight); edges with weekdays wrap
// within the week (Thu 17:00 - Fri 07:00, or Sat 20:00 - Mon 08:00).
func inWindow(w *model.TimeWindow, now time.Time) bool {
	if w.Start.Weekday != nil || w.End.Weekday != nil {
		return between(weekMinute(w.Start, now), weekMinute(w.End, now), nowWeekMinute(now))
	}
	start := w.Start.Hour*60 + w.Start.Minute
	end := w.End.Hour*60 + w.End.Minute
	cur := now.Hour()*60 + now.Minute()
	return between(start, end, cur)
}

// between tests cur within [start, end] on a circular scale: a start
// past the end wraps around (22:00 - 06:00 spans midnight).
func between(start, end, cur int) bool {
	if start <= end {
		return cur >= start && cur <= end
	}
	return cur >= start || cur <= end
}

func weekMinute(e model.WindowEdge, now time.Time) int {
	wd := now.Weekday()
	if e.Weekday != nil {
		wd = *e.Weekday
	}
	return int(wd)*24*60 + e.Hour*60 + e.Minute
}

func nowWeekMinute(now time.Time) int {
	return int(now.Weekday())*24*60 + now.Hour()*60 + now.Minute()
}
