// Package schedule parses project cron schedules and computes upcoming runs
// for the dashboard calendar.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
)

// Entry is one parsed cron schedule.
type Entry struct {
	Expr     string
	schedule cron.Schedule
}

// Parse parses a standard 5-field cron expression.
func Parse(expr string) (Entry, error) {
	s, err := cron.ParseStandard(expr)
	if err != nil {
		return Entry{}, fmt.Errorf("parse cron %q: %w", expr, err)
	}
	return Entry{Expr: expr, schedule: s}, nil
}

// ParseAll parses every expression, skipping invalid ones and reporting them
// separately so one bad line doesn't hide the rest of the schedule.
func ParseAll(exprs []string) (entries []Entry, invalid []string) {
	for _, expr := range exprs {
		e, err := Parse(expr)
		if err != nil {
			invalid = append(invalid, expr)
			continue
		}
		entries = append(entries, e)
	}
	return entries, invalid
}

// Next returns the next activation strictly after t.
func (e Entry) Next(t time.Time) time.Time {
	return e.schedule.Next(t)
}

// NextRuns returns the next n activations across all entries, merged and
// sorted in time order.
func NextRuns(entries []Entry, from time.Time, n int) []time.Time {
	var runs []time.Time
	for _, e := range entries {
		t := from
		for i := 0; i < n; i++ {
			t = e.Next(t)
			if t.IsZero() {
				break
			}
			runs = append(runs, t)
		}
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Before(runs[j]) })
	if len(runs) > n {
		runs = runs[:n]
	}
	return runs
}

// DaysInMonth returns the set of days (1-based) in the given month with at
// least one scheduled activation.
func DaysInMonth(entries []Entry, year int, month time.Month, loc *time.Location) map[int]bool {
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	days := make(map[int]bool)
	for _, e := range entries {
		// Next is strictly-after, so step back a second to include midnight.
		t := start.Add(-time.Second)
		for {
			t = e.Next(t)
			if t.IsZero() || !t.Before(end) {
				break
			}
			days[t.Day()] = true
			// Jump to the end of the day: one hit per day is enough.
			t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, loc)
		}
	}
	return days
}
