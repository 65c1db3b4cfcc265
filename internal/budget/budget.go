// Package budget derives the remaining daily time pool of a category.
//
// A pool accrues dailyMinutes for every calendar day from the category's
// first recorded entry through today, inclusive. Everything recorded under
// the category, plus the live session when it matches, is subtracted. The
// result may be negative.
package budget

import (
	"time"

	"github.com/ptt-dev/ptt/internal/entry"
)

// PoolReader is the read side of the pool store.
type PoolReader interface {
	DailyMinutes(category string) int
}

// Live describes the session currently being timed.
type Live struct {
	Category string
	Elapsed  float64 // seconds
}

// Remaining returns the remaining pool seconds for category as of now. ok is
// false when the category has no budget. live may be nil.
func Remaining(pools PoolReader, entries []entry.TimeEntry, category string, live *Live, now time.Time, loc *time.Location) (remaining float64, ok bool) {
	daily := pools.DailyMinutes(category)
	if daily <= 0 {
		return 0, false
	}
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	var used float64
	if live != nil && live.Category == category {
		used += live.Elapsed
	}

	first := now
	for _, e := range entries {
		if e.Category != category {
			continue
		}
		if started, parsed := e.Started(loc); parsed && started.Before(first) {
			first = started
		}
		used += e.Duration
	}

	budget := float64(daily) * 60 * float64(DaysElapsed(first, now))
	return budget - used, true
}

// DaysElapsed counts calendar days from first through now inclusive. It is
// never less than 1.
func DaysElapsed(first, now time.Time) int {
	a := civilDay(first)
	b := civilDay(now)
	days := int((b.Unix()-a.Unix())/86400) + 1
	if days < 1 {
		return 1
	}
	return days
}

// civilDay maps a wall-clock date onto UTC midnight so that subtraction is
// unaffected by DST transitions in the original location.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Format renders a remaining value, or "-" when there is no budget.
func Format(remaining float64, ok bool) string {
	if !ok {
		return "-"
	}
	return entry.FormatSignedClock(remaining)
}
