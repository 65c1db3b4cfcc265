package entry

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// startTimeLayout is the millisecond part of the persisted start time.
	// Three zero digits are appended on write so the fractional field keeps
	// its six-digit width.
	startTimeLayout = "2006-01-02 15:04:05.000"
	// startTimePadding fills the microsecond digits nobody records.
	startTimePadding = "000"

	// parseLayout accepts any fractional width after the seconds field.
	parseLayout = "2006-01-02 15:04:05"

	// DisplayLayout is the human-facing start time format.
	DisplayLayout = "15:04 02.01.2006"
)

// FormatStartTime renders t as "YYYY-MM-DD HH:MM:SS.fff000".
func FormatStartTime(t time.Time) string {
	return t.Format(startTimeLayout) + startTimePadding
}

// ParseStartTime parses a persisted start time in loc. Only the first three
// fractional digits are honoured.
func ParseStartTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(parseLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t.Truncate(time.Millisecond), true
}

// FormatDisplayTime renders the start time for tables, or "-" when it does
// not parse.
func FormatDisplayTime(e TimeEntry, loc *time.Location) string {
	t, ok := e.Started(loc)
	if !ok {
		return "-"
	}
	return t.Format(DisplayLayout)
}

// FormatClock renders seconds as "H:MM:SS", or "M:SS" under one hour.
// The sign is dropped; see FormatSignedClock.
func FormatClock(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	total := int64(math.Floor(math.Abs(seconds)))
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatSignedClock is FormatClock with a leading minus for values of at
// least one whole second below zero.
func FormatSignedClock(seconds float64) string {
	if seconds <= -1 {
		return "-" + FormatClock(seconds)
	}
	return FormatClock(seconds)
}
