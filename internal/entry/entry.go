// Package entry holds completed work sessions and their on-disk text format.
package entry

import "time"

// TimeEntry represents one completed, attributed work session.
//
// StartTime is kept in its textual form so that a start time which fails to
// parse survives a load/save cycle unchanged.
type TimeEntry struct {
	Project   string  `json:"project"`
	Category  string  `json:"category"`
	Duration  float64 `json:"duration_seconds"`
	StartTime string  `json:"start_time"`
}

// Started parses StartTime in loc. The second return value is false when the
// start time is malformed.
func (e TimeEntry) Started(loc *time.Location) (time.Time, bool) {
	return ParseStartTime(e.StartTime, loc)
}

// IndexedEntry pairs an entry with its position in the store.
type IndexedEntry struct {
	Entry TimeEntry
	Index int // 0-based position in insertion order
}
