// Package pool holds the per-category daily time budgets.
package pool

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ptt-dev/ptt/internal/record"
)

// Choices are the daily minute values offered by pickers.
var Choices = []int{0, 5, 10, 15, 30, 45, 60, 90, 120}

// Store maps a category to its daily budget in minutes. A missing or zero
// value means no budget is tracked. It performs no I/O.
type Store struct {
	pools map[string]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{pools: map[string]int{}}
}

// Replace swaps the whole content of the store.
func (s *Store) Replace(pools map[string]int) {
	s.pools = make(map[string]int, len(pools))
	for k, v := range pools {
		s.pools[k] = v
	}
}

// DailyMinutes returns the budget for category, or 0 when absent.
func (s *Store) DailyMinutes(category string) int {
	return s.pools[category]
}

// SetDailyMinutes stores max(0, minutes) for category and returns the stored
// value.
func (s *Store) SetDailyMinutes(category string, minutes int) int {
	if minutes < 0 {
		minutes = 0
	}
	s.pools[category] = minutes
	return minutes
}

// Categories returns every category with an explicit entry, sorted.
func (s *Store) Categories() []string {
	cats := make([]string, 0, len(s.pools))
	for c := range s.pools {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// Len returns the number of categories with an explicit entry.
func (s *Store) Len() int {
	return len(s.pools)
}

// Pools returns a copy of the mapping.
func (s *Store) Pools() map[string]int {
	out := make(map[string]int, len(s.pools))
	for k, v := range s.pools {
		out[k] = v
	}
	return out
}

// ParseResult contains the parsed mapping and any line warnings.
type ParseResult struct {
	Pools    map[string]int
	Warnings []record.ParseWarning
}

// Parse decodes "category --- minutes" lines. Lines with a missing field or a
// non-numeric minutes value are skipped and reported. A later line for the
// same category wins.
func Parse(content string) ParseResult {
	result := ParseResult{
		Pools:    map[string]int{},
		Warnings: []record.ParseWarning{},
	}

	for _, line := range record.Lines(content) {
		fields := record.Fields(line.Text)
		if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
			result.Warnings = append(result.Warnings, record.ParseWarning{
				LineNumber: line.Number,
				Content:    line.Text,
				Reason:     "expected category and minutes",
				Skipped:    true,
			})
			continue
		}

		minutes, ok := parseMinutes(fields[1])
		if !ok {
			result.Warnings = append(result.Warnings, record.ParseWarning{
				LineNumber: line.Number,
				Content:    line.Text,
				Reason:     "invalid minutes " + strconv.Quote(fields[1]),
				Skipped:    true,
			})
			continue
		}
		result.Pools[fields[0]] = max(minutes, 0)
	}

	return result
}

// Format encodes the mapping sorted by category, without a trailing newline.
func Format(pools map[string]int) string {
	cats := make([]string, 0, len(pools))
	for c := range pools {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	lines := make([]string, len(cats))
	for i, c := range cats {
		lines[i] = record.Join(c, strconv.Itoa(pools[c]))
	}
	return strings.Join(lines, "\n")
}

// parseMinutes accepts an integer, or a finite decimal truncated toward zero.
func parseMinutes(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
