package entry

import (
	"sort"
	"time"
)

// Store is the ordered collection of completed sessions. It performs no I/O;
// callers persist after mutating it.
type Store struct {
	entries []TimeEntry
}

// NewStore creates a store holding a copy of entries.
func NewStore(entries []TimeEntry) *Store {
	s := &Store{}
	s.Replace(entries)
	return s
}

// Replace swaps the whole content of the store.
func (s *Store) Replace(entries []TimeEntry) {
	s.entries = append([]TimeEntry(nil), entries...)
}

// Add appends a new entry. Values are accepted as given.
func (s *Store) Add(project, category string, duration float64, startTime string) TimeEntry {
	e := TimeEntry{
		Project:   project,
		Category:  category,
		Duration:  duration,
		StartTime: startTime,
	}
	s.entries = append(s.entries, e)
	return e
}

// Remove deletes the entry at the 0-based index. An out-of-range index is a
// no-op and returns false.
func (s *Store) Remove(index int) (TimeEntry, bool) {
	if index < 0 || index >= len(s.entries) {
		return TimeEntry{}, false
	}
	removed := s.entries[index]
	s.entries = append(s.entries[:index:index], s.entries[index+1:]...)
	return removed, true
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the entries in insertion order.
func (s *Store) Entries() []TimeEntry {
	return append([]TimeEntry(nil), s.entries...)
}

// Projects returns the distinct projects, sorted ascending.
func (s *Store) Projects() []string {
	return distinct(s.entries, func(e TimeEntry) (string, bool) { return e.Project, true })
}

// Categories returns the distinct categories, sorted ascending.
func (s *Store) Categories() []string {
	return distinct(s.entries, func(e TimeEntry) (string, bool) { return e.Category, true })
}

// ProjectsForCategory returns the distinct projects recorded under category,
// sorted ascending.
func (s *Store) ProjectsForCategory(category string) []string {
	return distinct(s.entries, func(e TimeEntry) (string, bool) {
		return e.Project, e.Category == category
	})
}

// TotalDuration returns two independent sums: all entries of project
// regardless of category, and all entries of category regardless of project.
func (s *Store) TotalDuration(project, category string) (projectTotal, categoryTotal float64) {
	for _, e := range s.entries {
		if e.Project == project {
			projectTotal += e.Duration
		}
		if e.Category == category {
			categoryTotal += e.Duration
		}
	}
	return projectTotal, categoryTotal
}

// Sorted returns the entries newest first by parsed start time. Entries whose
// start time does not parse sort last, keeping their relative order.
func (s *Store) Sorted(loc *time.Location) []IndexedEntry {
	type keyed struct {
		IndexedEntry
		at time.Time
		ok bool
	}
	items := make([]keyed, len(s.entries))
	for i, e := range s.entries {
		at, ok := e.Started(loc)
		items[i] = keyed{IndexedEntry: IndexedEntry{Entry: e, Index: i}, at: at, ok: ok}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		return a.at.After(b.at)
	})

	out := make([]IndexedEntry, len(items))
	for i, it := range items {
		out[i] = it.IndexedEntry
	}
	return out
}

func distinct(entries []TimeEntry, pick func(TimeEntry) (string, bool)) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for _, e := range entries {
		v, ok := pick(e)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
