// Package session models the live, in-progress work session: start, pause,
// resume and finalize, plus the periodic reminder.
package session

import (
	"time"

	"github.com/ptt-dev/ptt/internal/entry"
)

// ReminderChoices are the reminder intervals, in minutes, offered by pickers.
var ReminderChoices = []int{0, 15, 30, 60, 120}

// State is the timer of one session. The zero value is an idle timer.
//
// Accumulated holds the seconds of completed running spans; the span that
// is currently running starts at CurrentStart.
type State struct {
	Project          string     `json:"project,omitempty"`
	Category         string     `json:"category,omitempty"`
	FirstStart       *time.Time `json:"first_start,omitempty"`
	CurrentStart     *time.Time `json:"current_start,omitempty"`
	Accumulated      float64    `json:"accumulated_seconds"`
	ReminderInterval float64    `json:"reminder_interval_seconds,omitempty"`
	NextReminder     float64    `json:"next_reminder_seconds,omitempty"`
}

// Defaults fill in project and category when a session is finalized with
// either left empty.
type Defaults struct {
	Project  string
	Category string
}

// Active reports whether the session has been started and not finalized.
func (s State) Active() bool {
	return s.FirstStart != nil
}

// Running reports whether the session is currently counting.
func (s State) Running() bool {
	return s.CurrentStart != nil
}

// Paused reports whether the session is active but not counting.
func (s State) Paused() bool {
	return s.Active() && !s.Running()
}

// Elapsed returns the total counted seconds as of now.
func (s State) Elapsed(now time.Time) float64 {
	total := s.Accumulated
	if s.CurrentStart != nil {
		total += now.Sub(*s.CurrentStart).Seconds()
	}
	return total
}

// Start starts a new session or resumes a paused one. It is a no-op while
// running.
func (s *State) Start(now time.Time) {
	if s.Running() {
		return
	}
	start := now
	s.CurrentStart = &start
	if s.FirstStart == nil {
		first := now
		s.FirstStart = &first
	}
	if s.ReminderInterval > 0 {
		s.NextReminder = s.nextThreshold(s.Accumulated)
	}
}

// Pause stops counting and folds the running span into Accumulated. It is a
// no-op unless running.
func (s *State) Pause(now time.Time) {
	if !s.Running() {
		return
	}
	s.Accumulated += now.Sub(*s.CurrentStart).Seconds()
	s.CurrentStart = nil
}

// Resume continues a paused session. It reports false, changing nothing, when
// the session is idle or already running.
func (s *State) Resume(now time.Time) bool {
	if !s.Paused() {
		return false
	}
	s.Start(now)
	return true
}

// Toggle pauses a running session and starts or resumes any other.
func (s *State) Toggle(now time.Time) {
	if s.Running() {
		s.Pause(now)
		return
	}
	s.Start(now)
}

// Finalize ends the session and returns the entry it produced. ok is false
// when the session was never started. The state is reset either way, but
// the reminder interval is kept.
func (s *State) Finalize(now time.Time, defaults Defaults, loc *time.Location) (e entry.TimeEntry, ok bool) {
	if s.FirstStart == nil {
		return entry.TimeEntry{}, false
	}
	s.Pause(now)

	project := s.Project
	if project == "" {
		project = defaults.Project
	}
	category := s.Category
	if category == "" {
		category = defaults.Category
	}
	first := *s.FirstStart
	if loc != nil {
		first = first.In(loc)
	}

	e = entry.TimeEntry{
		Project:   project,
		Category:  category,
		Duration:  s.Accumulated,
		StartTime: entry.FormatStartTime(first),
	}
	s.Reset()
	return e, true
}

// Reset discards the session, keeping project, category and reminder
// settings.
func (s *State) Reset() {
	s.FirstStart = nil
	s.CurrentStart = nil
	s.Accumulated = 0
	s.NextReminder = 0
}

// SetReminderMinutes changes the reminder interval. Zero disables reminders.
func (s *State) SetReminderMinutes(minutes int, now time.Time) {
	if minutes < 0 {
		minutes = 0
	}
	s.ReminderInterval = float64(minutes * 60)
	switch {
	case s.ReminderInterval == 0:
		s.NextReminder = 0
	case s.Running():
		s.NextReminder = s.nextThreshold(s.Elapsed(now))
	}
}

// DueReminder reports whether elapsed time crossed the next reminder
// threshold and, if so, arms the following one.
func (s *State) DueReminder(now time.Time) bool {
	if s.NextReminder <= 0 || s.ReminderInterval <= 0 || !s.Running() {
		return false
	}
	if s.Elapsed(now) < s.NextReminder {
		return false
	}
	s.NextReminder += s.ReminderInterval
	return true
}

// nextThreshold is the first multiple of the interval strictly above elapsed.
func (s *State) nextThreshold(elapsed float64) float64 {
	n := int64(elapsed / s.ReminderInterval)
	return float64(n+1) * s.ReminderInterval
}
