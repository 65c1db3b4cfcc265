package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ptt-dev/ptt/internal/budget"
	"github.com/ptt-dev/ptt/internal/config"
	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/log"
	"github.com/ptt-dev/ptt/internal/session"
)

// Session-specific errors
var (
	ErrNoSession      = errors.New("no session is active")
	ErrSessionRunning = errors.New("session is already running")
	ErrSessionPaused  = errors.New("session is already paused")
)

// StartOptions customizes TimerService.Start. Empty fields keep the values of
// the previous session.
type StartOptions struct {
	Project  string
	Category string
	// ReminderMinutes overrides the reminder interval when non-nil.
	ReminderMinutes *int
}

// TimerService drives the live session. The session survives between
// processes in a JSON state file.
type TimerService struct {
	sessionPath string
	tracker     *Tracker
	config      config.Config
	logger      *log.Logger
	now         func() time.Time
}

// NewTimerService creates a new TimerService
func NewTimerService(sessionPath string, tracker *Tracker, cfg config.Config, logger *log.Logger) *TimerService {
	if logger == nil {
		logger = log.Discard()
	}
	return &TimerService{
		sessionPath: sessionPath,
		tracker:     tracker,
		config:      cfg,
		logger:      logger.WithComponent("timer"),
		now:         time.Now,
	}
}

// State loads the persisted session.
func (s *TimerService) State() (session.State, error) {
	state, err := session.Load(s.sessionPath)
	if err != nil {
		return session.State{}, fmt.Errorf("failed to load session state: %w", err)
	}
	return state, nil
}

func (s *TimerService) save(state session.State) error {
	if err := session.Save(s.sessionPath, state); err != nil {
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}

// Start begins a new session, or resumes a paused one. Project and category
// given in opts replace the current ones.
func (s *TimerService) Start(opts StartOptions) (session.State, error) {
	state, err := s.State()
	if err != nil {
		return session.State{}, err
	}
	if state.Running() {
		return state, ErrSessionRunning
	}
	if err := validateLabel(opts.Project); err != nil {
		return state, err
	}
	if err := validateLabel(opts.Category); err != nil {
		return state, err
	}

	now := s.now()
	if p := strings.TrimSpace(opts.Project); p != "" {
		state.Project = p
	}
	if c := strings.TrimSpace(opts.Category); c != "" {
		state.Category = c
	}
	switch {
	case opts.ReminderMinutes != nil:
		state.SetReminderMinutes(*opts.ReminderMinutes, now)
	case !state.Active() && state.ReminderInterval == 0 && s.config.ReminderMinutes > 0:
		state.SetReminderMinutes(s.config.ReminderMinutes, now)
	}

	state.Start(now)
	if err := s.save(state); err != nil {
		return state, err
	}
	s.logger.Info("session started", "project", state.Project, "category", state.Category)
	return state, nil
}

// Pause pauses the running session.
func (s *TimerService) Pause() (session.State, error) {
	state, err := s.State()
	if err != nil {
		return session.State{}, err
	}
	if !state.Active() {
		return state, ErrNoSession
	}
	if state.Paused() {
		return state, ErrSessionPaused
	}

	state.Pause(s.now())
	return state, s.save(state)
}

// Resume continues a paused session.
func (s *TimerService) Resume() (session.State, error) {
	state, err := s.State()
	if err != nil {
		return session.State{}, err
	}
	if !state.Active() {
		return state, ErrNoSession
	}
	if !state.Resume(s.now()) {
		return state, ErrSessionRunning
	}
	return state, s.save(state)
}

// Toggle pauses a running session and starts or resumes any other.
func (s *TimerService) Toggle() (session.State, error) {
	state, err := s.State()
	if err != nil {
		return session.State{}, err
	}
	if state.Running() {
		return s.Pause()
	}
	return s.Start(StartOptions{})
}

// Stop finalizes the session into an entry and records it.
func (s *TimerService) Stop(ctx context.Context) (entry.TimeEntry, error) {
	state, err := s.State()
	if err != nil {
		return entry.TimeEntry{}, err
	}

	e, ok := state.Finalize(s.now(), s.defaults(), s.tracker.Location())
	if !ok {
		return entry.TimeEntry{}, ErrNoSession
	}
	recorded := s.tracker.Record(ctx, e)

	// The entry is stored; only the session reset failed.
	if err := s.save(state); err != nil {
		s.logger.Warn("entry saved but failed to reset session", "error", err)
	}
	return recorded, nil
}

// Cancel discards the session without recording an entry.
func (s *TimerService) Cancel() (session.State, error) {
	state, err := s.State()
	if err != nil {
		return session.State{}, err
	}
	if !state.Active() {
		return state, ErrNoSession
	}

	discarded := state
	state.Reset()
	if err := s.save(state); err != nil {
		return discarded, err
	}
	s.logger.Info("session cancelled", "elapsed", discarded.Elapsed(s.now()))
	return discarded, nil
}

// SetLabels renames the project and category of the session without
// touching its timer. Empty values clear the label so defaults apply.
func (s *TimerService) SetLabels(project, category string) (session.State, error) {
	state, err := s.State()
	if err != nil {
		return session.State{}, err
	}
	if err := validateLabel(project); err != nil {
		return state, err
	}
	if err := validateLabel(category); err != nil {
		return state, err
	}
	state.Project = strings.TrimSpace(project)
	state.Category = strings.TrimSpace(category)
	return state, s.save(state)
}

// SetReminder changes the reminder interval of the current and future
// sessions.
func (s *TimerService) SetReminder(minutes int) (session.State, error) {
	state, err := s.State()
	if err != nil {
		return session.State{}, err
	}
	state.SetReminderMinutes(minutes, s.now())
	return state, s.save(state)
}

// Status reports the live session together with the totals it affects. A
// reminder is reported once per threshold.
func (s *TimerService) Status() (TimerStatus, error) {
	state, err := s.State()
	if err != nil {
		return TimerStatus{}, err
	}
	return s.StatusOf(&state, true)
}

// StatusOf computes the status of an in-memory state. When persist is true
// and a reminder fired, the advanced threshold is saved.
func (s *TimerService) StatusOf(state *session.State, persist bool) (TimerStatus, error) {
	now := s.now()
	defaults := s.defaults()

	status := TimerStatus{
		State:    *state,
		Elapsed:  state.Elapsed(now),
		Project:  orDefault(state.Project, defaults.Project),
		Category: orDefault(state.Category, defaults.Category),
	}

	projectTotal, categoryTotal := s.tracker.TotalDuration(status.Project, status.Category)
	status.ProjectTotal = projectTotal
	status.CategoryTotal = categoryTotal

	var live *budget.Live
	if state.Active() {
		status.ProjectTotal += status.Elapsed
		status.CategoryTotal += status.Elapsed
		live = &budget.Live{Category: status.Category, Elapsed: status.Elapsed}
	}
	status.PoolRemaining, status.HasPool = s.tracker.Remaining(status.Category, live)

	if state.DueReminder(now) {
		status.ReminderDue = true
		status.State = *state
		if persist {
			if err := s.save(*state); err != nil {
				return status, err
			}
		}
	}
	return status, nil
}

// Live returns the budget view of the persisted session, or nil when idle.
func (s *TimerService) Live() *budget.Live {
	state, err := s.State()
	if err != nil || !state.Active() {
		return nil
	}
	return &budget.Live{
		Category: orDefault(state.Category, s.defaults().Category),
		Elapsed:  state.Elapsed(s.now()),
	}
}

// defaults fill in unnamed sessions.
func (s *TimerService) defaults() session.Defaults {
	return session.Defaults{Project: s.config.DefaultProject, Category: s.config.DefaultCategory}
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func validateLabel(value string) error {
	if entry.ContainsSeparator(value) {
		return ErrFieldSeparator
	}
	return nil
}
