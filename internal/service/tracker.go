package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ptt-dev/ptt/internal/budget"
	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/log"
	"github.com/ptt-dev/ptt/internal/pool"
	"github.com/ptt-dev/ptt/internal/record"
	"github.com/ptt-dev/ptt/internal/storage"
)

// Common errors for the tracker
var (
	ErrEmptyField      = errors.New("project and category cannot be empty")
	ErrFieldSeparator  = fmt.Errorf("values cannot contain %q", entry.FieldSeparator)
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidDuration = errors.New("duration must be a positive number of seconds")
)

// Tracker owns the entry and pool stores. Every mutation is applied to the
// in-memory store first and then persisted; a failed write is logged and the
// in-memory state stays authoritative.
type Tracker struct {
	backend  storage.Backend
	entries  *entry.Store
	pools    *pool.Store
	loc      *time.Location
	logger   *log.Logger
	warnings []LoadWarning
	now      func() time.Time
}

// NewTracker creates a tracker over backend and hydrates it.
func NewTracker(ctx context.Context, backend storage.Backend, loc *time.Location, logger *log.Logger) *Tracker {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = log.Discard()
	}
	t := &Tracker{
		backend: backend,
		entries: entry.NewStore(nil),
		pools:   pool.NewStore(),
		loc:     loc,
		logger:  logger.WithComponent("tracker"),
		now:     time.Now,
	}
	t.Load(ctx)
	return t
}

// Load replaces both stores with the persisted blobs. A blob that cannot be
// read leaves its store empty.
func (t *Tracker) Load(ctx context.Context) {
	t.warnings = nil

	if content, ok := t.read(ctx, storage.EntriesKey); ok {
		result := entry.Parse(content)
		t.entries.Replace(result.Entries)
		t.collect(storage.EntriesKey, result.Warnings)
	} else {
		t.entries.Replace(nil)
	}

	if content, ok := t.read(ctx, storage.PoolsKey); ok {
		result := pool.Parse(content)
		t.pools.Replace(result.Pools)
		t.collect(storage.PoolsKey, result.Warnings)
	} else {
		t.pools.Replace(nil)
	}

	t.logger.Debug("stores loaded",
		"location", t.backend.Location(),
		"entries", t.entries.Len(),
		"pools", t.pools.Len(),
		"warnings", len(t.warnings))
}

func (t *Tracker) read(ctx context.Context, key string) (string, bool) {
	content, found, err := t.backend.Get(ctx, key)
	if err != nil {
		t.logger.Error("failed to read store", "key", key, "error", err)
		return "", false
	}
	return content, found
}

// Warnings returns the parse warnings of the last Load or Import.
func (t *Tracker) Warnings() []LoadWarning {
	return append([]LoadWarning(nil), t.warnings...)
}

// Location returns the timezone used to interpret start times.
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Now returns the tracker's current time in its location.
func (t *Tracker) Now() time.Time {
	return t.now().In(t.loc)
}

// Backend returns the storage backend.
func (t *Tracker) Backend() storage.Backend {
	return t.backend
}

// persistEntries writes the entry store. Errors are logged, not returned.
func (t *Tracker) persistEntries(ctx context.Context) {
	t.persist(ctx, storage.EntriesKey, entry.Format(t.entries.Entries()))
}

// persistPools writes the pool store. Errors are logged, not returned.
func (t *Tracker) persistPools(ctx context.Context) {
	t.persist(ctx, storage.PoolsKey, pool.Format(t.pools.Pools()))
}

func (t *Tracker) persist(ctx context.Context, key, content string) {
	if err := t.backend.Set(ctx, key, content); err != nil {
		t.logger.Error("failed to persist store", "key", key, "error", err)
	}
}

func (t *Tracker) backup(ctx context.Context, key string) {
	if err := storage.CreateBackup(ctx, t.backend, key); err != nil {
		t.logger.Warn("failed to back up store", "key", key, "error", err)
	}
}

// AddEntry validates and records a completed session.
func (t *Tracker) AddEntry(ctx context.Context, project, category string, seconds float64, start time.Time) (entry.TimeEntry, error) {
	project = strings.TrimSpace(project)
	category = strings.TrimSpace(category)
	if project == "" || category == "" {
		return entry.TimeEntry{}, ErrEmptyField
	}
	if entry.ContainsSeparator(project) || entry.ContainsSeparator(category) {
		return entry.TimeEntry{}, ErrFieldSeparator
	}
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return entry.TimeEntry{}, ErrInvalidDuration
	}

	e := t.entries.Add(project, category, seconds, entry.FormatStartTime(start.In(t.loc)))
	t.persistEntries(ctx)
	t.logger.Info("entry added", "project", e.Project, "category", e.Category, "duration", e.Duration)
	return e, nil
}

// Record stores an entry produced by a finalized session as is.
func (t *Tracker) Record(ctx context.Context, e entry.TimeEntry) entry.TimeEntry {
	added := t.entries.Add(e.Project, e.Category, e.Duration, e.StartTime)
	t.persistEntries(ctx)
	t.logger.Info("session recorded", "project", added.Project, "category", added.Category, "duration", added.Duration)
	return added
}

// RemoveEntry deletes the entry at the 0-based store index.
func (t *Tracker) RemoveEntry(ctx context.Context, index int) (entry.TimeEntry, error) {
	if index < 0 || index >= t.entries.Len() {
		return entry.TimeEntry{}, fmt.Errorf("%w: %d (have %d entries)", ErrIndexOutOfRange, index, t.entries.Len())
	}

	t.backup(ctx, storage.EntriesKey)
	removed, _ := t.entries.Remove(index)
	t.persistEntries(ctx)
	t.logger.Info("entry removed", "index", index, "project", removed.Project)
	return removed, nil
}

// RemoveListed deletes the entry shown at the 1-based position of Sorted.
func (t *Tracker) RemoveListed(ctx context.Context, position int) (entry.TimeEntry, error) {
	sorted := t.entries.Sorted(t.loc)
	if position < 1 || position > len(sorted) {
		return entry.TimeEntry{}, fmt.Errorf("%w: %d (have %d entries)", ErrIndexOutOfRange, position, len(sorted))
	}
	return t.RemoveEntry(ctx, sorted[position-1].Index)
}

// SetDailyMinutes sets the daily pool of category and returns the stored value.
func (t *Tracker) SetDailyMinutes(ctx context.Context, category string, minutes int) (int, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return 0, ErrEmptyField
	}
	if entry.ContainsSeparator(category) {
		return 0, ErrFieldSeparator
	}

	stored := t.pools.SetDailyMinutes(category, minutes)
	t.persistPools(ctx)
	return stored, nil
}

// DailyMinutes returns the daily pool of category, 0 when unset.
func (t *Tracker) DailyMinutes(category string) int {
	return t.pools.DailyMinutes(category)
}

// Entries returns all entries in insertion order.
func (t *Tracker) Entries() []entry.TimeEntry {
	return t.entries.Entries()
}

// Sorted returns all entries newest first.
func (t *Tracker) Sorted() []entry.IndexedEntry {
	return t.entries.Sorted(t.loc)
}

// Pools returns the daily minutes per category.
func (t *Tracker) Pools() map[string]int {
	return t.pools.Pools()
}

// Projects returns the distinct projects.
func (t *Tracker) Projects() []string {
	return t.entries.Projects()
}

// Categories returns the distinct categories of recorded entries.
func (t *Tracker) Categories() []string {
	return t.entries.Categories()
}

// ProjectsForCategory returns the distinct projects recorded under category.
func (t *Tracker) ProjectsForCategory(category string) []string {
	return t.entries.ProjectsForCategory(category)
}

// TotalDuration returns the recorded totals of project and of category.
func (t *Tracker) TotalDuration(project, category string) (float64, float64) {
	return t.entries.TotalDuration(project, category)
}

// Remaining returns the remaining pool seconds of category as of now.
func (t *Tracker) Remaining(category string, live *budget.Live) (float64, bool) {
	return budget.Remaining(t.pools, t.entries.Entries(), category, live, t.now(), t.loc)
}

// Rows builds the entries table, newest first. live is included in the
// pool remaining of its category.
func (t *Tracker) Rows(live *budget.Live) []EntryRow {
	sorted := t.entries.Sorted(t.loc)
	all := t.entries.Entries()
	now := t.now()

	remaining := map[string]float64{}
	hasPool := map[string]bool{}

	rows := make([]EntryRow, len(sorted))
	for i, ie := range sorted {
		cat := ie.Entry.Category
		if _, seen := hasPool[cat]; !seen {
			remaining[cat], hasPool[cat] = budget.Remaining(t.pools, all, cat, live, now, t.loc)
		}
		projectTotal, categoryTotal := t.entries.TotalDuration(ie.Entry.Project, cat)
		rows[i] = EntryRow{
			Position:      i + 1,
			Entry:         ie.Entry,
			Index:         ie.Index,
			Display:       entry.FormatDisplayTime(ie.Entry, t.loc),
			PoolRemaining: remaining[cat],
			HasPool:       hasPool[cat],
			ProjectTotal:  projectTotal,
			CategoryTotal: categoryTotal,
		}
	}
	return rows
}

// PoolRows builds the pools table over every category that has a pool or
// a recorded entry, sorted by name.
func (t *Tracker) PoolRows(live *budget.Live) []PoolRow {
	seen := map[string]struct{}{}
	var cats []string
	for _, c := range append(t.pools.Categories(), t.entries.Categories()...) {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		cats = append(cats, c)
	}
	sort.Strings(cats)

	all := t.entries.Entries()
	now := t.now()
	rows := make([]PoolRow, len(cats))
	for i, c := range cats {
		remaining, ok := budget.Remaining(t.pools, all, c, live, now, t.loc)
		_, total := t.entries.TotalDuration("", c)
		rows[i] = PoolRow{
			Category:     c,
			DailyMinutes: t.pools.DailyMinutes(c),
			Remaining:    remaining,
			HasPool:      ok,
			Total:        total,
		}
	}
	return rows
}

// Validate inspects the persisted blobs line by line.
func (t *Tracker) Validate(ctx context.Context) ([]storage.StorageHealth, error) {
	return storage.ValidateStorage(ctx, t.backend)
}

// Backups lists the backup generations of both stores, entries first.
func (t *Tracker) Backups(ctx context.Context) ([]storage.BackupInfo, error) {
	var all []storage.BackupInfo
	for _, key := range []string{storage.EntriesKey, storage.PoolsKey} {
		backups, err := storage.ListBackups(ctx, t.backend, key)
		if err != nil {
			return nil, err
		}
		all = append(all, backups...)
	}
	return all, nil
}

// Restore restores backup generation n of every store that has one and
// reloads. It returns the keys that were restored.
func (t *Tracker) Restore(ctx context.Context, n int) ([]string, error) {
	if n < 1 || n > storage.MaxBackupCount {
		return nil, fmt.Errorf("invalid backup number %d, must be between 1 and %d", n, storage.MaxBackupCount)
	}

	var restored []string
	for _, key := range []string{storage.EntriesKey, storage.PoolsKey} {
		_, found, err := t.backend.Get(ctx, storage.BackupKey(key, n))
		if err != nil {
			return restored, err
		}
		if !found {
			continue
		}
		if _, err := storage.RestoreBackup(ctx, t.backend, key, n); err != nil {
			return restored, fmt.Errorf("restore %s: %w", key, err)
		}
		restored = append(restored, key)
	}
	if len(restored) == 0 {
		return nil, fmt.Errorf("backup %d does not exist", n)
	}
	t.Load(ctx)
	return restored, nil
}

func (t *Tracker) collect(source string, warnings []record.ParseWarning) {
	for _, w := range warnings {
		t.logger.Warn("malformed line", "source", source, "line", w.LineNumber, "reason", w.Reason)
		t.warnings = append(t.warnings, LoadWarning{Source: source, ParseWarning: w})
	}
}
