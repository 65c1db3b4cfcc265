// Package service provides the orchestration layer of ptt. It owns the
// in-memory entry and pool stores, persists them after every mutation, and
// drives the live session for both the CLI and the TUI.
package service

import (
	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/record"
	"github.com/ptt-dev/ptt/internal/session"
)

// EntryRow is one line of the entries table.
type EntryRow struct {
	Position      int // 1-based position as listed
	Entry         entry.TimeEntry
	Index         int     // 0-based index in the store
	Display       string  // start time as HH:MM DD.MM.YYYY, or "-"
	PoolRemaining float64 // remaining pool of the entry's category
	HasPool       bool
	ProjectTotal  float64
	CategoryTotal float64
}

// PoolRow is one line of the pools table.
type PoolRow struct {
	Category     string
	DailyMinutes int
	Remaining    float64
	HasPool      bool
	Total        float64 // everything recorded under the category
}

// LoadWarning is a parse warning tied to the blob it came from.
type LoadWarning struct {
	Source string // storage key or file path
	record.ParseWarning
}

// TimerStatus represents the current state of the live session
type TimerStatus struct {
	State         session.State
	Elapsed       float64 // seconds
	Project       string  // project the entry would be recorded under
	Category      string  // category the entry would be recorded under
	ProjectTotal  float64 // recorded project total plus the live session
	CategoryTotal float64 // recorded category total plus the live session
	PoolRemaining float64
	HasPool       bool
	ReminderDue   bool
}

// ImportResult summarizes an import.
type ImportResult struct {
	EntriesFile string // file that replaced the entry store, if any
	PoolsFile   string // file that replaced the pool store, if any
	Entries     int    // entries loaded from EntriesFile
	Pools       int    // categories loaded from PoolsFile
	Warnings    []LoadWarning
}

// Changed reports whether any store was replaced.
func (r ImportResult) Changed() bool {
	return r.EntriesFile != "" || r.PoolsFile != ""
}
