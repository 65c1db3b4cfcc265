package cmd

import (
	"testing"

	"github.com/ptt-dev/ptt/internal/storage"
	"github.com/stretchr/testify/assert"
)

func TestRestoreFromBackup(t *testing.T) {
	env := setupTest(t)
	env.seed(seedEntries, "")
	yesFlag = true
	defer func() { yesFlag = false }()

	removeEntry("1")
	removeEntry("1")
	assert.Equal(t, "web --- Programming --- 3600 --- 2024-03-09 09:00:00.000000", env.stored(storage.EntriesKey))

	env.reset()
	restoreFromBackup([]string{"2"})

	assert.Equal(t, 0, env.exitCode, env.stderr.String())
	out := env.stdout.String()
	assert.Contains(t, out, "Available backups:")
	assert.Contains(t, out, "1: "+storage.EntriesKey)
	assert.Contains(t, out, "(most recent)")
	assert.Contains(t, out, "Restored "+storage.EntriesKey+" from backup 2")
	assert.Contains(t, out, "Now holding 3 entries and 0 pools")
	assert.Equal(t, seedEntries, env.stored(storage.EntriesKey))
}

func TestRestoreFromBackup_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		backups int
		wantErr string
		wantOut string
	}{
		{name: "not a number", args: []string{"x"}, wantErr: "Invalid backup number 'x'"},
		{name: "out of range", args: []string{"4"}, wantErr: "must be between 1 and 3 (got 4)"},
		{name: "no backups", wantOut: "No backups available"},
		{name: "missing generation", args: []string{"3"}, backups: 1, wantErr: "backup 3 does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t)
			env.seed(seedEntries, "")
			yesFlag = true
			defer func() { yesFlag = false }()
			for i := 0; i < tt.backups; i++ {
				removeEntry("1")
			}
			env.reset()

			restoreFromBackup(tt.args)

			assert.Equal(t, 1, env.exitCode)
			if tt.wantErr != "" {
				assert.Contains(t, env.stderr.String(), tt.wantErr)
			}
			if tt.wantOut != "" {
				assert.Contains(t, env.stdout.String(), tt.wantOut)
			}
		})
	}
}

func TestUndo(t *testing.T) {
	env := setupTest(t)
	env.seed(seedEntries, "")

	undoLast()
	assert.Equal(t, 1, env.exitCode)
	assert.Contains(t, env.stderr.String(), "Nothing to undo")

	yesFlag = true
	defer func() { yesFlag = false }()
	removeEntry("2")

	env.reset()
	undoLast()
	assert.Equal(t, 0, env.exitCode, env.stderr.String())
	assert.Contains(t, env.stdout.String(), "Undone: restored 1 store (2 → 3 entries)")
	assert.Equal(t, seedEntries, env.stored(storage.EntriesKey))

	env.reset()
	undoLast()
	assert.Contains(t, env.stdout.String(), "(3 → 2 entries)", "undoing twice undoes the undo")
}
