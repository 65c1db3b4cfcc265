package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEntries(t *testing.T) {
	env := setupTest(t)
	env.seed(seedEntries, "Programming --- 60")

	listEntries()

	require.Equal(t, 0, env.exitCode, env.stderr.String())
	lines := strings.Split(strings.TrimSpace(env.stdout.String()), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "#  Start"), lines[0])
	assert.Equal(t, []string{"1", "10:00", "10.03.2024", "web", "Programming", "30:00", "1:30:00", "1:30:00", "30:00"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "08:00", "10.03.2024", "blog", "Writing", "15:00", "15:00", "15:00", "-"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"3", "09:00", "09.03.2024", "web", "Programming", "1:00:00", "1:30:00", "1:30:00", "30:00"}, strings.Fields(lines[3]))
	assert.Equal(t, "", lines[4])
	assert.Equal(t, "3 sessions recorded", lines[5])
}

func TestListEntries_LiveSessionDrawsFromPool(t *testing.T) {
	env := setupTest(t)
	env.seed(seedEntries, "Programming --- 60")
	startSession("web", "Programming", nil)
	env.advance(10 * time.Minute)
	env.reset()

	listEntries()

	lines := strings.Split(env.stdout.String(), "\n")
	assert.Equal(t, "20:00", lastField(lines[1]))
}

func TestListEntries_Empty(t *testing.T) {
	env := setupTest(t)

	listEntries()

	assert.Equal(t, 0, env.exitCode)
	assert.Contains(t, env.stdout.String(), "No entries recorded")
}

func TestListEntries_ReportsCorruptedLines(t *testing.T) {
	env := setupTest(t)
	env.seed(seedEntries+"\nonly --- two\nweb --- Programming --- soon --- 2024-03-10 11:00:00.000000", "")

	listEntries()

	stderr := env.stderr.String()
	assert.Contains(t, stderr, "Warning: Found 2 corrupted line(s) in storage:")
	assert.Contains(t, stderr, "Line 4: only --- two (skipped")
	assert.Contains(t, stderr, "Line 5: web --- Programming --- soon --- 2024-03-10 11:... (repaired")
	assert.Contains(t, env.stdout.String(), "4 sessions recorded")
}

func TestValidateStorage(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		env := setupTest(t)
		env.seed(seedEntries, "")

		validateStorage()

		out := env.stdout.String()
		assert.Contains(t, out, "Valid records:     3")
		assert.Contains(t, out, "not written yet")
		assert.Contains(t, out, "Status: ✓ Storage is healthy")
		assert.Empty(t, env.stderr.String())
	})

	t.Run("corrupted", func(t *testing.T) {
		env := setupTest(t)
		env.seed(seedEntries+"\ngarbage", "Programming --- many")

		validateStorage()

		out := env.stdout.String()
		assert.Contains(t, out, "Corrupted records: 1")
		assert.Contains(t, out, "Line 4: garbage (skipped")
		assert.Contains(t, out, "Line 1: Programming --- many (skipped")
		assert.Contains(t, env.stderr.String(), "Storage has 2 corrupted line(s)")
	})
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2024-03-10")
	defer SetVersionInfo("", "", "")

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--version"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		ResetFlags()
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "ptt version 1.2.3\ncommit: abc123\nbuilt: 2024-03-10\n", buf.String())
}

func lastField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
