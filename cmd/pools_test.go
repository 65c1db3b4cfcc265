package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/ptt-dev/ptt/internal/storage"
	"github.com/stretchr/testify/assert"
)

func TestListPools(t *testing.T) {
	env := setupTest(t)
	env.seed(seedEntries, "Programming --- 60\nReading --- 30")

	listPools()

	assert.Equal(t, 0, env.exitCode, env.stderr.String())
	lines := strings.Split(strings.TrimSpace(env.stdout.String()), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, []string{"Category", "Daily", "Pool", "left", "Total"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Programming", "1h", "30:00", "1:30:00"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Reading", "30m", "30:00", "0:00"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"Writing", "-", "-", "15:00"}, strings.Fields(lines[3]))
}

func TestListPools_IncludesLiveSession(t *testing.T) {
	env := setupTest(t)
	env.seed(seedEntries, "Programming --- 60")

	startSession("web", "Programming", nil)
	env.advance(40 * time.Minute)
	env.reset()

	listPools()

	assert.Contains(t, env.stdout.String(), "-10:00")
}

func TestListPools_Empty(t *testing.T) {
	env := setupTest(t)

	listPools()

	assert.Contains(t, env.stdout.String(), "No categories yet")
}

func TestSetPool(t *testing.T) {
	tests := []struct {
		name    string
		minutes string
		want    string
		stored  string
	}{
		{"sets minutes", "90", "Pool of Reading set to 1h 30m per day (left: 1:30:00)", "Reading --- 90"},
		{"zero disables", "0", "Pool of Reading disabled", "Reading --- 0"},
		{"negative clamps", "-5", "Pool of Reading disabled", "Reading --- 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t)

			setPool("Reading", tt.minutes)

			assert.Equal(t, 0, env.exitCode, env.stderr.String())
			assert.Contains(t, env.stdout.String(), tt.want)
			assert.Equal(t, tt.stored, env.stored(storage.PoolsKey))
		})
	}
}

func TestSetPool_Errors(t *testing.T) {
	tests := []struct {
		name     string
		category string
		minutes  string
		wantErr  string
	}{
		{"not a number", "Reading", "lots", "Invalid minutes 'lots'"},
		{"empty category", " ", "30", "cannot be empty"},
		{"separator", "a --- b", "30", "cannot contain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t)

			setPool(tt.category, tt.minutes)

			assert.Equal(t, 1, env.exitCode)
			assert.Contains(t, env.stderr.String(), tt.wantErr)
		})
	}
}

func TestListCategoriesAndProjects(t *testing.T) {
	env := setupTest(t)

	listCategories()
	assert.Contains(t, env.stdout.String(), "No categories recorded")
	env.reset()
	listProjects("")
	assert.Contains(t, env.stdout.String(), "No projects recorded")

	env.seed(seedEntries, "")

	env.reset()
	listCategories()
	assert.Equal(t, "Programming\nWriting\n", env.stdout.String())

	env.reset()
	listProjects("")
	assert.Equal(t, "blog\nweb\n", env.stdout.String())

	env.reset()
	listProjects("Writing")
	assert.Equal(t, "blog\n", env.stdout.String())

	env.reset()
	listProjects("Reading")
	assert.Contains(t, env.stdout.String(), "No projects recorded under Reading")
}
