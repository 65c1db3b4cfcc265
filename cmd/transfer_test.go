package cmd

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/ptt-dev/ptt/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := setupTest(t)
	src.seed(seedEntries, "Programming --- 60")
	out := filepath.Join(t.TempDir(), "export")

	exportFiles(out)
	require.Equal(t, 0, src.exitCode, src.stderr.String())
	assert.Contains(t, src.stdout.String(), filepath.Join(out, service.EntriesExportName))
	assert.Contains(t, src.stdout.String(), filepath.Join(out, service.PoolsExportName))

	content, err := os.ReadFile(filepath.Join(out, service.EntriesExportName))
	require.NoError(t, err)
	assert.Equal(t, seedEntries, string(content))

	dst := setupTest(t)
	dst.seed("old --- Old --- 1 --- 2020-01-01 00:00:00.000000", "")

	importFiles([]string{out})

	require.Equal(t, 0, dst.exitCode, dst.stderr.String())
	assert.Contains(t, dst.stdout.String(), "Imported 3 entries from")
	assert.Contains(t, dst.stdout.String(), "Imported 1 pools from")
	assert.Equal(t, seedEntries, dst.stored(storage.EntriesKey))
	assert.Equal(t, "Programming --- 60", dst.stored(storage.PoolsKey))
	assert.Equal(t, "old --- Old --- 1 --- 2020-01-01 00:00:00.000000",
		dst.stored(storage.BackupKey(storage.EntriesKey, 1)), "replaced store is backed up")
}

func TestImport_SingleFileReplacesOnlyItsStore(t *testing.T) {
	env := setupTest(t)
	env.seed(seedEntries, "Programming --- 60")

	dir := t.TempDir()
	path := filepath.Join(dir, service.PoolsExportName)
	require.NoError(t, os.WriteFile(path, []byte("Reading --- 15\r\nbroken line\r\n"), 0644))

	importFiles([]string{path})

	assert.Equal(t, 0, env.exitCode, env.stderr.String())
	assert.Contains(t, env.stdout.String(), "Imported 1 pools from "+path)
	assert.NotContains(t, env.stdout.String(), "entries")
	assert.Contains(t, env.stderr.String(), "Warning: Found 1 corrupted line(s)")
	assert.Contains(t, env.stderr.String(), "Line 2: broken line (skipped")
	assert.Equal(t, seedEntries, env.stored(storage.EntriesKey))
	assert.Equal(t, "Reading --- 15", env.stored(storage.PoolsKey))
}

func TestImport_Notices(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name:  "no recognized files",
			files: map[string]string{"notes.txt": "web --- Programming --- 60 --- x"},
			want:  "Nothing imported: no valid files found",
		},
		{
			name:  "blank files",
			files: map[string]string{service.EntriesExportName: "  \n", service.PoolsExportName: ""},
			want:  "Nothing imported: the files are empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t)
			env.seed(seedEntries, "")
			dir := t.TempDir()
			for name, content := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
			}

			importFiles([]string{dir})

			assert.Equal(t, 0, env.exitCode, env.stderr.String())
			assert.Contains(t, env.stdout.String(), tt.want)
			assert.Equal(t, seedEntries, env.stored(storage.EntriesKey))
		})
	}
}

func TestImport_MissingPath(t *testing.T) {
	env := setupTest(t)

	importFiles([]string{filepath.Join(t.TempDir(), "missing")})

	assert.Equal(t, 1, env.exitCode)
	assert.Contains(t, env.stderr.String(), "Error: Failed to import")
}

func TestExportJSON(t *testing.T) {
	env := setupTest(t)
	env.seed(seedEntries+"\nodd --- Misc --- 60 --- not a time", "Programming --- 60")

	exportJSON()
	require.Equal(t, 0, env.exitCode, env.stderr.String())

	var data ExportData
	require.NoError(t, sonic.Unmarshal(env.stdout.Bytes(), &data))
	assert.Equal(t, "2024-03-10T18:00:00Z", data.ExportedAt)
	assert.Equal(t, 4, data.TotalEntries)
	assert.Equal(t, map[string]int{"Programming": 60}, data.Pools)
	require.Len(t, data.Entries, 4)
	assert.Equal(t, ExportEntry{
		Project:         "web",
		Category:        "Programming",
		DurationSeconds: 1800,
		StartTime:       "2024-03-10 10:00:00.000000",
		Started:         "2024-03-10T10:00:00Z",
	}, data.Entries[0])
	assert.Equal(t, "odd", data.Entries[3].Project, "unparseable start times sort last")
	assert.Empty(t, data.Entries[3].Started)
}

func TestExportCSV(t *testing.T) {
	env := setupTest(t)
	env.seed(seedEntries, "")

	exportCSV()
	require.Equal(t, 0, env.exitCode, env.stderr.String())

	records, err := csv.NewReader(strings.NewReader(env.stdout.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"project", "category", "duration_seconds", "duration", "start_time"},
		{"web", "Programming", "1800", "30:00", "2024-03-10 10:00:00.000000"},
		{"blog", "Writing", "900", "15:00", "2024-03-10 08:00:00.000000"},
		{"web", "Programming", "3600", "1:00:00", "2024-03-09 09:00:00.000000"},
	}, records)
}
