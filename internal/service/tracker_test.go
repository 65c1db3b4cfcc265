package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ptt-dev/ptt/internal/budget"
	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedEntries = "ptt --- Programming --- 600 --- 2024-03-10 09:00:00.000000\n" +
	"blog --- Writing --- 1200 --- 2024-03-09 14:30:00.000000\n" +
	"ptt --- Reading --- 300 --- 2024-03-10 12:00:00.000000"

func TestTracker_LoadsPersistedStores(t *testing.T) {
	b := newBackend(t)
	seed(t, b, seedEntries+"\nOnlyOneField", "Programming --- 60\nWriting --- 30")

	tr := newTestTracker(t, b)

	assert.Len(t, tr.Entries(), 3)
	assert.Equal(t, 60, tr.DailyMinutes("Programming"))
	require.Len(t, tr.Warnings(), 1)
	assert.Equal(t, storage.EntriesKey, tr.Warnings()[0].Source)
	assert.Equal(t, 4, tr.Warnings()[0].LineNumber)
}

func TestTracker_EmptyBackend(t *testing.T) {
	tr := newTestTracker(t, newBackend(t))

	assert.Empty(t, tr.Entries())
	assert.Empty(t, tr.Pools())
	assert.Empty(t, tr.Warnings())
}

func TestTracker_AddEntryPersists(t *testing.T) {
	b := newBackend(t)
	tr := newTestTracker(t, b)

	e, err := tr.AddEntry(context.Background(), " ptt ", "Programming", 90, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, entry.TimeEntry{Project: "ptt", Category: "Programming", Duration: 90, StartTime: "2024-03-10 09:00:00.000000"}, e)
	assert.Equal(t, "ptt --- Programming --- 90 --- 2024-03-10 09:00:00.000000", stored(t, b, storage.EntriesKey))
}

func TestTracker_AddEntryValidation(t *testing.T) {
	tests := []struct {
		name     string
		project  string
		category string
		seconds  float64
		wantErr  error
	}{
		{"empty project", "", "Programming", 10, ErrEmptyField},
		{"blank category", "ptt", "   ", 10, ErrEmptyField},
		{"separator in project", "a --- b", "Programming", 10, ErrFieldSeparator},
		{"separator in category", "ptt", "x --- y", 10, ErrFieldSeparator},
		{"negative duration", "ptt", "Programming", -1, ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t)
			tr := newTestTracker(t, b)

			_, err := tr.AddEntry(context.Background(), tt.project, tt.category, tt.seconds, fixedNow)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, tr.Entries())
			_, found, _ := b.Get(context.Background(), storage.EntriesKey)
			assert.False(t, found, "nothing is persisted on validation failure")
		})
	}
}

func TestTracker_PersistFailureKeepsMemoryState(t *testing.T) {
	var buf bytes.Buffer
	b := failingBackend{Backend: newBackend(t)}
	tr := NewTracker(context.Background(), b, time.UTC, bufferLogger(&buf))

	_, err := tr.AddEntry(context.Background(), "ptt", "Programming", 60, fixedNow)
	require.NoError(t, err, "write failures are not surfaced to the caller")

	stored, err := tr.SetDailyMinutes(context.Background(), "Programming", 30)
	require.NoError(t, err)
	assert.Equal(t, 30, stored)

	assert.Len(t, tr.Entries(), 1)
	assert.Equal(t, 30, tr.DailyMinutes("Programming"))
	assert.Contains(t, buf.String(), "failed to persist store")
	assert.Contains(t, buf.String(), errDiskFull.Error())
}

func TestTracker_RemoveEntry(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	seed(t, b, seedEntries, "")
	tr := newTestTracker(t, b)
	before := tr.Entries()

	removed, err := tr.RemoveEntry(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, before[1], removed)
	assert.Equal(t, []entry.TimeEntry{before[0], before[2]}, tr.Entries())
	assert.Equal(t, entry.Format([]entry.TimeEntry{before[0], before[2]}), stored(t, b, storage.EntriesKey))
	assert.Equal(t, seedEntries, stored(t, b, storage.BackupKey(storage.EntriesKey, 1)), "remove takes a backup first")
}

func TestTracker_RemoveEntryOutOfRange(t *testing.T) {
	b := newBackend(t)
	seed(t, b, seedEntries, "")
	tr := newTestTracker(t, b)

	for _, index := range []int{-1, 3, 100} {
		_, err := tr.RemoveEntry(context.Background(), index)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}
	assert.Len(t, tr.Entries(), 3)
}

func TestTracker_RemoveListed(t *testing.T) {
	b := newBackend(t)
	seed(t, b, seedEntries, "")
	tr := newTestTracker(t, b)

	// Listed newest first: Reading 12:00, Programming 09:00, Writing yesterday.
	removed, err := tr.RemoveListed(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Reading", removed.Category)

	_, err = tr.RemoveListed(context.Background(), 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = tr.RemoveListed(context.Background(), 3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestTracker_SetDailyMinutes(t *testing.T) {
	tests := []struct {
		name     string
		category string
		minutes  int
		want     int
		wantErr  error
		wantBlob string
	}{
		{"sets value", "Writing", 45, 45, nil, "Programming --- 60\nWriting --- 45"},
		{"clamps negative", "Writing", -5, 0, nil, "Programming --- 60\nWriting --- 0"},
		{"overwrites", "Programming", 90, 90, nil, "Programming --- 90"},
		{"empty category", " ", 10, 0, ErrEmptyField, "Programming --- 60"},
		{"separator", "a --- b", 10, 0, ErrFieldSeparator, "Programming --- 60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t)
			seed(t, b, "", "Programming --- 60")
			tr := newTestTracker(t, b)

			got, err := tr.SetDailyMinutes(context.Background(), tt.category, tt.minutes)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.wantBlob, stored(t, b, storage.PoolsKey))
		})
	}
}

func TestTracker_Remaining(t *testing.T) {
	b := newBackend(t)
	seed(t, b, "X --- Programming --- 600 --- 2024-03-10 09:00:00.000000", "Programming --- 60")
	tr := newTestTracker(t, b)

	remaining, ok := tr.Remaining("Programming", nil)
	assert.True(t, ok)
	assert.Equal(t, 3000.0, remaining)

	remaining, ok = tr.Remaining("Programming", &budget.Live{Category: "Programming", Elapsed: 60})
	assert.True(t, ok)
	assert.Equal(t, 2940.0, remaining)

	_, ok = tr.Remaining("Reading", nil)
	assert.False(t, ok)
}

func TestTracker_Rows(t *testing.T) {
	b := newBackend(t)
	seed(t, b, seedEntries, "Programming --- 60")
	tr := newTestTracker(t, b)

	rows := tr.Rows(nil)
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, "Reading", rows[0].Entry.Category)
	assert.Equal(t, 2, rows[0].Index)
	assert.Equal(t, "12:00 10.03.2024", rows[0].Display)
	assert.False(t, rows[0].HasPool)
	assert.Equal(t, 900.0, rows[0].ProjectTotal)
	assert.Equal(t, 300.0, rows[0].CategoryTotal)

	assert.Equal(t, "Programming", rows[1].Entry.Category)
	assert.True(t, rows[1].HasPool)
	assert.Equal(t, 3000.0, rows[1].PoolRemaining)
}

func TestTracker_PoolRows(t *testing.T) {
	b := newBackend(t)
	seed(t, b, seedEntries, "Programming --- 60\nGardening --- 10")
	tr := newTestTracker(t, b)

	rows := tr.PoolRows(nil)

	var cats []string
	for _, r := range rows {
		cats = append(cats, r.Category)
	}
	assert.Equal(t, []string{"Gardening", "Programming", "Reading", "Writing"}, cats)

	assert.Equal(t, PoolRow{Category: "Gardening", DailyMinutes: 10, Remaining: 600, HasPool: true}, rows[0])
	assert.Equal(t, PoolRow{Category: "Programming", DailyMinutes: 60, Remaining: 3000, HasPool: true, Total: 600}, rows[1])
	assert.Equal(t, PoolRow{Category: "Writing", Total: 1200}, rows[3])
}

func TestTracker_Queries(t *testing.T) {
	b := newBackend(t)
	seed(t, b, seedEntries, "")
	tr := newTestTracker(t, b)

	assert.Equal(t, []string{"blog", "ptt"}, tr.Projects())
	assert.Equal(t, []string{"Programming", "Reading", "Writing"}, tr.Categories())
	assert.Equal(t, []string{"ptt"}, tr.ProjectsForCategory("Reading"))

	project, category := tr.TotalDuration("ptt", "Writing")
	assert.Equal(t, 900.0, project)
	assert.Equal(t, 1200.0, category)
}

func TestTracker_ValidateAndRestore(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	seed(t, b, seedEntries, "Programming --- 60")
	tr := newTestTracker(t, b)

	_, err := tr.RemoveEntry(ctx, 0)
	require.NoError(t, err)
	require.Len(t, tr.Entries(), 2)

	backups, err := tr.Backups(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 1)

	restored, err := tr.Restore(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{storage.EntriesKey}, restored)
	assert.Len(t, tr.Entries(), 3)

	health, err := tr.Validate(ctx)
	require.NoError(t, err)
	for _, h := range health {
		assert.True(t, h.Healthy(), h.Key)
	}

	_, err = tr.Restore(ctx, 3)
	assert.Error(t, err)
	_, err = tr.Restore(ctx, 0)
	assert.Error(t, err)
}

func TestTracker_LoadLogsMalformedLines(t *testing.T) {
	var buf bytes.Buffer
	b := newBackend(t)
	seed(t, b, "garbage line", "Reading")

	NewTracker(context.Background(), b, time.UTC, bufferLogger(&buf))

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "malformed line"))
	assert.Contains(t, out, "component=tracker")
}
