package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStorage(t *testing.T) {
	tests := []struct {
		name          string
		entries       *string
		pools         *string
		wantEntries   StorageHealth
		wantPools     StorageHealth
		entryWarnings int
		poolWarnings  int
	}{
		{
			name:        "nothing stored",
			wantEntries: StorageHealth{Key: EntriesKey},
			wantPools:   StorageHealth{Key: PoolsKey},
		},
		{
			name:        "clean data",
			entries:     ptr("A --- Programming --- 600 --- 2024-03-10 09:00:00.000000\nB --- Reading --- 60 --- 2024-03-10 10:00:00.000000"),
			pools:       ptr("Programming --- 60\nReading --- 15"),
			wantEntries: StorageHealth{Key: EntriesKey, Found: true, TotalLines: 2, ValidRecords: 2},
			wantPools:   StorageHealth{Key: PoolsKey, Found: true, TotalLines: 2, ValidRecords: 2},
		},
		{
			name:          "corrupted lines",
			entries:       ptr("A --- B --- 1 --- 2024-01-01 00:00:00.000000\ngarbage\nC --- D --- x --- 2024-01-01 00:00:00.000000"),
			pools:         ptr("Reading\nProgramming --- 30"),
			wantEntries:   StorageHealth{Key: EntriesKey, Found: true, TotalLines: 3, ValidRecords: 2, CorruptedRecords: 2},
			wantPools:     StorageHealth{Key: PoolsKey, Found: true, TotalLines: 2, ValidRecords: 1, CorruptedRecords: 1},
			entryWarnings: 2,
			poolWarnings:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			b := newTestBackend(t)
			if tt.entries != nil {
				require.NoError(t, b.Set(ctx, EntriesKey, *tt.entries))
			}
			if tt.pools != nil {
				require.NoError(t, b.Set(ctx, PoolsKey, *tt.pools))
			}

			health, err := ValidateStorage(ctx, b)
			require.NoError(t, err)
			require.Len(t, health, 2)

			assertHealth(t, tt.wantEntries, health[0], tt.entryWarnings)
			assertHealth(t, tt.wantPools, health[1], tt.poolWarnings)
		})
	}
}

func assertHealth(t *testing.T, want, got StorageHealth, warnings int) {
	t.Helper()
	assert.Equal(t, want.Key, got.Key)
	assert.Equal(t, want.Found, got.Found)
	assert.Equal(t, want.TotalLines, got.TotalLines)
	assert.Equal(t, want.ValidRecords, got.ValidRecords)
	assert.Equal(t, want.CorruptedRecords, got.CorruptedRecords)
	assert.Len(t, got.Warnings, warnings)
	assert.Equal(t, warnings == 0, got.Healthy())
}

func ptr(s string) *string {
	return &s
}
