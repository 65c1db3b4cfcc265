package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns one instance of every backend kind, each in its own dir.
func backends(t *testing.T) map[string]Backend {
	t.Helper()

	file, err := NewFileBackend(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	db, err := NewSQLiteBackend(SQLitePath(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return map[string]Backend{"file": file, "sqlite": db}
}

func TestBackend_GetMissingKey(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			value, found, err := b.Get(context.Background(), EntriesKey)
			require.NoError(t, err)
			assert.False(t, found)
			assert.Empty(t, value)
		})
	}
}

func TestBackend_SetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Set(ctx, PoolsKey, "Programming --- 60"))
			require.NoError(t, b.Set(ctx, PoolsKey, "Programming --- 90\nReading --- 15"))

			value, found, err := b.Get(ctx, PoolsKey)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "Programming --- 90\nReading --- 15", value)
		})
	}
}

func TestBackend_EmptyValueIsFound(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Set(ctx, EntriesKey, ""))

			value, found, err := b.Get(ctx, EntriesKey)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Empty(t, value)
		})
	}
}

func TestBackend_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Set(ctx, EntriesKey, "x"))
			require.NoError(t, b.Delete(ctx, EntriesKey))
			require.NoError(t, b.Delete(ctx, EntriesKey))

			_, found, err := b.Get(ctx, EntriesKey)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestBackend_InvalidKeys(t *testing.T) {
	ctx := context.Background()
	keys := []string{"", ".", "..", "a/b", `a\b`, "a\x00b"}

	for name, b := range backends(t) {
		for _, key := range keys {
			t.Run(name+"/"+key, func(t *testing.T) {
				assert.ErrorIs(t, b.Set(ctx, key, "v"), ErrInvalidKey)
				_, _, err := b.Get(ctx, key)
				assert.ErrorIs(t, err, ErrInvalidKey)
				assert.ErrorIs(t, b.Delete(ctx, key), ErrInvalidKey)
			})
		}
	}
}

func TestFileBackend_WritesPlainTextFile(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, b.Set(context.Background(), EntriesKey, "A --- B --- 5 --- 2024-01-01 00:00:00.000000"))

	data, err := os.ReadFile(filepath.Join(dir, EntriesKey+FileSuffix))
	require.NoError(t, err)
	assert.Equal(t, "A --- B --- 5 --- 2024-01-01 00:00:00.000000", string(data))

	_, err = os.Stat(b.Path(EntriesKey) + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should not remain after write")
	assert.Equal(t, dir, b.Location())
}

func TestSQLiteBackend_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := SQLitePath(t.TempDir())

	first, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, PoolsKey, "Reading --- 30"))
	require.NoError(t, first.Close())

	second, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	value, found, err := second.Get(ctx, PoolsKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Reading --- 30", value)
	assert.Equal(t, path, second.Location())
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		wantErr bool
	}{
		{"default is file", "", false},
		{"file", "file", false},
		{"sqlite", "sqlite", false},
		{"unknown", "redis", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Open(tt.kind, t.TempDir())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, b.Close())
		})
	}
}
