package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/ptt-dev/ptt/internal/config"
	"github.com/ptt-dev/ptt/internal/log"
	"github.com/ptt-dev/ptt/internal/session"
	"github.com/ptt-dev/ptt/internal/storage"
	"github.com/stretchr/testify/require"
)

// fixedNow is "today" in every service test.
var fixedNow = time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)

var errDiskFull = errors.New("disk full")

// failingBackend rejects every write.
type failingBackend struct {
	storage.Backend
}

func (failingBackend) Set(context.Context, string, string) error {
	return errDiskFull
}

func newBackend(t *testing.T) *storage.FileBackend {
	t.Helper()
	b, err := storage.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	return b
}

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	return cfg
}

func bufferLogger(buf *bytes.Buffer) *log.Logger {
	return log.New(log.Config{Level: slog.LevelDebug, Component: "test", Output: buf})
}

func newTestTracker(t *testing.T, b storage.Backend) *Tracker {
	t.Helper()
	tr := NewTracker(context.Background(), b, time.UTC, nil)
	tr.now = func() time.Time { return fixedNow }
	return tr
}

// newTestServices wires services over a temp file backend with a clock that
// the returned pointer controls.
func newTestServices(t *testing.T) (*Services, *time.Time) {
	t.Helper()
	dir := t.TempDir()
	b, err := storage.NewFileBackend(filepath.Join(dir, "data"))
	require.NoError(t, err)

	svc := NewServicesWith(context.Background(), b,
		filepath.Join(dir, session.SessionFile), filepath.Join(dir, config.ConfigFile), testConfig(), nil)

	now := fixedNow
	clock := func() time.Time { return now }
	svc.SetClock(clock)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, &now
}

func seed(t *testing.T, b storage.Backend, entries, pools string) {
	t.Helper()
	ctx := context.Background()
	if entries != "" {
		require.NoError(t, b.Set(ctx, storage.EntriesKey, entries))
	}
	if pools != "" {
		require.NoError(t, b.Set(ctx, storage.PoolsKey, pools))
	}
}

func stored(t *testing.T, b storage.Backend, key string) string {
	t.Helper()
	v, _, err := b.Get(context.Background(), key)
	require.NoError(t, err)
	return v
}
