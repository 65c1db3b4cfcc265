package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ptt-dev/ptt/internal/config"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/ptt-dev/ptt/internal/session"
	"github.com/ptt-dev/ptt/internal/storage"
	"github.com/stretchr/testify/require"
)

// fixedNow is "now" in every command test.
var fixedNow = time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)

// testEnv captures command output and owns the data of one test. Every
// command invocation opens fresh services over the same directory, the way
// separate processes would.
type testEnv struct {
	t        *testing.T
	dir      string
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	exitCode int
	now      time.Time
	config   config.Config
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"

	env := &testEnv{
		t:      t,
		dir:    t.TempDir(),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		now:    fixedNow,
		config: cfg,
	}
	env.setStdin("")
	t.Cleanup(ResetDeps)
	return env
}

func (e *testEnv) setStdin(input string) {
	SetDeps(&Deps{
		Stdout:   e.stdout,
		Stderr:   e.stderr,
		Stdin:    strings.NewReader(input),
		Exit:     func(code int) { e.exitCode = code },
		Services: e.services,
	})
}

func (e *testEnv) dataDir() string {
	return filepath.Join(e.dir, "data")
}

func (e *testEnv) configPath() string {
	return filepath.Join(e.dir, config.ConfigFile)
}

func (e *testEnv) services(ctx context.Context) (*service.Services, error) {
	b, err := storage.NewFileBackend(e.dataDir())
	if err != nil {
		return nil, err
	}
	s := service.NewServicesWith(ctx, b, filepath.Join(e.dir, session.SessionFile), e.configPath(), e.config, nil)
	s.SetClock(func() time.Time { return e.now })
	return s, nil
}

// advance moves the clock forward.
func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

// reset clears captured output and the exit code.
func (e *testEnv) reset() {
	e.stdout.Reset()
	e.stderr.Reset()
	e.exitCode = 0
}

func (e *testEnv) seed(entries, pools string) {
	e.t.Helper()
	b, err := storage.NewFileBackend(e.dataDir())
	require.NoError(e.t, err)
	ctx := context.Background()
	if entries != "" {
		require.NoError(e.t, b.Set(ctx, storage.EntriesKey, entries))
	}
	if pools != "" {
		require.NoError(e.t, b.Set(ctx, storage.PoolsKey, pools))
	}
}

func (e *testEnv) stored(key string) string {
	e.t.Helper()
	b, err := storage.NewFileBackend(e.dataDir())
	require.NoError(e.t, err)
	v, _, err := b.Get(context.Background(), key)
	require.NoError(e.t, err)
	return v
}

// seedEntries holds three entries over two days, stored oldest first.
const seedEntries = `web --- Programming --- 3600 --- 2024-03-09 09:00:00.000000
blog --- Writing --- 900 --- 2024-03-10 08:00:00.000000
web --- Programming --- 1800 --- 2024-03-10 10:00:00.000000`
