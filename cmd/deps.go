package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ptt-dev/ptt/internal/cli"
	"github.com/ptt-dev/ptt/internal/service"
)

// Deps holds external dependencies for CLI commands, enabling testability.
type Deps struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Stdin    io.Reader
	Exit     func(code int)
	Services func(ctx context.Context) (*service.Services, error)
}

// DefaultDeps returns the default production dependencies.
func DefaultDeps() *Deps {
	return &Deps{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
		Exit:   os.Exit,
		Services: func(ctx context.Context) (*service.Services, error) {
			return service.NewServices(ctx, nil)
		},
	}
}

// deps is the global dependencies instance used by commands.
// In production, this is DefaultDeps(). Tests can replace it.
var deps = DefaultDeps()

// SetDeps sets the global dependencies (for testing).
func SetDeps(d *Deps) {
	deps = d
}

// ResetDeps resets dependencies to defaults (for testing cleanup).
func ResetDeps() {
	deps = DefaultDeps()
}

// withServices opens the services, runs fn and closes them again. A failure
// to open is reported and exits.
func withServices(fn func(ctx context.Context, s *service.Services)) {
	ctx := context.Background()
	s, err := deps.Services(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to open storage")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check your configuration with 'ptt config'")
		deps.Exit(1)
		return
	}
	defer func() { _ = s.Close() }()

	fn(ctx, s)
}

// printLoadWarnings reports lines that were skipped or repaired while
// loading the stores.
func printLoadWarnings(warnings []service.LoadWarning) {
	if len(warnings) == 0 {
		return
	}
	_, _ = fmt.Fprintf(deps.Stderr, "Warning: Found %d corrupted line(s) in storage:\n", len(warnings))
	source := ""
	for _, w := range warnings {
		if w.Source != source {
			source = w.Source
			_, _ = fmt.Fprintf(deps.Stderr, " %s:\n", source)
		}
		_, _ = fmt.Fprintln(deps.Stderr, cli.FormatCorruptionWarning(w))
	}
	_, _ = fmt.Fprintln(deps.Stderr)
}
