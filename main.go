package main

import (
	"fmt"
	"os"

	"github.com/ptt-dev/ptt/cmd"
	"github.com/ptt-dev/ptt/internal/config"
)

// Version information injected by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var exitFunc = os.Exit

// run validates the configuration and executes the root command. It returns
// the process exit code.
func run() int {
	if _, path, err := config.Resolve(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error: Invalid configuration")
		if path != "" {
			_, _ = fmt.Fprintf(os.Stderr, "File: %s\n", path)
		}
		_, _ = fmt.Fprintf(os.Stderr, "Details: %v\n", err)
		return 1
	}

	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	exitFunc(run())
}
