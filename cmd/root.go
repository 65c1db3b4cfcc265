package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ptt-dev/ptt/internal/budget"
	"github.com/ptt-dev/ptt/internal/cli"
	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "ptt",
	Short: "A project time tracker with daily time pools",
	Long: `ptt tracks time per project and category and keeps a daily time pool
per category that accrues for every calendar day since the first entry.

Usage:
  ptt                                     List entries, newest first
  ptt start -p <project> -c <category>    Start or resume the timer
  ptt pause | resume | stop | cancel      Control the running session
  ptt status                              Show the live session
  ptt add <project> <category> <duration> Add a finished session by hand
  ptt remove <n>                          Remove the n-th listed entry
  ptt pools                               Show daily pools and what remains
  ptt pools set <category> <minutes>      Set the daily pool of a category
  ptt import <path...> | export [dir]     Exchange the text files
  ptt validate                            Check storage health
  ptt restore [n]                         Restore from backup
  ptt tui                                 Launch the interactive timer

Duration format: 2h, 30m, 45s, 1h30m or H:MM:SS`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if CheckTUIFlag(cmd) {
			return
		}
		listEntries()
	},
}

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check storage health",
	Long:  `Validate both stored blobs line by line and report skipped or repaired lines.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		validateStorage()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"ptt version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ResetFlags restores every flag of every command to its default and clears
// its changed state (for testing cleanup).
func ResetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

// listEntries prints the entries table, newest first. The running session
// counts against the pool of its category.
func listEntries() {
	withServices(func(ctx context.Context, s *service.Services) {
		printLoadWarnings(s.Tracker.Warnings())

		rows := s.Tracker.Rows(s.Timer.Live())
		if len(rows) == 0 {
			_, _ = fmt.Fprintln(deps.Stdout, "No entries recorded")
			_, _ = fmt.Fprintln(deps.Stdout, "Start a session with: ptt start -p <project> -c <category>")
			return
		}

		table := cli.NewTable("#", "Start", "Project", "Category", "Duration", "Project total", "Category total", "Pool left").
			AlignRight(0, 4, 5, 6, 7).
			Fit(cli.TerminalWidth(deps.Stdout, 0), 2, 3)
		for _, r := range rows {
			table.AddRow(
				strconv.Itoa(r.Position),
				r.Display,
				r.Entry.Project,
				r.Entry.Category,
				entry.FormatClock(r.Entry.Duration),
				entry.FormatClock(r.ProjectTotal),
				entry.FormatClock(r.CategoryTotal),
				budget.Format(r.PoolRemaining, r.HasPool),
			)
		}
		if err := table.Render(deps.Stdout); err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to write entries")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			deps.Exit(1)
			return
		}
		_, _ = fmt.Fprintf(deps.Stdout, "\n%d %s recorded\n", len(rows), cli.Pluralize("session", len(rows)))
	})
}

// validateStorage checks the storage health and reports status
func validateStorage() {
	withServices(func(ctx context.Context, s *service.Services) {
		health, err := s.Tracker.Validate(ctx)
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to validate storage: %v\n", err)
			deps.Exit(1)
			return
		}

		_, _ = fmt.Fprintf(deps.Stdout, "Storage: %s\n", s.Tracker.Backend().Location())

		corrupted := 0
		for _, h := range health {
			_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
			_, _ = fmt.Fprintf(deps.Stdout, "Key:               %s\n", h.Key)
			if !h.Found {
				_, _ = fmt.Fprintln(deps.Stdout, "Status:            not written yet")
				continue
			}
			_, _ = fmt.Fprintf(deps.Stdout, "Total lines:       %d\n", h.TotalLines)
			_, _ = fmt.Fprintf(deps.Stdout, "Valid records:     %d\n", h.ValidRecords)
			_, _ = fmt.Fprintf(deps.Stdout, "Corrupted records: %d\n", h.CorruptedRecords)
			if len(h.Warnings) > 0 {
				_, _ = fmt.Fprintln(deps.Stdout, "Corrupted lines:")
				for _, w := range h.Warnings {
					_, _ = fmt.Fprintln(deps.Stdout, cli.FormatCorruptionWarning(service.LoadWarning{Source: h.Key, ParseWarning: w}))
				}
			}
			corrupted += h.CorruptedRecords
		}

		_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
		if corrupted == 0 {
			_, _ = fmt.Fprintln(deps.Stdout, "Status: ✓ Storage is healthy")
		} else {
			_, _ = fmt.Fprintf(deps.Stderr, "Status: ⚠ Storage has %d corrupted line(s)\n", corrupted)
		}
	})
}
