package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/spf13/cobra"
)

// atLayouts are the accepted --at formats, tried in order.
var atLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02.01.2006 15:04",
	"15:04",
}

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <project> <category> <duration>",
	Short: "Record a finished session by hand",
	Long: `Record a session that was not timed.

By default the session is assumed to have ended now. Use --at to set its
start time instead.

Duration format: 2h, 30m, 45s, 1h30m or H:MM:SS (max 24h)
Start time format: "YYYY-MM-DD HH:MM", "DD.MM.YYYY HH:MM" or "HH:MM" (today)

Examples:
  ptt add website Programming 1h30m
  ptt add website Meetings 45m --at "2024-03-10 09:00"`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		at, _ := cmd.Flags().GetString("at")
		addEntry(args[0], args[1], args[2], at)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().String("at", "", "start time of the session")
}

// addEntry validates the arguments and records the entry
func addEntry(project, category, durationStr, at string) {
	seconds, err := entry.ParseDuration(durationStr)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid duration '%s'\n", durationStr)
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use format like '2h', '30m', '1h30m' or '1:30:00', max 24h")
		deps.Exit(1)
		return
	}

	withServices(func(ctx context.Context, s *service.Services) {
		now := s.Tracker.Now()
		start := now.Add(-time.Duration(seconds * float64(time.Second)))
		if at != "" {
			parsed, err := parseAt(at, now)
			if err != nil {
				_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid start time '%s'\n", at)
				_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use \"YYYY-MM-DD HH:MM\", \"DD.MM.YYYY HH:MM\" or \"HH:MM\"")
				deps.Exit(1)
				return
			}
			start = parsed
		}

		e, err := s.Tracker.AddEntry(ctx, project, category, seconds, start)
		if err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to add entry")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			if errors.Is(err, service.ErrFieldSeparator) {
				_, _ = fmt.Fprintf(deps.Stderr, "Hint: Project and category cannot contain %q\n", entry.FieldSeparator)
			}
			deps.Exit(1)
			return
		}

		_, _ = fmt.Fprintf(deps.Stdout, "Added: %s / %s (%s) at %s\n",
			e.Project, e.Category, entry.FormatClock(e.Duration), entry.FormatDisplayTime(e, s.Tracker.Location()))
	})
}

// parseAt parses a start time in the location of now. A time without a
// date refers to the day of now.
func parseAt(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range atLayouts {
		t, err := time.ParseInLocation(layout, value, now.Location())
		if err != nil {
			continue
		}
		if layout == "15:04" {
			y, m, d := now.Date()
			t = time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, now.Location())
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}
