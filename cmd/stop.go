package cmd

import (
	"context"
	"fmt"

	"github.com/ptt-dev/ptt/internal/budget"
	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/spf13/cobra"
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the current session and record an entry",
	Long: `Stop the current session, running or paused, and record it as an entry.

The entry starts at the first start of the session and lasts for the time
counted while running; paused spans are not counted.

Examples:
  ptt stop`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		stopSession()
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

// stopSession finalizes the session into an entry
func stopSession() {
	withServices(func(ctx context.Context, s *service.Services) {
		e, err := s.Timer.Stop(ctx)
		if err != nil {
			reportSessionError(err)
			return
		}

		projectTotal, categoryTotal := s.Tracker.TotalDuration(e.Project, e.Category)
		remaining, ok := s.Tracker.Remaining(e.Category, nil)

		_, _ = fmt.Fprintf(deps.Stdout, "Stopped: %s / %s (%s)\n", e.Project, e.Category, entry.FormatClock(e.Duration))
		_, _ = fmt.Fprintf(deps.Stdout, "  Project total:  %s\n", entry.FormatClock(projectTotal))
		_, _ = fmt.Fprintf(deps.Stdout, "  Category total: %s\n", entry.FormatClock(categoryTotal))
		_, _ = fmt.Fprintf(deps.Stdout, "  Pool left:      %s\n", budget.Format(remaining, ok))
	})
}
