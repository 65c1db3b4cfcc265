package cmd

import (
	"context"
	"fmt"

	"github.com/ptt-dev/ptt/internal/budget"
	"github.com/ptt-dev/ptt/internal/cli"
	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	Long: `Show the current session: elapsed time, the totals it adds to and what
remains of the daily pool of its category.

When a reminder threshold has been crossed since the last check, a reminder
is printed and the terminal bell rings.

Examples:
  ptt status`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showStatus()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// showStatus displays the current session status
func showStatus() {
	withServices(func(_ context.Context, s *service.Services) {
		status, err := s.Timer.Status()
		if err != nil {
			reportSessionError(err)
			return
		}

		switch {
		case status.State.Running():
			_, _ = fmt.Fprintln(deps.Stdout, "Session running:")
		case status.State.Paused():
			_, _ = fmt.Fprintln(deps.Stdout, "Session paused:")
		default:
			_, _ = fmt.Fprintln(deps.Stdout, "No session active")
			_, _ = fmt.Fprintln(deps.Stdout, "Start one with: ptt start -p <project> -c <category>")
			return
		}

		_, _ = fmt.Fprintf(deps.Stdout, "  Elapsed:        %s\n", entry.FormatClock(status.Elapsed))
		_, _ = fmt.Fprintf(deps.Stdout, "  Project:        %s (total %s)\n", status.Project, entry.FormatClock(status.ProjectTotal))
		_, _ = fmt.Fprintf(deps.Stdout, "  Category:       %s (total %s)\n", status.Category, entry.FormatClock(status.CategoryTotal))
		_, _ = fmt.Fprintf(deps.Stdout, "  Pool left:      %s\n", budget.Format(status.PoolRemaining, status.HasPool))
		if minutes := int(status.State.ReminderInterval / 60); minutes > 0 {
			_, _ = fmt.Fprintf(deps.Stdout, "  Reminder:       every %s\n", cli.FormatMinutes(minutes))
		}

		if status.ReminderDue {
			_, _ = fmt.Fprintf(deps.Stdout, "%sReminder: you have been working for %s\n", cli.Bell(deps.Stdout), entry.FormatClock(status.Elapsed))
		}
	})
}
