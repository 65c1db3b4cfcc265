package cmd

import (
	"context"
	"fmt"

	"github.com/ptt-dev/ptt/internal/cli"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/spf13/cobra"
)

// undoCmd represents the undo command
var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last removal or import",
	Long: `Undo the last removal or import by restoring the most recent backup.
Running undo twice undoes the undo.

Example:
  ptt undo`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		undoLast()
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

// undoLast restores backup generation 1
func undoLast() {
	withServices(func(ctx context.Context, s *service.Services) {
		before := len(s.Tracker.Entries())
		restored, err := s.Tracker.Restore(ctx, 1)
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Nothing to undo. Backups are taken by 'ptt remove' and 'ptt import'")
			deps.Exit(1)
			return
		}

		after := len(s.Tracker.Entries())
		_, _ = fmt.Fprintf(deps.Stdout, "Undone: restored %d %s (%d → %d entries)\n",
			len(restored), cli.Pluralize("store", len(restored)), before, after)
	})
}
