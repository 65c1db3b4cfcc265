package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/spf13/cobra"
)

var yesFlag bool

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove <n>",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove an entry by its listed position",
	Long: `Remove the entry shown at position n in the 'ptt' listing (newest first).
A backup of the stored entries is taken first; undo with 'ptt restore'.
A confirmation prompt will be shown unless --yes is specified.

Examples:
  ptt remove 3
  ptt remove 3 --yes`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		removeEntry(args[0])
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation prompt")
}

// removeEntry handles the removal of a listed entry
func removeEntry(positionStr string) {
	position, err := strconv.Atoi(positionStr)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid position '%s'. Position must be a number\n", positionStr)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: List entries with 'ptt' to see their positions")
		deps.Exit(1)
		return
	}

	withServices(func(ctx context.Context, s *service.Services) {
		sorted := s.Tracker.Sorted()
		if len(sorted) == 0 {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: No entries to remove")
			deps.Exit(1)
			return
		}
		if position < 1 || position > len(sorted) {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Position %d out of range. Valid range: 1-%d\n", position, len(sorted))
			deps.Exit(1)
			return
		}

		target := sorted[position-1].Entry
		_, _ = fmt.Fprintln(deps.Stdout, "Entry to remove:")
		_, _ = fmt.Fprintf(deps.Stdout, "  %s  %s / %s (%s)\n",
			entry.FormatDisplayTime(target, s.Tracker.Location()), target.Project, target.Category, entry.FormatClock(target.Duration))

		if !yesFlag && !promptConfirmation() {
			_, _ = fmt.Fprintln(deps.Stdout, "Removal cancelled")
			return
		}

		removed, err := s.Tracker.RemoveListed(ctx, position)
		if err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to remove entry")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			deps.Exit(1)
			return
		}
		_, _ = fmt.Fprintf(deps.Stdout, "Removed: %s / %s (%s)\n", removed.Project, removed.Category, entry.FormatClock(removed.Duration))
	})
}

// promptConfirmation asks the user to confirm removal
// Returns true if user confirms with 'y' or 'Y', false otherwise
func promptConfirmation() bool {
	_, _ = fmt.Fprint(deps.Stdout, "Remove this entry? [y/N]: ")

	scanner := bufio.NewScanner(deps.Stdin)
	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(scanner.Text())
	return response == "y" || response == "Y"
}
