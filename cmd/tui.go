package cmd

import (
	"context"
	"fmt"

	"github.com/ptt-dev/ptt/internal/service"
	"github.com/ptt-dev/ptt/internal/tui"
	"github.com/spf13/cobra"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch the interactive Terminal User Interface for ptt.

Views available:
  - Timer: Start, pause and stop the session with a live clock and reminders
  - Entries: Browse recorded entries and remove them
  - Pools: Adjust the daily pool of each category
  - Config: Show the settings and pick a theme

Keyboard shortcuts:
  - Tab/Shift+Tab: Navigate between views
  - 1-4: Jump to specific view
  - j/k or arrows: Navigate within lists
  - ?: Show help
  - q: Quit`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	// Add --tui flag to root command for quick access
	rootCmd.PersistentFlags().Bool("tui", false, "Launch interactive terminal UI")
}

// runTUI initializes and runs the TUI application
func runTUI() {
	withServices(func(ctx context.Context, s *service.Services) {
		if err := tui.Run(ctx, s); err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to run TUI")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			deps.Exit(1)
		}
	})
}

// CheckTUIFlag checks if the --tui flag is set and runs the TUI if so.
// Returns true if the TUI was launched, false otherwise.
func CheckTUIFlag(cmd *cobra.Command) bool {
	tuiFlag, _ := cmd.Root().PersistentFlags().GetBool("tui")
	if tuiFlag {
		runTUI()
		return true
	}
	return false
}
