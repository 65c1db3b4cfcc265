package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/ptt-dev/ptt/internal/session"
	"github.com/spf13/cobra"
)

var (
	startProject  string
	startCategory string
	startReminder int
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start or resume the timer",
	Long: `Start a new session, or resume the paused one.

Project and category are remembered between sessions; flags replace them.
A session stopped without a project or category is recorded under the
configured defaults.

Examples:
  ptt start -p website -c Programming
  ptt start -r 30          Remind every 30 minutes
  ptt start -r 0           Disable reminders`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var reminder *int
		if cmd.Flags().Changed("reminder") {
			reminder = &startReminder
		}
		startSession(startProject, startCategory, reminder)
	},
}

// pauseCmd represents the pause command
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the running session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		pauseSession()
	},
}

// resumeCmd represents the resume command
var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume the paused session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		resumeSession()
	},
}

// cancelCmd represents the cancel command
var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Discard the current session without recording it",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cancelSession()
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(cancelCmd)

	startCmd.Flags().StringVarP(&startProject, "project", "p", "", "project to record the session under")
	startCmd.Flags().StringVarP(&startCategory, "category", "c", "", "category to record the session under")
	startCmd.Flags().IntVarP(&startReminder, "reminder", "r", 0, fmt.Sprintf("reminder interval in minutes %v", session.ReminderChoices))
	_ = startCmd.RegisterFlagCompletionFunc("project", completeFrom(recordedProjects))
	_ = startCmd.RegisterFlagCompletionFunc("category", completeFrom(recordedCategories))
}

// startSession starts or resumes the timer
func startSession(project, category string, reminder *int) {
	withServices(func(_ context.Context, s *service.Services) {
		if reminder != nil && *reminder < 0 {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid reminder interval %d\n", *reminder)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use a number of minutes, 0 disables reminders")
			deps.Exit(1)
			return
		}

		before, err := s.Timer.State()
		if err != nil {
			reportSessionError(err)
			return
		}

		state, err := s.Timer.Start(service.StartOptions{
			Project:         project,
			Category:        category,
			ReminderMinutes: reminder,
		})
		if err != nil {
			reportSessionError(err)
			return
		}

		status, err := s.Timer.StatusOf(&state, false)
		if err != nil {
			reportSessionError(err)
			return
		}

		verb := "Started"
		if before.Paused() {
			verb = "Resumed"
		}
		_, _ = fmt.Fprintf(deps.Stdout, "%s: %s / %s\n", verb, status.Project, status.Category)
		if before.Paused() {
			_, _ = fmt.Fprintf(deps.Stdout, "  Elapsed: %s\n", entry.FormatClock(status.Elapsed))
		}
		if state.ReminderInterval > 0 {
			_, _ = fmt.Fprintf(deps.Stdout, "  Reminder every %d minutes\n", int(state.ReminderInterval/60))
		}
	})
}

// pauseSession pauses the running session
func pauseSession() {
	withServices(func(_ context.Context, s *service.Services) {
		state, err := s.Timer.Pause()
		if err != nil {
			reportSessionError(err)
			return
		}
		_, _ = fmt.Fprintf(deps.Stdout, "Paused after %s\n", entry.FormatClock(state.Accumulated))
	})
}

// resumeSession resumes the paused session
func resumeSession() {
	withServices(func(_ context.Context, s *service.Services) {
		state, err := s.Timer.Resume()
		if err != nil {
			reportSessionError(err)
			return
		}
		_, _ = fmt.Fprintf(deps.Stdout, "Resumed at %s\n", entry.FormatClock(state.Accumulated))
	})
}

// cancelSession discards the current session
func cancelSession() {
	withServices(func(_ context.Context, s *service.Services) {
		discarded, err := s.Timer.Cancel()
		if err != nil {
			reportSessionError(err)
			return
		}
		_, _ = fmt.Fprintf(deps.Stdout, "Cancelled session (%s discarded)\n", entry.FormatClock(discarded.Elapsed(s.Tracker.Now())))
	})
}

// reportSessionError prints a timer error with a hint matching its cause.
func reportSessionError(err error) {
	switch {
	case errors.Is(err, service.ErrNoSession):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: No session is active")
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Start one with 'ptt start -p <project> -c <category>'")
	case errors.Is(err, service.ErrSessionRunning):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: The session is already running")
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use 'ptt stop' to record it or 'ptt pause' to pause it")
	case errors.Is(err, service.ErrSessionPaused):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: The session is already paused")
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use 'ptt resume' to continue")
	case errors.Is(err, service.ErrFieldSeparator):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Invalid project or category")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	default:
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to update the session")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check that the configuration directory is writable")
	}
	deps.Exit(1)
}
