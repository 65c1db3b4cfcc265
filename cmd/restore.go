package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ptt-dev/ptt/internal/service"
	"github.com/ptt-dev/ptt/internal/storage"
	"github.com/spf13/cobra"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore [backup_number]",
	Short: "Restore from a backup",
	Long: `Restore entries and pools from a backup.

A backup is taken before every removal and import. By default, restores
the most recent backup (1). Optionally specify a backup number (1-3).
The current state is itself backed up before it is replaced.

Examples:
  ptt restore       Restore from most recent backup
  ptt restore 2     Restore from backup #2`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		restoreFromBackup(args)
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

// restoreFromBackup handles the restore command logic
func restoreFromBackup(args []string) {
	backupNum := 1
	if len(args) > 0 {
		num, err := strconv.Atoi(args[0])
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid backup number '%s'\n", args[0])
			deps.Exit(1)
			return
		}
		if num < 1 || num > storage.MaxBackupCount {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Backup number must be between 1 and %d (got %d)\n", storage.MaxBackupCount, num)
			deps.Exit(1)
			return
		}
		backupNum = num
	}

	withServices(func(ctx context.Context, s *service.Services) {
		backups, err := s.Tracker.Backups(ctx)
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to list backups: %v\n", err)
			deps.Exit(1)
			return
		}

		if len(backups) == 0 {
			_, _ = fmt.Fprintln(deps.Stdout, "No backups available")
			deps.Exit(1)
			return
		}

		_, _ = fmt.Fprintln(deps.Stdout, "Available backups:")
		for _, backup := range backups {
			suffix := ""
			if backup.Number == 1 {
				suffix = " (most recent)"
			}
			_, _ = fmt.Fprintf(deps.Stdout, "  %d: %s, %d bytes%s\n", backup.Number, backup.Key, backup.Size, suffix)
		}
		_, _ = fmt.Fprintln(deps.Stdout)

		restored, err := s.Tracker.Restore(ctx, backupNum)
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to restore backup: %v\n", err)
			deps.Exit(1)
			return
		}

		for _, key := range restored {
			_, _ = fmt.Fprintf(deps.Stdout, "Restored %s from backup %d\n", key, backupNum)
		}
		_, _ = fmt.Fprintf(deps.Stdout, "Now holding %d entries and %d pools\n", len(s.Tracker.Entries()), len(s.Tracker.Pools()))
	})
}
