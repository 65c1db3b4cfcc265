package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ptt-dev/ptt/internal/service"
	"github.com/spf13/cobra"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <path...>",
	Short: "Replace entries and pools from exported files",
	Long: `Import the text files written by 'ptt export'.

Paths may name the files themselves or directories holding them. Only
MetaDataProjectTime.txt and MetaDataDailyTimePools.txt are read; other files
are ignored. Each file found replaces its store completely, unless it is
empty. The replaced stores are backed up first; undo with 'ptt restore'.

Examples:
  ptt import ~/backup
  ptt import MetaDataProjectTime.txt MetaDataDailyTimePools.txt`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		importFiles(args)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// importFiles replaces the stores from the recognized files among paths
func importFiles(paths []string) {
	withServices(func(ctx context.Context, s *service.Services) {
		result, err := s.Tracker.Import(ctx, paths)
		if errors.Is(err, service.ErrNoRecognizedFiles) {
			_, _ = fmt.Fprintf(deps.Stdout, "Nothing imported: %v\n", err)
			return
		}
		if err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to import")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check that the paths exist and are readable")
			deps.Exit(1)
			return
		}

		printLoadWarnings(result.Warnings)

		if !result.Changed() {
			_, _ = fmt.Fprintln(deps.Stdout, "Nothing imported: the files are empty")
			return
		}
		if result.EntriesFile != "" {
			_, _ = fmt.Fprintf(deps.Stdout, "Imported %d entries from %s\n", result.Entries, result.EntriesFile)
		}
		if result.PoolsFile != "" {
			_, _ = fmt.Fprintf(deps.Stdout, "Imported %d pools from %s\n", result.Pools, result.PoolsFile)
		}
	})
}
