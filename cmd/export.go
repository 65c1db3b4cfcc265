package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Export entries and pools",
	Long: `Export both stores as text files into a directory (default: the current
directory). The files are named MetaDataProjectTime.txt and
MetaDataDailyTimePools.txt and can be read back with 'ptt import'.

Available formats for programmatic use:
  json    Export entries as JSON to stdout
  csv     Export entries as CSV to stdout

Examples:
  ptt export                     Write both files to the current directory
  ptt export ~/backup            Write both files to ~/backup
  ptt export json > entries.json Export entries as JSON
  ptt export csv > entries.csv   Export entries as CSV`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		exportFiles(dir)
	},
}

// exportJSONCmd represents the export json command
var exportJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Export entries as JSON",
	Long: `Export all entries, newest first, as JSON.

Output includes metadata (export timestamp, total entries) and an array of
entry objects together with the daily pools.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exportJSON()
	},
}

// exportCSVCmd represents the export csv command
var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export entries as CSV",
	Long:  `Export all entries, newest first, in standard CSV format with headers.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exportCSV()
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportJSONCmd)
	exportCmd.AddCommand(exportCSVCmd)
}

// ExportEntry is an entry as written by 'export json'
type ExportEntry struct {
	Project         string  `json:"project"`
	Category        string  `json:"category"`
	DurationSeconds float64 `json:"duration_seconds"`
	StartTime       string  `json:"start_time"`
	Started         string  `json:"started,omitempty"`
}

// ExportData is the document written by 'export json'
type ExportData struct {
	ExportedAt   string         `json:"exported_at"`
	TotalEntries int            `json:"total_entries"`
	Entries      []ExportEntry  `json:"entries"`
	Pools        map[string]int `json:"pools"`
}

// exportFiles writes both text files into dir
func exportFiles(dir string) {
	withServices(func(ctx context.Context, s *service.Services) {
		written, err := s.Tracker.Export(ctx, dir)
		if err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to export")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that the directory is writable: %s\n", dir)
			deps.Exit(1)
			return
		}
		for _, path := range written {
			_, _ = fmt.Fprintf(deps.Stdout, "Exported: %s\n", path)
		}
	})
}

// exportJSON writes all entries as JSON to stdout
func exportJSON() {
	withServices(func(_ context.Context, s *service.Services) {
		sorted := s.Tracker.Sorted()
		data := ExportData{
			ExportedAt:   s.Tracker.Now().Format(time.RFC3339),
			TotalEntries: len(sorted),
			Entries:      make([]ExportEntry, 0, len(sorted)),
			Pools:        s.Tracker.Pools(),
		}
		for _, ie := range sorted {
			out := ExportEntry{
				Project:         ie.Entry.Project,
				Category:        ie.Entry.Category,
				DurationSeconds: ie.Entry.Duration,
				StartTime:       ie.Entry.StartTime,
			}
			if t, ok := ie.Entry.Started(s.Tracker.Location()); ok {
				out.Started = t.Format(time.RFC3339)
			}
			data.Entries = append(data.Entries, out)
		}

		encoded, err := sonic.MarshalIndent(data, "", "  ")
		if err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to encode JSON")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			deps.Exit(1)
			return
		}
		_, _ = fmt.Fprintln(deps.Stdout, string(encoded))
	})
}

// exportCSV writes all entries as CSV to stdout
func exportCSV() {
	withServices(func(_ context.Context, s *service.Services) {
		writer := csv.NewWriter(deps.Stdout)
		if err := writeCSVRow(writer, []string{"project", "category", "duration_seconds", "duration", "start_time"}); err != nil {
			return
		}
		for _, ie := range s.Tracker.Sorted() {
			row := []string{
				ie.Entry.Project,
				ie.Entry.Category,
				entry.FormatSeconds(ie.Entry.Duration),
				entry.FormatClock(ie.Entry.Duration),
				ie.Entry.StartTime,
			}
			if err := writeCSVRow(writer, row); err != nil {
				return
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to write CSV")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			deps.Exit(1)
		}
	})
}

func writeCSVRow(writer *csv.Writer, row []string) error {
	if err := writer.Write(row); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to write CSV row")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return err
	}
	return nil
}
