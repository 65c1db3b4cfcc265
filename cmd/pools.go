package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ptt-dev/ptt/internal/budget"
	"github.com/ptt-dev/ptt/internal/cli"
	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/pool"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/spf13/cobra"
)

// poolsCmd represents the pools command
var poolsCmd = &cobra.Command{
	Use:   "pools",
	Short: "Show daily time pools",
	Long: `Show every category that has a daily pool or recorded entries, with its
daily minutes, what remains of the accrued pool and the total recorded.

A pool accrues its daily minutes for every calendar day from the first
entry of the category through today. The running session counts against
its category.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listPools()
	},
}

// poolsSetCmd represents the pools set command
var poolsSetCmd = &cobra.Command{
	Use:   "set <category> <minutes>",
	Short: "Set the daily pool of a category",
	Long: fmt.Sprintf(`Set the daily pool of a category in minutes. 0 removes the budget.

Common values: %v

Examples:
  ptt pools set Programming 60
  ptt pools set Meetings 0`, pool.Choices),
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		setPool(args[0], args[1])
	},
}

// categoriesCmd represents the categories command
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List recorded categories",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listCategories()
	},
}

// projectsCmd represents the projects command
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List recorded projects",
	Long: `List recorded projects, optionally only those recorded under a category.

Examples:
  ptt projects
  ptt projects --category Programming`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		category, _ := cmd.Flags().GetString("category")
		listProjects(category)
	},
}

func init() {
	rootCmd.AddCommand(poolsCmd)
	poolsCmd.AddCommand(poolsSetCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(projectsCmd)

	projectsCmd.Flags().StringP("category", "c", "", "only projects recorded under this category")
	_ = projectsCmd.RegisterFlagCompletionFunc("category", completeFrom(recordedCategories))
}

// listPools prints the pools table
func listPools() {
	withServices(func(_ context.Context, s *service.Services) {
		rows := s.Tracker.PoolRows(s.Timer.Live())
		if len(rows) == 0 {
			_, _ = fmt.Fprintln(deps.Stdout, "No categories yet")
			_, _ = fmt.Fprintln(deps.Stdout, "Set a pool with: ptt pools set <category> <minutes>")
			return
		}

		table := cli.NewTable("Category", "Daily", "Pool left", "Total").AlignRight(1, 2, 3).
			Fit(cli.TerminalWidth(deps.Stdout, 0), 0)
		for _, r := range rows {
			daily := "-"
			if r.DailyMinutes > 0 {
				daily = cli.FormatMinutes(r.DailyMinutes)
			}
			table.AddRow(r.Category, daily, budget.Format(r.Remaining, r.HasPool), entry.FormatClock(r.Total))
		}
		if err := table.Render(deps.Stdout); err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to write pools")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			deps.Exit(1)
		}
	})
}

// setPool stores the daily minutes of a category
func setPool(category, minutesStr string) {
	minutes, err := strconv.Atoi(minutesStr)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid minutes '%s'\n", minutesStr)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Use a whole number of minutes, e.g. %v\n", pool.Choices)
		deps.Exit(1)
		return
	}

	withServices(func(ctx context.Context, s *service.Services) {
		stored, err := s.Tracker.SetDailyMinutes(ctx, category, minutes)
		if err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to set pool")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			deps.Exit(1)
			return
		}

		if stored == 0 {
			_, _ = fmt.Fprintf(deps.Stdout, "Pool of %s disabled\n", category)
			return
		}
		remaining, ok := s.Tracker.Remaining(category, s.Timer.Live())
		_, _ = fmt.Fprintf(deps.Stdout, "Pool of %s set to %s per day (left: %s)\n",
			category, cli.FormatMinutes(stored), budget.Format(remaining, ok))
	})
}

// listCategories prints the distinct categories
func listCategories() {
	withServices(func(_ context.Context, s *service.Services) {
		categories := s.Tracker.Categories()
		if len(categories) == 0 {
			_, _ = fmt.Fprintln(deps.Stdout, "No categories recorded")
			return
		}
		for _, c := range categories {
			_, _ = fmt.Fprintln(deps.Stdout, c)
		}
	})
}

// listProjects prints the distinct projects, optionally of one category
func listProjects(category string) {
	withServices(func(_ context.Context, s *service.Services) {
		projects := s.Tracker.Projects()
		if category != "" {
			projects = s.Tracker.ProjectsForCategory(category)
		}
		if len(projects) == 0 {
			if category != "" {
				_, _ = fmt.Fprintf(deps.Stdout, "No projects recorded under %s\n", category)
			} else {
				_, _ = fmt.Fprintln(deps.Stdout, "No projects recorded")
			}
			return
		}
		for _, p := range projects {
			_, _ = fmt.Fprintln(deps.Stdout, p)
		}
	})
}
