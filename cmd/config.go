package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ptt-dev/ptt/internal/config"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current effective configuration settings for ptt.

Shows the configuration file location, whether it exists, and all current
settings. Values are merged from the config file, an optional .env file in
the working directory and PTT_* environment variables, over sensible
defaults.

By default, ptt works without any configuration file.

Examples:
  ptt config         Show all current settings
  ptt config init    Write a commented config file with every default

Configuration file location:
  ~/.config/ptt/config.toml          Linux
  %APPDATA%\ptt\config.toml          Windows`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showConfig()
	},
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample configuration file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initConfig()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}

// showConfig displays the current effective configuration
func showConfig() {
	withServices(func(_ context.Context, s *service.Services) {
		cfg := s.Config.Get()

		_, _ = fmt.Fprintln(deps.Stdout, "Configuration for ptt")
		_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))
		_, _ = fmt.Fprintln(deps.Stdout)

		_, _ = fmt.Fprintf(deps.Stdout, "Config file:      %s\n", s.Config.GetPath())
		fileExists := s.Config.Exists()
		if fileExists {
			_, _ = fmt.Fprintln(deps.Stdout, "Status:           File exists (using custom configuration)")
		} else {
			_, _ = fmt.Fprintln(deps.Stdout, "Status:           No config file (using defaults)")
		}
		_, _ = fmt.Fprintf(deps.Stdout, "Storage:          %s\n", s.Tracker.Backend().Location())
		_, _ = fmt.Fprintln(deps.Stdout)

		_, _ = fmt.Fprintln(deps.Stdout, "Current Settings:")
		_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
		_, _ = fmt.Fprintf(deps.Stdout, "Default project:  %s\n", cfg.DefaultProject)
		_, _ = fmt.Fprintf(deps.Stdout, "Default category: %s\n", cfg.DefaultCategory)
		if cfg.ReminderMinutes == 0 {
			_, _ = fmt.Fprintln(deps.Stdout, "Reminder:         off")
		} else {
			_, _ = fmt.Fprintf(deps.Stdout, "Reminder:         every %d minutes\n", cfg.ReminderMinutes)
		}
		_, _ = fmt.Fprintf(deps.Stdout, "Storage backend:  %s\n", cfg.StorageBackend)
		if cfg.DataDir == "" {
			_, _ = fmt.Fprintln(deps.Stdout, "Data directory:   (config directory)")
		} else {
			_, _ = fmt.Fprintf(deps.Stdout, "Data directory:   %s\n", cfg.DataDir)
		}
		_, _ = fmt.Fprintf(deps.Stdout, "Timezone:         %s\n", cfg.Timezone)
		_, _ = fmt.Fprintf(deps.Stdout, "Log level:        %s\n", cfg.LogLevel)
		if cfg.Theme == "" {
			_, _ = fmt.Fprintln(deps.Stdout, "Theme:            (default)")
		} else {
			_, _ = fmt.Fprintf(deps.Stdout, "Theme:            %s\n", cfg.Theme)
		}
		_, _ = fmt.Fprintln(deps.Stdout)

		if !fileExists {
			_, _ = fmt.Fprintln(deps.Stdout, "Tip: Run 'ptt config init' to create a config file with every option.")
			_, _ = fmt.Fprintf(deps.Stdout, "     Environment overrides: %s, %s, %s, %s\n",
				config.EnvDataDir, config.EnvBackend, config.EnvLogLevel, config.EnvTimezone)
			_, _ = fmt.Fprintln(deps.Stdout)
		}
	})
}

// initConfig writes the sample configuration file
func initConfig() {
	withServices(func(_ context.Context, s *service.Services) {
		if err := s.Config.Init(); err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to create config file")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			deps.Exit(1)
			return
		}
		_, _ = fmt.Fprintf(deps.Stdout, "Created config file: %s\n", s.Config.GetPath())
	})
}
