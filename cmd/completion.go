package cmd

import (
	"context"
	"fmt"

	"github.com/ptt-dev/ptt/internal/service"
	"github.com/spf13/cobra"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for ptt.

Besides commands and flags, project and category flags complete from the
recorded entries.

Bash:
  source <(ptt completion bash)
  ptt completion bash > ~/.local/share/bash-completion/completions/ptt

Zsh:
  ptt completion zsh > "${fpath[1]}/_ptt"

Fish:
  ptt completion fish > ~/.config/fish/completions/ptt.fish

PowerShell:
  ptt completion powershell | Out-String | Invoke-Expression`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		generateCompletion(args[0])
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// generateCompletion generates the appropriate completion script based on shell type
func generateCompletion(shell string) {
	var err error

	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletionV2(deps.Stdout, true)
	case "zsh":
		err = rootCmd.GenZshCompletion(deps.Stdout)
	case "fish":
		err = rootCmd.GenFishCompletion(deps.Stdout, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(deps.Stdout)
	default:
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Unsupported shell '%s'\n", shell)
		_, _ = fmt.Fprintln(deps.Stderr, "Supported shells: bash, zsh, fish, powershell")
		deps.Exit(1)
		return
	}

	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to generate %s completion: %v\n", shell, err)
		deps.Exit(1)
		return
	}
}

func recordedProjects(s *service.Services) []string {
	return s.Tracker.Projects()
}

func recordedCategories(s *service.Services) []string {
	return s.Tracker.Categories()
}

// completeFrom builds a flag completion over recorded values. Completion
// stays silent when storage cannot be opened.
func completeFrom(values func(s *service.Services) []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		s, err := deps.Services(context.Background())
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		defer func() { _ = s.Close() }()
		return values(s), cobra.ShellCompDirectiveNoFileComp
	}
}
