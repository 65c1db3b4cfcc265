package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/ptt-dev/ptt/internal/service"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestGenerateCompletion(t *testing.T) {
	tests := []struct {
		shell  string
		marker string
	}{
		{"bash", "bash completion V2 for ptt"},
		{"zsh", "#compdef ptt"},
		{"fish", "fish completion for ptt"},
		{"powershell", "powershell completion for ptt"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			env := setupTest(t)

			generateCompletion(tt.shell)

			assert.Equal(t, 0, env.exitCode)
			assert.Empty(t, env.stderr.String())
			assert.Contains(t, env.stdout.String(), tt.marker)
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	env := setupTest(t)

	generateCompletion("tcsh")

	assert.Equal(t, 1, env.exitCode)
	assert.Contains(t, env.stderr.String(), "Unsupported shell 'tcsh'")
	assert.Empty(t, env.stdout.String())
}

func TestCompleteFrom(t *testing.T) {
	env := setupTest(t)
	env.seed(seedEntries, "")

	values, directive := completeFrom(recordedProjects)(startCmd, nil, "")
	assert.Equal(t, []string{"blog", "web"}, values)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	values, _ = completeFrom(recordedCategories)(startCmd, nil, "")
	assert.Equal(t, []string{"Programming", "Writing"}, values)

	deps.Services = func(context.Context) (*service.Services, error) {
		return nil, errors.New("no storage")
	}
	values, directive = completeFrom(recordedProjects)(startCmd, nil, "")
	assert.Nil(t, values)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}
