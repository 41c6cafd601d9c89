package config

import (
	"github.com/crmarques/contentdesk/internal/cli/common"
	"github.com/spf13/cobra"
)

type configPrompter interface {
	IsInteractive(command *cobra.Command) bool
	Select(command *cobra.Command, prompt string, options []string) (string, error)
	Confirm(command *cobra.Command, prompt string, defaultYes bool) (bool, error)
}

type terminalPrompter struct{}

func (terminalPrompter) IsInteractive(command *cobra.Command) bool {
	return common.IsInteractiveTerminal(command)
}

func (terminalPrompter) Select(command *cobra.Command, prompt string, options []string) (string, error) {
	return common.PromptSelect(command, prompt, options)
}

func (terminalPrompter) Confirm(command *cobra.Command, prompt string, defaultYes bool) (bool, error) {
	return common.PromptConfirm(command, prompt, defaultYes)
}
