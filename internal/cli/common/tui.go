package common

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// PromptSelect asks for one of options; the first option is preselected.
func PromptSelect(command *cobra.Command, prompt string, options []string) (string, error) {
	if len(options) == 0 {
		return "", ValidationError("no options available", nil)
	}

	choice := options[0]
	err := RunForm(command, huh.NewGroup(
		huh.NewSelect[string]().
			Title(promptTitle(prompt)).
			Options(huh.NewOptions(options...)...).
			Value(&choice),
	))
	return choice, err
}

func PromptConfirm(command *cobra.Command, prompt string, defaultYes bool) (bool, error) {
	answer := defaultYes
	err := RunForm(command, huh.NewGroup(
		huh.NewConfirm().
			Title(promptTitle(prompt)).
			Affirmative("Yes").
			Negative("No").
			Value(&answer),
	))
	return answer, err
}

// RunForm runs a huh form on the command streams. Aborting the form is a
// validation fault.
func RunForm(command *cobra.Command, groups ...*huh.Group) error {
	if !IsInteractiveTerminal(command) {
		return ValidationError("interactive terminal is required", nil)
	}

	err := huh.NewForm(groups...).
		WithInput(command.InOrStdin()).
		WithOutput(command.OutOrStdout()).
		WithShowHelp(false).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ValidationError("edit cancelled", nil)
	}
	return err
}

func promptTitle(prompt string) string {
	if title := strings.TrimSuffix(strings.TrimSpace(prompt), ":"); title != "" {
		return title
	}
	return "Input"
}
