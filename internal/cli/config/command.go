package config

import (
	"fmt"
	"io"
	"strings"

	configdomain "github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/internal/cli/common"
	"github.com/spf13/cobra"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return newCommandWithPrompter(deps, globalFlags, terminalPrompter{})
}

func newCommandWithPrompter(
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	prompter configPrompter,
) *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "Manage contexts",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newListCommand(deps, globalFlags),
		newCurrentCommand(deps, globalFlags),
		newUseCommand(deps, prompter),
		newShowCommand(deps, globalFlags, prompter),
		newDeleteCommand(deps, prompter),
	)

	return command
}

type contextRow struct {
	Name    string `json:"name" yaml:"name"`
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
	Plan    string `json:"plan" yaml:"plan"`
	Current bool   `json:"current" yaml:"current"`
}

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contexts",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			items, err := contexts.List(command.Context())
			if err != nil {
				return err
			}

			currentName := ""
			if current, currentErr := contexts.GetCurrent(command.Context()); currentErr == nil {
				currentName = current.Name
			}

			rows := make([]contextRow, 0, len(items))
			for _, item := range items {
				rows = append(rows, contextRow{
					Name:    item.Name,
					BaseURL: item.API.BaseURL,
					Plan:    item.Site.EffectivePlan(),
					Current: item.Name == currentName,
				})
			}

			return common.WriteOutput(command, globalFlags.Output, rows, func(w io.Writer, value []contextRow) error {
				for _, row := range value {
					marker := " "
					if row.Current {
						marker = "*"
					}
					if _, writeErr := fmt.Fprintf(w, "%s %s\t%s\t%s\n", marker, row.Name, row.Plan, row.BaseURL); writeErr != nil {
						return writeErr
					}
				}
				return nil
			})
		},
	}
}

func newCurrentCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Get current context",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			current, err := contexts.GetCurrent(command.Context())
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, current, func(w io.Writer, value configdomain.Context) error {
				_, writeErr := fmt.Fprintln(w, value.Name)
				return writeErr
			})
		},
	}
}

func newUseCommand(deps common.CommandDependencies, prompter configPrompter) *cobra.Command {
	return &cobra.Command{
		Use:               "use [name]",
		Short:             "Set current context (interactive when name is omitted)",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.ContextNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := ""
			if len(args) > 0 {
				name = args[0]
			} else {
				name, err = selectContextForAction(command, contexts, prompter, "use")
				if err != nil {
					return err
				}
			}
			return contexts.SetCurrent(command.Context(), name)
		},
	}
}

func newShowCommand(
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	prompter configPrompter,
) *cobra.Command {
	return &cobra.Command{
		Use:               "show [name]",
		Short:             "Show a resolved context with defaults applied",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.ContextNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := ""
			if len(args) > 0 {
				name = strings.TrimSpace(args[0])
			} else if globalFlags != nil {
				name = strings.TrimSpace(globalFlags.Context)
			}
			if name == "" && prompter.IsInteractive(command) {
				name, err = selectContextForAction(command, contexts, prompter, "show")
				if err != nil {
					return err
				}
			}

			shown, err := contexts.ResolveContext(command.Context(), configdomain.ContextSelection{Name: name})
			if err != nil {
				return err
			}
			return common.WriteOutput(command, common.OutputYAML, shown, nil)
		},
	}
}

func newDeleteCommand(deps common.CommandDependencies, prompter configPrompter) *cobra.Command {
	return &cobra.Command{
		Use:               "delete [name]",
		Short:             "Delete a context (interactive when name is omitted)",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.ContextNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			if len(args) > 0 {
				return contexts.Delete(command.Context(), args[0])
			}

			selected, err := selectContextForAction(command, contexts, prompter, "delete")
			if err != nil {
				return err
			}
			confirmed, err := prompter.Confirm(command, fmt.Sprintf("Delete context %q?", selected), false)
			if err != nil {
				return err
			}
			if !confirmed {
				return common.WriteText(command, common.OutputText, "delete canceled")
			}
			return contexts.Delete(command.Context(), selected)
		},
	}
}

func selectContextForAction(
	command *cobra.Command,
	contexts configdomain.ContextService,
	prompter configPrompter,
	action string,
) (string, error) {
	if !prompter.IsInteractive(command) {
		return "", common.ValidationError(fmt.Sprintf("context name is required for %s", action), nil)
	}

	items, err := contexts.List(command.Context())
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", common.ValidationError("no contexts configured", nil)
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return prompter.Select(command, "Select context", names)
}
