package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	debugctx "github.com/crmarques/contentdesk/debugctx"
	"github.com/crmarques/contentdesk/faults"
	"github.com/crmarques/contentdesk/internal/cli/common"
	"github.com/crmarques/contentdesk/internal/cli/config"
	doccmd "github.com/crmarques/contentdesk/internal/cli/doc"
	listcmd "github.com/crmarques/contentdesk/internal/cli/list"
	resourcecmd "github.com/crmarques/contentdesk/internal/cli/resource"
	"github.com/crmarques/contentdesk/internal/cli/version"
	"github.com/spf13/cobra"
)

func NewRootCommand(deps Dependencies) *cobra.Command {
	commandDeps := deps.commandDependencies()
	var globalFlags common.GlobalFlags

	root := &cobra.Command{
		Use:   "contentdesk",
		Short: "Edit structured site content resources",
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
		Args: cobra.NoArgs,
		PersistentPreRunE: func(command *cobra.Command, _ []string) error {
			if err := common.ValidateOutputFormat(globalFlags.Output); err != nil {
				return err
			}
			if err := common.ValidateOutputFormatForCommandPath(command.CommandPath(), globalFlags.Output); err != nil {
				return err
			}

			commandContext := command.Context()
			if commandContext == nil {
				commandContext = context.Background()
			}
			commandContext = debugctx.WithEnabled(commandContext, globalFlags.Debug)
			commandContext = debugctx.WithWriter(commandContext, command.ErrOrStderr())
			command.SetContext(commandContext)

			debugctx.Printf(
				command.Context(),
				"root flags context=%q contexts_file=%q output=%q no_status=%t no_color=%t command=%q",
				globalFlags.Context,
				globalFlags.ContextsFile,
				globalFlags.Output,
				globalFlags.NoStatus,
				globalFlags.NoColor,
				command.CommandPath(),
			)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetHelpFunc(trimmedHelpFunc(root.HelpFunc()))

	common.BindGlobalFlags(root, &globalFlags)
	common.RegisterContextFlagCompletion(root, commandDeps)
	root.PersistentFlags().BoolP("help", "h", false, "help for command")

	root.AddGroup(
		&cobra.Group{ID: "content", Title: "Content Commands:"},
		&cobra.Group{ID: "other", Title: "Other Commands:"},
	)

	contentCommands := []*cobra.Command{
		resourcecmd.NewCommand(commandDeps, &globalFlags),
		doccmd.NewCommand(commandDeps, &globalFlags),
		listcmd.NewCommand(commandDeps, &globalFlags),
	}
	for _, command := range contentCommands {
		command.GroupID = "content"
		root.AddCommand(command)
	}

	otherCommands := []*cobra.Command{
		config.NewCommand(commandDeps, &globalFlags),
		version.NewCommand(commandDeps, &globalFlags),
	}
	for _, command := range otherCommands {
		command.GroupID = "other"
		root.AddCommand(command)
	}
	root.SetCompletionCommandGroupID("other")

	wrapUsageForMissingPositionalParameterErrors(root)

	return root
}

// trimmedHelpFunc renders help through defaultHelp and prints it on stdout
// with a single trailing newline.
func trimmedHelpFunc(defaultHelp func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(command *cobra.Command, args []string) {
		out, errOut := command.OutOrStdout(), command.ErrOrStderr()
		buffer := &bytes.Buffer{}
		command.SetOut(buffer)
		command.SetErr(buffer)
		defaultHelp(command, args)
		command.SetOut(out)
		command.SetErr(errOut)

		_, _ = fmt.Fprintln(out, strings.TrimRight(buffer.String(), "\n"))
	}
}

// wrapUsageForMissingPositionalParameterErrors prints usage on stderr when a
// command fails on its positional argument count.
func wrapUsageForMissingPositionalParameterErrors(command *cobra.Command) {
	command.Args = withUsageOnArgumentError(command.Args)
	command.RunE = withUsageOnArgumentError(command.RunE)
	for _, child := range command.Commands() {
		wrapUsageForMissingPositionalParameterErrors(child)
	}
}

func withUsageOnArgumentError(handler func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	if handler == nil {
		return nil
	}
	return func(command *cobra.Command, args []string) error {
		err := handler(command, args)
		if isArgumentCountError(command, err) {
			if usage := strings.TrimRight(command.UsageString(), "\n"); usage != "" {
				_, _ = fmt.Fprintln(command.ErrOrStderr(), usage)
			}
		}
		return err
	}
}

// isArgumentCountError matches cobra positional argument errors on commands
// that declare positionals. Typed faults never match.
func isArgumentCountError(command *cobra.Command, err error) bool {
	if err == nil || faults.CategoryOf(err) != "" {
		return false
	}
	use := command.Use
	if !strings.ContainsAny(use, "[<") {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "arg(s)")
}
