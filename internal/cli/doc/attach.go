package doc

import (
	"fmt"
	"strings"

	"github.com/crmarques/contentdesk/document"
	"github.com/crmarques/contentdesk/editor"
	"github.com/crmarques/contentdesk/internal/cli/common"
	"github.com/spf13/cobra"
)

func newAttachCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var listPath string
	var index int

	command := &cobra.Command{
		Use:   "attach <name> <field> <file>",
		Short: "Queue a local file for upload on the next save",
		Example: strings.Join([]string{
			"  contentdesk doc attach video-hero poster ./poster.jpg",
			"  contentdesk doc attach gallery image ./photo.png --list images --index 2",
		}, "\n"),
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: common.ResourceNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			resource, field, file := args[0], args[1], args[2]

			session, err := common.EditSession(command, deps, resource, func(session *editor.Session) error {
				if strings.TrimSpace(listPath) == "" {
					return session.Attach(field, file)
				}
				list, err := document.ParsePath(listPath)
				if err != nil {
					return err
				}
				return session.AttachItemFile(list, index, field, file)
			})
			if err != nil {
				return err
			}
			return common.WriteSessionSummary(command, globalFlags.Output, session)
		},
	}

	command.Flags().StringVar(&listPath, "list", "", "attach to an item of this list; field names the item sub-field")
	command.Flags().IntVar(&index, "index", 0, "item index used with --list")
	return command
}

func newDetachCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "detach <name> <field>",
		Short:             "Drop a queued file",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: common.ResourceNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			session, err := common.EditSession(command, deps, args[0], func(session *editor.Session) error {
				if !session.Detach(args[1]) {
					return notFoundError(fmt.Sprintf("no pending file for field %q", args[1]))
				}
				return nil
			})
			if err != nil {
				return err
			}
			return common.WriteSessionSummary(command, globalFlags.Output, session)
		},
	}
}
