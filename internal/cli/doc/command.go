package doc

import (
	"fmt"
	"io"
	"strings"

	"github.com/crmarques/contentdesk/document"
	"github.com/crmarques/contentdesk/drafts"
	"github.com/crmarques/contentdesk/editor"
	"github.com/crmarques/contentdesk/internal/cli/common"
	"github.com/crmarques/contentdesk/metadata"
	"github.com/spf13/cobra"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return newCommandWithPrompter(deps, globalFlags, terminalFormPrompter{})
}

func newCommandWithPrompter(
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	prompter formPrompter,
) *cobra.Command {
	command := &cobra.Command{
		Use:   "doc",
		Short: "Load, edit and submit resource documents",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newLoadCommand(deps, globalFlags),
		newShowCommand(deps, globalFlags),
		newSetCommand(deps, globalFlags),
		newEditCommand(deps, globalFlags, prompter),
		newProgressCommand(deps, globalFlags),
		newAttachCommand(deps, globalFlags),
		newDetachCommand(deps, globalFlags),
		newValidateCommand(deps, globalFlags),
		newSaveCommand(deps, globalFlags),
		newDeleteCommand(deps, globalFlags, prompter),
		newDiscardCommand(deps),
		newDraftsCommand(deps, globalFlags),
	)

	return command
}

func newLoadCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "load <name>",
		Short:             "Fetch the remote record, replacing the local draft",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.ResourceNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			orchestratorService, err := common.RequireOrchestrator(deps)
			if err != nil {
				return err
			}

			opened, err := orchestratorService.Reload(command.Context(), args[0])
			if err != nil {
				return err
			}
			common.WarnLoadError(command, opened)
			return common.WriteSessionSummary(command, globalFlags.Output, opened.Session)
		},
	}
}

func newShowCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "show <name> [path]",
		Short:             "Print the working document or the value at a dotted path",
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: common.ResourceNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			session, err := common.ReadSession(command, deps, args[0])
			if err != nil {
				return err
			}

			value := session.Document()
			if len(args) == 2 {
				path, err := document.ParsePath(args[1])
				if err != nil {
					return err
				}
				got, found := session.Get(path)
				if !found {
					return notFoundError(fmt.Sprintf("path %q not found in %s", path.String(), args[0]))
				}
				value = got
			}

			format, err := common.ResolveDocumentOutputFormat(command.Context(), deps, globalFlags)
			if err != nil {
				return err
			}
			if format == common.OutputText {
				format = common.OutputJSON
			}
			return common.WriteOutput(command, format, value, nil)
		},
	}
}

func newSetCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var input common.InputFlags
	var asJSON bool

	command := &cobra.Command{
		Use:   "set <name> <path> [value]",
		Short: "Set a field of the working document",
		Example: strings.Join([]string{
			"  contentdesk doc set headline title.part1 \"Aprenda no campo\"",
			"  contentdesk doc set headline badge.visible false --json",
			"  contentdesk doc set features features --payload features.yaml --format yaml",
		}, "\n"),
		Args:              cobra.RangeArgs(2, 3),
		ValidArgsFunction: common.ResourceNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			path, err := document.ParsePath(args[1])
			if err != nil {
				return err
			}
			if path.IsRoot() {
				return common.ValidationError("path is required", nil)
			}

			value, err := resolveSetValue(command, args, input, asJSON)
			if err != nil {
				return err
			}

			session, err := common.EditSession(command, deps, args[0], func(session *editor.Session) error {
				return session.Set(path, value)
			})
			if err != nil {
				return err
			}
			return common.WriteSessionSummary(command, globalFlags.Output, session)
		},
	}

	common.BindInputFlags(command, &input)
	command.Flags().BoolVar(&asJSON, "json", false, "parse value as JSON instead of a plain string")
	return command
}

func resolveSetValue(command *cobra.Command, args []string, input common.InputFlags, asJSON bool) (document.Value, error) {
	if len(args) == 3 {
		if input.Payload != "" {
			return nil, common.ValidationError("flag --payload cannot be combined with a value argument", nil)
		}
		if asJSON {
			return common.DecodeDocumentValue([]byte(args[2]), common.OutputJSON)
		}
		return args[2], nil
	}

	data, err := common.ReadInput(command, input)
	if err != nil {
		return nil, err
	}
	return common.DecodeDocumentValue(data, input.Format)
}

type progressReport struct {
	Resource  string   `json:"resource" yaml:"resource"`
	Completed int      `json:"completed" yaml:"completed"`
	Total     int      `json:"total" yaml:"total"`
	Percent   int      `json:"percent" yaml:"percent"`
	Missing   []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

func newProgressCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "progress <name>",
		Short:             "Show how much of the document is filled in",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.ResourceNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			session, err := common.ReadSession(command, deps, args[0])
			if err != nil {
				return err
			}

			score := session.Completion()
			report := progressReport{
				Resource:  session.Metadata().Name,
				Completed: score.Completed,
				Total:     score.Total,
				Percent:   score.Percent(),
				Missing:   score.Missing,
			}
			return common.WriteOutput(command, globalFlags.Output, report, func(w io.Writer, value progressReport) error {
				if _, err := fmt.Fprintf(w, "%s: %d/%d (%d%%)\n", value.Resource, value.Completed, value.Total, value.Percent); err != nil {
					return err
				}
				for _, missing := range value.Missing {
					if _, err := fmt.Fprintf(w, "  missing %s\n", missing); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newValidateCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "validate <name>",
		Short:             "Evaluate the save rules against the working document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.ResourceNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			session, err := common.ReadSession(command, deps, args[0])
			if err != nil {
				return err
			}

			results, err := session.Rules(command.Context())
			if err != nil {
				return err
			}
			if results == nil {
				results = []metadata.RuleResult{}
			}
			if err := common.WriteOutput(command, globalFlags.Output, results, renderRuleResults); err != nil {
				return err
			}
			return session.Validate(command.Context())
		},
	}
}

func renderRuleResults(w io.Writer, results []metadata.RuleResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "no save rules")
		return err
	}
	for _, result := range results {
		status := "pass"
		if !result.Passed {
			status = "FAIL"
		}
		if _, err := fmt.Fprintf(w, "%s  %s: %s\n", status, result.Name, result.Message); err != nil {
			return err
		}
	}
	return nil
}

func newSaveCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "save <name>",
		Short:             "Submit the working document and pending files to the content API",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.ResourceNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			session, err := common.OpenSession(command, deps, args[0])
			if err != nil {
				return err
			}
			if _, err := deps.Orchestrator.Save(command.Context(), session); err != nil {
				return err
			}
			return common.WriteSessionSummary(command, globalFlags.Output, session)
		},
	}
}

func newDeleteCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags, prompter formPrompter) *cobra.Command {
	var confirmDelete bool

	command := &cobra.Command{
		Use:               "delete <name>",
		Short:             "Delete the remote record and reset the document to its defaults",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.ResourceNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			if !confirmDelete {
				if !prompter.IsInteractive(command) {
					return common.ValidationError("flag --confirm-delete is required", nil)
				}
				confirmed, err := prompter.Confirm(command, fmt.Sprintf("Delete the remote %s record?", args[0]), false)
				if err != nil {
					return err
				}
				if !confirmed {
					return common.WriteText(command, common.OutputText, "delete canceled")
				}
			}

			session, err := common.OpenSession(command, deps, args[0])
			if err != nil {
				return err
			}
			if err := deps.Orchestrator.Delete(command.Context(), session); err != nil {
				return err
			}
			return common.WriteSessionSummary(command, globalFlags.Output, session)
		},
	}

	command.Flags().BoolVar(&confirmDelete, "confirm-delete", false, "confirm remote deletion")
	return command
}

func newDiscardCommand(deps common.CommandDependencies) *cobra.Command {
	return &cobra.Command{
		Use:               "discard <name>",
		Short:             "Drop the local draft of a resource",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.ResourceNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			orchestratorService, err := common.RequireOrchestrator(deps)
			if err != nil {
				return err
			}
			return orchestratorService.Discard(command.Context(), args[0])
		},
	}
}

func newDraftsCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "drafts",
		Short: "List local drafts",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			orchestratorService, err := common.RequireOrchestrator(deps)
			if err != nil {
				return err
			}
			entries, err := orchestratorService.Drafts(command.Context())
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []drafts.Entry{}
			}
			return common.WriteOutput(command, globalFlags.Output, entries, func(w io.Writer, value []drafts.Entry) error {
				for _, entry := range value {
					if _, err := fmt.Fprintf(w, "%s  %s\n", entry.Resource, entry.UpdatedAt.Format("2006-01-02 15:04:05")); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
