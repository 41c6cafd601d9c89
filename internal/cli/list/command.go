package list

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/crmarques/contentdesk/document"
	"github.com/crmarques/contentdesk/editor"
	"github.com/crmarques/contentdesk/internal/cli/common"
	"github.com/spf13/cobra"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "Edit the ordered lists of a resource document",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newShowCommand(deps, globalFlags),
		newAddCommand(deps, globalFlags),
		newUpdateCommand(deps, globalFlags),
		newRemoveCommand(deps, globalFlags),
		newMoveCommand(deps, globalFlags),
	)

	return command
}

type itemFlags struct {
	Assignments []string
	Item        string
}

func bindItemFlags(command *cobra.Command, flags *itemFlags) {
	command.Flags().StringArrayVarP(&flags.Assignments, "set", "e", nil, "item field key=value, comma separated or repeated")
	command.Flags().StringVar(&flags.Item, "item", "", "item fields as a JSON object")
}

// fields merges the --item object with the --set assignments, which win.
func (f itemFlags) fields() (map[string]any, error) {
	fields := map[string]any{}
	if strings.TrimSpace(f.Item) != "" {
		decoded, err := common.DecodeDocumentValue([]byte(f.Item), common.OutputJSON)
		if err != nil {
			return nil, err
		}
		object, ok := decoded.(map[string]any)
		if !ok {
			return nil, common.ValidationError("flag --item must be a JSON object", nil)
		}
		for key, value := range object {
			fields[key] = value
		}
	}

	if len(f.Assignments) > 0 {
		assigned, err := common.ParseAssignments(f.Assignments)
		if err != nil {
			return nil, err
		}
		for key, value := range assigned {
			fields[key] = value
		}
	}
	return fields, nil
}

type listView struct {
	Resource string `json:"resource" yaml:"resource"`
	List     string `json:"list" yaml:"list"`
	Limit    int    `json:"limit" yaml:"limit"`
	Items    []any  `json:"items" yaml:"items"`
}

func newShowCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "show <name> <list>",
		Short:             "Print the items of a list",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: common.ResourceListArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			list, err := parseListPath(args[1])
			if err != nil {
				return err
			}
			session, err := common.ReadSession(command, deps, args[0])
			if err != nil {
				return err
			}
			return writeListView(command, globalFlags, session, list)
		},
	}
}

func newAddCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var flags itemFlags

	command := &cobra.Command{
		Use:   "add <name> <list>",
		Short: "Append an item, starting from the list placeholder",
		Example: strings.Join([]string{
			"  contentdesk list add features features --set icon=mdi:leaf,label=Campo",
			"  contentdesk list add faq items --item '{\"question\":\"Como?\",\"answer\":\"Assim.\"}'",
		}, "\n"),
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: common.ResourceListArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			list, err := parseListPath(args[1])
			if err != nil {
				return err
			}
			fields, err := flags.fields()
			if err != nil {
				return err
			}

			session, err := common.EditSession(command, deps, args[0], func(session *editor.Session) error {
				item := session.Metadata().PlaceholderItem(list)
				if item == nil {
					item = map[string]any{}
				}
				for key, value := range fields {
					item[key] = value
				}

				added, err := session.AddItem(list, item)
				if err != nil {
					return err
				}
				if !added {
					return common.LimitError(fmt.Sprintf(
						"list %q of %s is full: the %s plan allows %d items",
						list.String(),
						args[0],
						deps.Orchestrator.Plan(),
						session.ListLimit(list),
					))
				}
				return nil
			})
			if err != nil {
				return err
			}
			return writeListView(command, globalFlags, session, list)
		},
	}

	bindItemFlags(command, &flags)
	return command
}

func newUpdateCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var flags itemFlags

	command := &cobra.Command{
		Use:               "update <name> <list> <index>",
		Short:             "Merge fields into the item at index",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: common.ResourceListArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			list, err := parseListPath(args[1])
			if err != nil {
				return err
			}
			index, err := parseIndex("index", args[2])
			if err != nil {
				return err
			}
			fields, err := flags.fields()
			if err != nil {
				return err
			}
			if len(fields) == 0 {
				return common.ValidationError("flag --set or --item is required", nil)
			}

			session, err := common.EditSession(command, deps, args[0], func(session *editor.Session) error {
				if err := requireIndex(session, list, index); err != nil {
					return err
				}
				return session.UpdateItem(list, index, fields)
			})
			if err != nil {
				return err
			}
			return writeListView(command, globalFlags, session, list)
		},
	}

	bindItemFlags(command, &flags)
	return command
}

func newRemoveCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "remove <name> <list> <index>",
		Short:             "Remove the item at index; the last item is reset to the placeholder",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: common.ResourceListArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			list, err := parseListPath(args[1])
			if err != nil {
				return err
			}
			index, err := parseIndex("index", args[2])
			if err != nil {
				return err
			}

			session, err := common.EditSession(command, deps, args[0], func(session *editor.Session) error {
				if err := requireIndex(session, list, index); err != nil {
					return err
				}
				return session.RemoveItem(list, index)
			})
			if err != nil {
				return err
			}
			return writeListView(command, globalFlags, session, list)
		},
	}
}

func newMoveCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "move <name> <list> <from> <to>",
		Short:             "Move an item to another position",
		Args:              cobra.ExactArgs(4),
		ValidArgsFunction: common.ResourceListArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			list, err := parseListPath(args[1])
			if err != nil {
				return err
			}
			from, err := parseIndex("from", args[2])
			if err != nil {
				return err
			}
			to, err := parseIndex("to", args[3])
			if err != nil {
				return err
			}

			session, err := common.EditSession(command, deps, args[0], func(session *editor.Session) error {
				if err := requireIndex(session, list, from); err != nil {
					return err
				}
				if err := requireIndex(session, list, to); err != nil {
					return err
				}
				return session.MoveItem(list, from, to)
			})
			if err != nil {
				return err
			}
			return writeListView(command, globalFlags, session, list)
		},
	}
}

func parseListPath(raw string) (document.Path, error) {
	list, err := document.ParsePath(raw)
	if err != nil {
		return nil, err
	}
	if list.IsRoot() {
		return nil, common.ValidationError("list path is required", nil)
	}
	return list, nil
}

func parseIndex(name string, raw string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || index < 0 {
		return 0, common.ValidationError(fmt.Sprintf("%s must be a non-negative integer, got %q", name, raw), nil)
	}
	return index, nil
}

func requireIndex(session *editor.Session, list document.Path, index int) error {
	items, err := session.Items(list)
	if err != nil {
		return err
	}
	if index >= len(items) {
		return common.ValidationError(
			fmt.Sprintf("index %d is out of range for list %q with %d items", index, list.String(), len(items)),
			nil,
		)
	}
	return nil
}

func writeListView(command *cobra.Command, globalFlags *common.GlobalFlags, session *editor.Session, list document.Path) error {
	items, err := session.Items(list)
	if err != nil {
		return err
	}
	if items == nil {
		items = []any{}
	}

	view := listView{
		Resource: session.Metadata().Name,
		List:     list.String(),
		Limit:    session.ListLimit(list),
		Items:    items,
	}
	return common.WriteOutput(command, globalFlags.Output, view, renderListView)
}

func renderListView(w io.Writer, view listView) error {
	limit := "unlimited"
	if view.Limit > 0 {
		limit = strconv.Itoa(view.Limit)
	}
	if _, err := fmt.Fprintf(w, "%s %s: %d items (limit %s)\n", view.Resource, view.List, len(view.Items), limit); err != nil {
		return err
	}
	for idx, item := range view.Items {
		if _, err := fmt.Fprintf(w, "  [%d] %s\n", idx, describeItem(item)); err != nil {
			return err
		}
	}
	return nil
}

// describeItem prints the first non-blank text field of an item, which is the
// label a person recognises it by.
func describeItem(item any) string {
	fields, ok := item.(map[string]any)
	if !ok {
		return fmt.Sprint(item)
	}
	for _, key := range []string{"label", "title", "question", "name", "text", "caption", "src"} {
		if text, ok := fields[key].(string); ok && strings.TrimSpace(text) != "" {
			return text
		}
	}
	return "(empty)"
}
