package resource

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/crmarques/contentdesk/internal/cli/common"
	"github.com/crmarques/contentdesk/metadata"
	"github.com/spf13/cobra"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "resource",
		Short: "Inspect the resource catalog",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newListCommand(deps, globalFlags),
		newDefaultsCommand(deps, globalFlags),
		newExplainCommand(deps, globalFlags),
	)

	return command
}

type resourceRow struct {
	Name    string `json:"name" yaml:"name"`
	Title   string `json:"title" yaml:"title"`
	APIPath string `json:"apiPath" yaml:"apiPath"`
}

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List editable resources",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			orchestratorService, err := common.RequireOrchestrator(deps)
			if err != nil {
				return err
			}

			resources := orchestratorService.Resources()
			rows := make([]resourceRow, 0, len(resources))
			for _, item := range resources {
				rows = append(rows, resourceRow{Name: item.Name, Title: item.DisplayTitle(), APIPath: item.APIPath})
			}

			return common.WriteOutput(command, globalFlags.Output, rows, func(w io.Writer, value []resourceRow) error {
				width := 0
				for _, row := range value {
					width = max(width, len(row.Name))
				}
				for _, row := range value {
					if _, writeErr := fmt.Fprintf(w, "%-*s  %s\n", width, row.Name, row.Title); writeErr != nil {
						return writeErr
					}
				}
				return nil
			})
		},
	}
}

func newDefaultsCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "defaults <name>",
		Short:             "Print the defaults template of a resource",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.ResourceNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			orchestratorService, err := common.RequireOrchestrator(deps)
			if err != nil {
				return err
			}
			meta, err := orchestratorService.Resource(args[0])
			if err != nil {
				return err
			}

			format, err := common.ResolveDocumentOutputFormat(command.Context(), deps, globalFlags)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, format, meta.DefaultsDocument(), nil)
		},
	}
}

// explanation flattens the parts of a resource definition an editor cares
// about, with list limits resolved for the active plan.
type explanation struct {
	Name             string            `json:"name" yaml:"name"`
	Title            string            `json:"title" yaml:"title"`
	APIPath          string            `json:"apiPath" yaml:"apiPath"`
	Plan             string            `json:"plan" yaml:"plan"`
	DeleteWithIDBody bool              `json:"deleteWithIdBody" yaml:"deleteWithIdBody"`
	CompletionFields []string          `json:"completionFields,omitempty" yaml:"completionFields,omitempty"`
	Lists            []listExplanation `json:"lists,omitempty" yaml:"lists,omitempty"`
	SaveRules        []string          `json:"saveRules,omitempty" yaml:"saveRules,omitempty"`
}

type listExplanation struct {
	Path     string   `json:"path" yaml:"path"`
	Limit    int      `json:"limit" yaml:"limit"`
	IDField  string   `json:"idField,omitempty" yaml:"idField,omitempty"`
	Renumber string   `json:"renumber,omitempty" yaml:"renumber,omitempty"`
	Required []string `json:"required,omitempty" yaml:"required,omitempty"`
}

func newExplainCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "explain <name>",
		Short:             "Describe a resource: api path, completion fields, lists and save rules",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.ResourceNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			orchestratorService, err := common.RequireOrchestrator(deps)
			if err != nil {
				return err
			}
			meta, err := orchestratorService.Resource(args[0])
			if err != nil {
				return err
			}

			value := explain(meta, orchestratorService.Plan())
			return common.WriteOutput(command, globalFlags.Output, value, renderExplanation)
		},
	}
}

func explain(meta metadata.ResourceMetadata, plan string) explanation {
	value := explanation{
		Name:             meta.Name,
		Title:            meta.DisplayTitle(),
		APIPath:          meta.APIPath,
		Plan:             plan,
		DeleteWithIDBody: meta.DeleteWithIDBody,
		CompletionFields: append([]string(nil), meta.Completion.Fields...),
	}

	required := make(map[string][]string, len(meta.Completion.Lists))
	for _, list := range meta.Completion.Lists {
		required[list.Path] = append([]string(nil), list.Required...)
	}

	for _, path := range meta.ListPaths() {
		policy := meta.Lists[path]
		item := listExplanation{
			Path:     path,
			Limit:    policy.LimitFor(plan),
			IDField:  policy.IDField,
			Required: required[path],
		}
		if policy.Renumber != nil {
			item.Renumber = policy.Renumber.Field
		}
		value.Lists = append(value.Lists, item)
	}

	for idx, rule := range meta.SaveRules {
		label := strings.TrimSpace(rule.Name)
		if label == "" {
			label = fmt.Sprintf("rule %d", idx+1)
		}
		if message := strings.TrimSpace(rule.Message); message != "" {
			label += ": " + message
		}
		value.SaveRules = append(value.SaveRules, label)
	}
	sort.Strings(value.CompletionFields)

	return value
}

func renderExplanation(w io.Writer, value explanation) error {
	lines := []string{
		fmt.Sprintf("%s (%s)", value.Title, value.Name),
		fmt.Sprintf("  api path:    %s", value.APIPath),
		fmt.Sprintf("  plan:        %s", value.Plan),
	}
	if value.DeleteWithIDBody {
		lines = append(lines, "  delete:      sends record id in body")
	}
	if len(value.CompletionFields) > 0 {
		lines = append(lines, "  fields:      "+strings.Join(value.CompletionFields, ", "))
	}
	for _, list := range value.Lists {
		limit := "unlimited"
		if list.Limit > 0 {
			limit = fmt.Sprintf("max %d", list.Limit)
		}
		line := fmt.Sprintf("  list %s: %s", list.Path, limit)
		if list.IDField != "" {
			line += ", id " + list.IDField
		}
		if list.Renumber != "" {
			line += ", renumbers " + list.Renumber
		}
		if len(list.Required) > 0 {
			line += ", requires " + strings.Join(list.Required, "+")
		}
		lines = append(lines, line)
	}
	for _, rule := range value.SaveRules {
		lines = append(lines, "  save rule:   "+rule)
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
