package doc

import (
	"github.com/charmbracelet/huh"
	"github.com/crmarques/contentdesk/completion"
	"github.com/crmarques/contentdesk/document"
	"github.com/crmarques/contentdesk/editor"
	"github.com/crmarques/contentdesk/internal/cli/common"
	"github.com/spf13/cobra"
)

type formField struct {
	Path  document.Path
	Value string
}

type formPrompter interface {
	IsInteractive(command *cobra.Command) bool
	EditFields(command *cobra.Command, title string, fields []formField) ([]formField, error)
	Confirm(command *cobra.Command, prompt string, defaultYes bool) (bool, error)
}

type terminalFormPrompter struct{}

func (terminalFormPrompter) IsInteractive(command *cobra.Command) bool {
	return common.IsInteractiveTerminal(command)
}

func (terminalFormPrompter) EditFields(command *cobra.Command, title string, fields []formField) ([]formField, error) {
	edited := make([]formField, len(fields))
	copy(edited, fields)

	inputs := make([]huh.Field, 0, len(edited)+1)
	inputs = append(inputs, huh.NewNote().Title(title))
	for idx := range edited {
		inputs = append(inputs, huh.NewInput().
			Title(edited[idx].Path.String()).
			Value(&edited[idx].Value))
	}

	if err := common.RunForm(command, huh.NewGroup(inputs...)); err != nil {
		return nil, err
	}
	return edited, nil
}

func (terminalFormPrompter) Confirm(command *cobra.Command, prompt string, defaultYes bool) (bool, error) {
	return common.PromptConfirm(command, prompt, defaultYes)
}

func newEditCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags, prompter formPrompter) *cobra.Command {
	var missingOnly bool

	command := &cobra.Command{
		Use:               "edit <name>",
		Short:             "Edit the text fields of a document in an interactive form",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.ResourceNameArgCompletion(deps),
		RunE: func(command *cobra.Command, args []string) error {
			if !prompter.IsInteractive(command) {
				return common.ValidationError("interactive terminal is required", nil)
			}

			session, err := common.EditSession(command, deps, args[0], func(session *editor.Session) error {
				fields := editableFields(session, missingOnly)
				if len(fields) == 0 {
					return nil
				}

				edited, err := prompter.EditFields(command, session.Metadata().DisplayTitle(), fields)
				if err != nil {
					return err
				}
				return applyEditedFields(session, fields, edited)
			})
			if err != nil {
				return err
			}
			return common.WriteSessionSummary(command, globalFlags.Output, session)
		},
	}

	command.Flags().BoolVar(&missingOnly, "missing", false, "only show fields that are not filled in yet")
	return command
}

// editableFields lists the completion fields holding text. Fields holding
// numbers, booleans or containers are left to doc set.
func editableFields(session *editor.Session, missingOnly bool) []formField {
	fieldSpec, err := session.Metadata().FieldSpec()
	if err != nil {
		return nil
	}

	fields := make([]formField, 0, len(fieldSpec.Fields))
	for _, path := range fieldSpec.Fields {
		current, found := session.Get(path)
		text, isText := current.(string)
		if found && current != nil && !isText {
			continue
		}
		if missingOnly && completion.Filled(current) {
			continue
		}
		fields = append(fields, formField{Path: path, Value: text})
	}
	return fields
}

func applyEditedFields(session *editor.Session, original []formField, edited []formField) error {
	for idx := range edited {
		if idx < len(original) && original[idx].Value == edited[idx].Value {
			continue
		}
		if err := session.Set(edited[idx].Path, edited[idx].Value); err != nil {
			return err
		}
	}
	return nil
}
