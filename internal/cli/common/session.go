package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/crmarques/contentdesk/editor"
	"github.com/crmarques/contentdesk/orchestrator"
	"github.com/spf13/cobra"
)

// OpenSession opens the working copy of resource. A tolerated remote load
// failure is reported on stderr and the session continues from the defaults.
func OpenSession(command *cobra.Command, deps CommandDependencies, resource string) (*editor.Session, error) {
	orchestratorService, err := RequireOrchestrator(deps)
	if err != nil {
		return nil, err
	}

	opened, err := orchestratorService.Open(command.Context(), strings.TrimSpace(resource))
	if err != nil {
		return nil, err
	}
	WarnLoadError(command, opened)
	return opened.Session, nil
}

// EditSession opens resource, applies edit and writes the draft back.
func EditSession(command *cobra.Command, deps CommandDependencies, resource string, edit func(*editor.Session) error) (*editor.Session, error) {
	session, err := OpenSession(command, deps, resource)
	if err != nil {
		return nil, err
	}
	if err := edit(session); err != nil {
		return nil, err
	}
	if err := deps.Orchestrator.Persist(command.Context(), session); err != nil {
		return nil, err
	}
	return session, nil
}

// ReadSession opens resource for reading. A session freshly loaded from the
// remote API is stored as the draft so later edits start from the same base.
func ReadSession(command *cobra.Command, deps CommandDependencies, resource string) (*editor.Session, error) {
	orchestratorService, err := RequireOrchestrator(deps)
	if err != nil {
		return nil, err
	}

	opened, err := orchestratorService.Open(command.Context(), strings.TrimSpace(resource))
	if err != nil {
		return nil, err
	}
	WarnLoadError(command, opened)
	if !opened.FromDraft {
		if err := orchestratorService.Persist(command.Context(), opened.Session); err != nil {
			return nil, err
		}
	}
	return opened.Session, nil
}

func WarnLoadError(command *cobra.Command, opened orchestrator.OpenedSession) {
	if opened.LoadError == nil {
		return
	}
	_, _ = fmt.Fprintf(
		command.ErrOrStderr(),
		"warning: remote load failed, editing defaults: %s\n",
		strings.TrimSpace(opened.LoadError.Error()),
	)
}

// SessionSummary is the one-line view of a session printed after commands
// that change it.
type SessionSummary struct {
	Resource  string `json:"resource" yaml:"resource"`
	State     string `json:"state" yaml:"state"`
	RecordID  string `json:"recordId,omitempty" yaml:"recordId,omitempty"`
	Exists    bool   `json:"exists" yaml:"exists"`
	Completed int    `json:"completed" yaml:"completed"`
	Total     int    `json:"total" yaml:"total"`
	Percent   int    `json:"percent" yaml:"percent"`
	Pending   int    `json:"pending" yaml:"pending"`
	LastError string `json:"lastError,omitempty" yaml:"lastError,omitempty"`
}

func SummarizeSession(session *editor.Session) SessionSummary {
	score := session.Completion()
	return SessionSummary{
		Resource:  session.Metadata().Name,
		State:     string(session.State()),
		RecordID:  session.RecordID(),
		Exists:    session.Exists(),
		Completed: score.Completed,
		Total:     score.Total,
		Percent:   score.Percent(),
		Pending:   len(session.Pending()),
		LastError: session.LastError(),
	}
}

func WriteSessionSummary(command *cobra.Command, format string, session *editor.Session) error {
	return WriteOutput(command, format, SummarizeSession(session), renderSessionSummary)
}

func renderSessionSummary(w io.Writer, summary SessionSummary) error {
	record := summary.RecordID
	if record == "" {
		record = "-"
	}
	line := fmt.Sprintf(
		"%s state=%s record=%s completion=%d/%d (%d%%)",
		summary.Resource,
		summary.State,
		record,
		summary.Completed,
		summary.Total,
		summary.Percent,
	)
	if summary.Pending > 0 {
		line += fmt.Sprintf(" pending=%d", summary.Pending)
	}
	if summary.LastError != "" {
		line += fmt.Sprintf(" error=%q", summary.LastError)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
