package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/faults"
	"github.com/crmarques/contentdesk/internal/cli/commandmeta"
	"github.com/crmarques/contentdesk/internal/cli/common"
	"github.com/crmarques/contentdesk/orchestrator"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// Dependencies carries the services commands run against. Orchestrator stays
// nil for commands that do not need a resolved context.
type Dependencies struct {
	Orchestrator orchestrator.Orchestrator
	Contexts     config.ContextService
}

func (d Dependencies) commandDependencies() common.CommandDependencies {
	return common.CommandDependencies{
		Orchestrator: d.Orchestrator,
		Contexts:     d.Contexts,
	}
}

// RequiresContextBootstrapPath reports whether the command at commandPath
// needs Dependencies.Orchestrator.
func RequiresContextBootstrapPath(commandPath string) bool {
	return commandmeta.RequiresContextBootstrapPath(commandPath)
}

var exitCodes = map[faults.ErrorCategory]int{
	faults.ValidationError: 2,
	faults.NotFoundError:   3,
	faults.AuthError:       4,
	faults.ConflictError:   5,
	faults.TransportError:  6,
	faults.LimitError:      7,
}

// Execute runs the command tree against os.Args and reports the outcome of
// mutating commands on stderr.
func Execute(deps Dependencies) error {
	root := NewRootCommand(deps)
	executed, err := root.ExecuteC()

	args := os.Args[1:]
	stderr := root.ErrOrStderr()
	switch {
	case !shouldEmitExecutionStatus(args, executed):
		if err != nil {
			_, _ = fmt.Fprintln(stderr, strings.TrimSpace(err.Error()))
		}
	case err != nil:
		writeExecutionErrorStatus(stderr, err)
	default:
		writeExecutionOKStatus(stderr)
	}
	return err
}

func ExitCodeForError(err error) int {
	if err == nil {
		return 0
	}
	var typedErr *faults.TypedError
	if !errors.As(err, &typedErr) {
		return 1
	}
	if code, ok := exitCodes[typedErr.Category]; ok {
		return code
	}
	return 1
}

func writeExecutionOKStatus(w io.Writer) {
	_, _ = fmt.Fprintf(w, "%s command executed successfully.\n", statusLabel(w, "OK", "1;32"))
}

func writeExecutionErrorStatus(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "%s command execution failed: %s.\n", statusLabel(w, "ERROR", "1;31"), strings.TrimSpace(err.Error()))
}

func statusLabel(w io.Writer, status string, sgr string) string {
	label := "[" + status + "]"
	if !supportsANSIStatus(w) {
		return label
	}
	return "\x1b[" + sgr + "m" + label + "\x1b[0m"
}

func supportsANSIStatus(w io.Writer) bool {
	if shouldSuppressColor(os.Args[1:]) {
		return false
	}
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return false
	}
	termName := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	return termName != "" && termName != "dumb"
}

func shouldSuppressColor(args []string) bool {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return true
	}
	return boolArg(args, "no-color", "")
}

func shouldEmitExecutionStatus(args []string, command *cobra.Command) bool {
	if command == nil || shouldSuppressStatusMessage(args) || isHelpOrCompletionInvocation(args) {
		return false
	}
	return commandPathSupportsExecutionStatus(strings.TrimSpace(command.CommandPath()))
}

func commandPathSupportsExecutionStatus(path string) bool {
	return commandmeta.EmitsExecutionStatusPath(path)
}

func shouldSuppressStatusMessage(args []string) bool {
	return boolArg(args, "no-status", "n")
}

// boolArg reads a boolean global flag from raw arguments before cobra has
// parsed them. Unknown flags are ignored.
func boolArg(args []string, long string, short string) bool {
	flags := pflag.NewFlagSet(long, pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.SetOutput(io.Discard)

	var value bool
	flags.BoolVarP(&value, long, short, false, "")
	if err := flags.Parse(args); err == nil {
		return value
	}

	for _, arg := range args {
		if arg == "--" {
			break
		}
		if arg == "--"+long || (short != "" && arg == "-"+short) {
			return true
		}
		if raw, ok := strings.CutPrefix(arg, "--"+long+"="); ok {
			return strings.TrimSpace(raw) != "false"
		}
	}
	return false
}

func isHelpOrCompletionInvocation(args []string) bool {
	if len(args) == 0 {
		return true
	}
	switch args[0] {
	case "help", "completion", "__complete", "__completeNoDesc":
		return true
	}
	for _, arg := range args {
		if arg == "--" {
			break
		}
		if arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}
