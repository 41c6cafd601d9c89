package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/core"
	"github.com/crmarques/contentdesk/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	bootstrap := core.BootstrapConfig{ContextCatalogPath: flagValueFromArgs(args, "--contexts-file", "")}
	deps := cli.Dependencies{Contexts: core.NewContextService(bootstrap)}

	if !shouldSkipContextBootstrap(args) {
		selection := config.ContextSelection{Name: flagValueFromArgs(args, "--context", "-c")}
		contentContext, err := core.NewContentContext(context.Background(), bootstrap, selection)
		switch {
		case err == nil:
			deps = cli.Dependencies{Orchestrator: contentContext.Orchestrator, Contexts: contentContext.Contexts}
		case !isShellCompletionInvocation(args):
			_, _ = fmt.Fprintln(os.Stderr, err)
			return cli.ExitCodeForError(err)
		}
	}

	return cli.ExitCodeForError(cli.Execute(deps))
}

// flagValueFromArgs scans raw arguments for a string flag before cobra parses
// them. Scanning stops at "--".
func flagValueFromArgs(args []string, long string, short string) string {
	for idx, arg := range args {
		switch {
		case arg == "--":
			return ""
		case arg == long || (short != "" && arg == short):
			if idx+1 < len(args) {
				return args[idx+1]
			}
			return ""
		}
		if value, ok := strings.CutPrefix(arg, long+"="); ok {
			return value
		}
	}
	return ""
}

func isHelpInvocation(args []string) bool {
	if len(args) == 0 || args[0] == "help" {
		return true
	}
	flags := args
	if end := slices.Index(args, "--"); end >= 0 {
		flags = args[:end]
	}
	return slices.Contains(flags, "--help") || slices.Contains(flags, "-h")
}

func isShellCompletionInvocation(args []string) bool {
	return len(args) > 0 && (args[0] == "__complete" || args[0] == "__completeNoDesc")
}

// shouldSkipContextBootstrap reports whether args can run without a resolved
// context. Shell completion needs one only when it completes a positional of
// a content command; invalid invocations skip it so cobra reports the error.
func shouldSkipContextBootstrap(args []string) bool {
	switch {
	case isHelpInvocation(args):
		return true
	case args[0] == "completion":
		return true
	case isShellCompletionInvocation(args):
		target := args[1:max(len(args)-1, 1)]
		path, ok := probeCommandPath(target, false)
		return len(target) == 0 || !ok || !cli.RequiresContextBootstrapPath(path)
	}

	path, ok := probeCommandPath(args, true)
	return !ok || !cli.RequiresContextBootstrapPath(path)
}

// probeCommandPath resolves args against an unbootstrapped command tree. With
// validate set, flags and positional counts must also be accepted.
func probeCommandPath(args []string, validate bool) (string, bool) {
	command, remaining, err := cli.NewRootCommand(cli.Dependencies{}).Find(args)
	if err != nil || command == nil || !command.Runnable() {
		return "", false
	}
	if validate {
		if err := command.ParseFlags(remaining); err != nil {
			return "", false
		}
		if err := command.ValidateArgs(command.Flags().Args()); err != nil {
			return "", false
		}
	}
	return command.CommandPath(), true
}
