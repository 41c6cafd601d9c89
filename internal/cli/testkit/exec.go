package testkit

import (
	"bytes"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

var executeCommandForTestMu sync.Mutex

// Result holds the streams captured from one command execution.
type Result struct {
	Stdout string
	Stderr string
}

func ExecuteCommandForTest(command *cobra.Command, stdin string, args ...string) (string, error) {
	result, err := Run(command, stdin, args...)
	return result.Stdout, err
}

// Run executes command with args and stdin, capturing stdout and stderr.
func Run(command *cobra.Command, stdin string, args ...string) (Result, error) {
	// Cobra mutates command and flag annotation maps while serving completion
	// and help output, so executions are serialized.
	executeCommandForTestMu.Lock()
	defer executeCommandForTestMu.Unlock()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	command.SetOut(stdout)
	command.SetErr(stderr)
	command.SetIn(strings.NewReader(stdin))
	command.SetArgs(args)

	err := command.Execute()
	return Result{Stdout: stdout.String(), Stderr: stderr.String()}, err
}

// RegisteredPaths lists every user-facing command path below command.
func RegisteredPaths(command *cobra.Command, prefix []string) [][]string {
	paths := make([][]string, 0)
	for _, child := range command.Commands() {
		name := child.Name()
		if name == "help" || strings.HasPrefix(name, "__") {
			continue
		}
		current := append(append([]string{}, prefix...), name)
		paths = append(paths, current)
		paths = append(paths, RegisteredPaths(child, current)...)
	}
	return paths
}
