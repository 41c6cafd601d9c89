package common

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestIsInteractiveTerminal(t *testing.T) {
	t.Parallel()

	buffered := &cobra.Command{}
	buffered.SetIn(strings.NewReader(""))
	buffered.SetOut(&bytes.Buffer{})
	if IsInteractiveTerminal(buffered) {
		t.Fatal("expected in-memory streams not to be interactive")
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		t.Skipf("cannot open %s: %v", os.DevNull, err)
	}
	defer devNull.Close()

	nullCommand := &cobra.Command{}
	nullCommand.SetIn(devNull)
	nullCommand.SetOut(devNull)
	if IsInteractiveTerminal(nullCommand) {
		t.Fatal("expected the null device not to be interactive")
	}
}

func TestHasPipedInput(t *testing.T) {
	t.Parallel()

	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	defer reader.Close()
	defer writer.Close()

	command := &cobra.Command{}
	command.SetIn(reader)
	if !HasPipedInput(command) {
		t.Fatal("expected a pipe to count as piped input")
	}

	command.SetIn(strings.NewReader("{}"))
	if HasPipedInput(command) {
		t.Fatal("expected a non-file reader not to count as piped input")
	}
}
