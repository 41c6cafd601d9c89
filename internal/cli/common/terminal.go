package common

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// IsInteractiveTerminal reports whether both stdin and stdout are terminals.
// Character devices such as /dev/null do not count.
func IsInteractiveTerminal(command *cobra.Command) bool {
	in, _, ok := fileFromReader(command.InOrStdin())
	if !ok || in == nil {
		return false
	}
	out, _, ok := fileFromWriter(command.OutOrStdout())
	if !ok || out == nil {
		return false
	}

	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

func HasPipedInput(command *cobra.Command) bool {
	_, info, ok := fileFromReader(command.InOrStdin())
	if !ok || info == nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) == 0
}

func fileFromReader(reader io.Reader) (*os.File, os.FileInfo, bool) {
	file, ok := reader.(*os.File)
	if !ok {
		return nil, nil, false
	}
	info, err := file.Stat()
	if err != nil {
		return nil, nil, false
	}
	return file, info, true
}

func fileFromWriter(writer io.Writer) (*os.File, os.FileInfo, bool) {
	file, ok := writer.(*os.File)
	if !ok {
		return nil, nil, false
	}
	info, err := file.Stat()
	if err != nil {
		return nil, nil, false
	}
	return file, info, true
}
