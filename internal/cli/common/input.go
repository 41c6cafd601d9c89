package common

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/crmarques/contentdesk/document"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

const (
	stdinFileIndicator  = "-"
	MissingInputMessage = "input is required: provide --payload <path|-> or stdin"
	maxInputBytes       = 4 << 20
)

// DecodeDocumentValue parses a json or yaml payload into a normalized
// document value.
func DecodeDocumentValue(data []byte, format string) (document.Value, error) {
	switch format {
	case "", OutputJSON:
		value, err := document.DecodeJSON(data)
		if err != nil {
			return nil, ValidationError("invalid json input", err)
		}
		return value, nil
	case OutputYAML:
		var decoded any
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			return nil, ValidationError("invalid yaml input", err)
		}
		value, err := document.Normalize(decoded)
		if err != nil {
			return nil, ValidationError("invalid yaml input", err)
		}
		return value, nil
	default:
		return nil, ValidationError("invalid input format: use json or yaml", nil)
	}
}

// ReadInput reads the --payload file, or stdin when the payload is "-" or
// unset. A terminal on stdin counts as no input.
func ReadInput(command *cobra.Command, flags InputFlags) ([]byte, error) {
	if flags.Payload != "" && flags.Payload != stdinFileIndicator {
		file, err := os.Open(flags.Payload)
		if err != nil {
			return nil, ValidationError("failed to open input file", err)
		}
		defer file.Close()

		data, err := readAllWithLimit(file, maxInputBytes)
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, ValidationError("input is empty", nil)
		}
		return data, nil
	}

	inputReader := command.InOrStdin()
	if _, isFile := inputReader.(*os.File); isFile && !HasPipedInput(command) {
		return nil, ValidationError(MissingInputMessage, nil)
	}

	data, err := readAllWithLimit(inputReader, maxInputBytes)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ValidationError(MissingInputMessage, nil)
	}

	return data, nil
}

func readAllWithLimit(reader io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, ValidationError("input exceeds maximum supported size", errors.New("input too large"))
	}
	return data, nil
}
