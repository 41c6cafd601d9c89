package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	configdomain "github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/drafts"
	"github.com/crmarques/contentdesk/internal/cli/commandmeta"
	"github.com/crmarques/contentdesk/yamlutil"
	"github.com/spf13/cobra"
)

const (
	OutputAuto = "auto"
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

func ValidateOutputFormat(format string) error {
	switch format {
	case OutputAuto, OutputText, OutputJSON, OutputYAML:
		return nil
	default:
		return ValidationError("invalid output format: use auto, text, json, or yaml", nil)
	}
}

func ValidateOutputFormatForCommandPath(commandPath string, format string) error {
	switch strings.TrimSpace(format) {
	case "", OutputAuto, OutputText:
		return nil
	}

	switch commandmeta.OutputPolicyForPath(commandPath) {
	case commandmeta.OutputPolicyTextOnly:
		return ValidationError("command supports only text output; use --output text or --output auto", nil)
	case commandmeta.OutputPolicyYAMLDefaultTextOrYAML:
		if strings.TrimSpace(format) == OutputYAML {
			return nil
		}
		return ValidationError("command supports only yaml or text output; use --output yaml, text, or auto", nil)
	default:
		return nil
	}
}

// ResolveDocumentOutputFormat maps --output auto to the draft format of the
// selected context so documents print the way they are stored.
func ResolveDocumentOutputFormat(ctx context.Context, deps CommandDependencies, globalFlags *GlobalFlags) (string, error) {
	if globalFlags == nil || globalFlags.Output == "" {
		return OutputJSON, nil
	}
	if globalFlags.Output != OutputAuto {
		return globalFlags.Output, nil
	}
	if deps.Contexts == nil {
		return OutputJSON, nil
	}

	resolvedContext, err := deps.Contexts.ResolveContext(ctx, configdomain.ContextSelection{Name: globalFlags.Context})
	if err != nil {
		return "", err
	}

	format, err := drafts.ParseFormat(resolvedContext.Drafts.Format)
	if err != nil {
		return "", ValidationError("invalid draft format in context", err)
	}
	switch format {
	case drafts.FormatYAML:
		return OutputYAML, nil
	default:
		return OutputJSON, nil
	}
}

// WriteOutput prints value in format. Text formats use renderText when set;
// nil values print nothing.
func WriteOutput[T any](command *cobra.Command, format string, value T, renderText func(io.Writer, T) error) error {
	if isNilOutputValue(value) {
		return nil
	}

	out := command.OutOrStdout()
	switch format {
	case OutputAuto, OutputText:
		if renderText == nil {
			_, err := fmt.Fprintln(out, value)
			return err
		}
		return renderText(out, value)
	case OutputJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case OutputYAML:
		encoded, err := yamlutil.Marshal(value)
		if err != nil {
			return err
		}
		_, err = out.Write(encoded)
		return err
	}
	return ValidateOutputFormat(format)
}

func WriteText(command *cobra.Command, format string, text string) error {
	return WriteOutput(command, format, text, func(w io.Writer, value string) error {
		_, err := fmt.Fprintln(w, value)
		return err
	})
}

func isNilOutputValue[T any](value T) bool {
	reflected := reflect.ValueOf(any(value))
	if !reflected.IsValid() {
		return true
	}
	switch reflected.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return reflected.IsNil()
	}
	return false
}
