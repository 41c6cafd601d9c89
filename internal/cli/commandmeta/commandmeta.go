package commandmeta

import (
	"strings"
)

const rootCommandName = "contentdesk"

type OutputPolicy uint8

const (
	OutputPolicyStructured OutputPolicy = iota
	OutputPolicyTextOnly
	OutputPolicyYAMLDefaultTextOrYAML
)

// RequiresContextBootstrapPath reports whether the command needs a resolved
// context with its gateway, catalog and draft store before it runs.
func RequiresContextBootstrapPath(commandPath string) bool {
	normalized := strings.TrimSpace(commandPath)
	switch {
	case strings.HasPrefix(normalized, rootCommandName+" resource "):
		return true
	case strings.HasPrefix(normalized, rootCommandName+" doc "):
		return true
	case strings.HasPrefix(normalized, rootCommandName+" list "):
		return true
	}

	return false
}

func EmitsExecutionStatusPath(path string) bool {
	switch strings.TrimSpace(path) {
	case rootCommandName + " doc set",
		rootCommandName + " doc edit",
		rootCommandName + " doc attach",
		rootCommandName + " doc save",
		rootCommandName + " doc delete",
		rootCommandName + " doc discard",
		rootCommandName + " list add",
		rootCommandName + " list update",
		rootCommandName + " list remove",
		rootCommandName + " list move",
		rootCommandName + " config use":
		return true
	default:
		return false
	}
}

func OutputPolicyForPath(path string) OutputPolicy {
	switch strings.TrimSpace(path) {
	case rootCommandName + " config show":
		return OutputPolicyYAMLDefaultTextOrYAML
	case rootCommandName + " doc edit",
		rootCommandName + " completion bash",
		rootCommandName + " completion zsh",
		rootCommandName + " completion fish",
		rootCommandName + " completion powershell":
		return OutputPolicyTextOnly
	default:
		return OutputPolicyStructured
	}
}
