package drafts

import (
	"fmt"
	"strings"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const (
	draftFileJSON = "draft.json"
	draftFileYAML = "draft.yaml"
)

func ParseFormat(raw string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch normalized {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported draft format %q (expected json or yaml)", raw)
	}
}

// FileName returns the draft file name stored inside a resource directory.
func (f Format) FileName() string {
	if f == FormatYAML {
		return draftFileYAML
	}
	return draftFileJSON
}
