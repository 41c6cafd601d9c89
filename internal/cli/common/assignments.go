package common

import (
	"strings"

	"github.com/crmarques/contentdesk/document"
)

// ParseAssignments turns repeated key=value flags into an object. A flag may
// carry several comma-separated pairs and keys may be dotted paths. Values
// stay strings.
func ParseAssignments(raw []string) (map[string]any, error) {
	var output document.Value = map[string]any{}
	for _, entry := range raw {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			return nil, ValidationError("invalid assignment list: expected key=value", nil)
		}

		for _, item := range strings.Split(trimmed, ",") {
			part := strings.TrimSpace(item)
			if part == "" {
				return nil, ValidationError("invalid assignment list: empty item", nil)
			}
			key, value, found := strings.Cut(part, "=")
			if !found {
				return nil, ValidationError("invalid assignment list: expected key=value", nil)
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return nil, ValidationError("invalid assignment list: key must not be empty", nil)
			}

			path, err := document.ParsePath(key)
			if err != nil {
				return nil, ValidationError("invalid assignment key "+key, err)
			}
			output, err = path.Set(output, strings.TrimSpace(value))
			if err != nil {
				return nil, ValidationError("invalid assignment list: key path conflicts with scalar value", err)
			}
		}
	}

	fields, _ := output.(map[string]any)
	return fields, nil
}
