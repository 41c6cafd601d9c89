// Package completion scores how much of a content document has been filled in.
package completion

import (
	"strings"

	"github.com/crmarques/contentdesk/document"
)

// ListSpec counts Required sub-fields of every item in the list at Path.
type ListSpec struct {
	Path     document.Path
	Required []document.Path
}

type FieldSpec struct {
	Fields []document.Path
	Lists  []ListSpec
}

type Score struct {
	Completed int      `json:"completed" yaml:"completed"`
	Total     int      `json:"total" yaml:"total"`
	Missing   []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Percent rounds down to a whole percentage. An empty spec scores 0.
func (s Score) Percent() int {
	if s.Total <= 0 {
		return 0
	}
	return s.Completed * 100 / s.Total
}

// Calculate counts filled fields in doc. List denominators follow the current
// list length, so adding or removing items moves the total.
func Calculate(doc document.Value, spec FieldSpec) Score {
	score := Score{}

	for _, field := range spec.Fields {
		score.Total++
		value, found := field.Get(doc)
		if found && Filled(value) {
			score.Completed++
			continue
		}
		score.Missing = append(score.Missing, field.String())
	}

	for _, list := range spec.Lists {
		items, err := document.Items(doc, list.Path)
		if err != nil {
			continue
		}
		for idx, item := range items {
			for _, required := range list.Required {
				score.Total++
				value, found := required.Get(item)
				if found && Filled(value) {
					score.Completed++
					continue
				}
				score.Missing = append(score.Missing, list.Path.Index(idx).Join(required).String())
			}
		}
	}

	return score
}

// Filled reports whether a single value counts as completed: non-blank
// strings, any number or boolean, and non-empty arrays and objects.
func Filled(value document.Value) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(typed) != ""
	case []any:
		return len(typed) > 0
	case map[string]any:
		return len(typed) > 0
	default:
		return true
	}
}
