package metadata

import (
	"strings"
)

const (
	PlanBasic   = "basic"
	PlanPremium = "premium"
)

// ResourceMetadata describes one editable resource: where it lives, what it
// looks like when empty and how its lists and completion are governed.
type ResourceMetadata struct {
	Name             string                `json:"name" yaml:"name"`
	Title            string                `json:"title,omitempty" yaml:"title,omitempty"`
	APIPath          string                `json:"apiPath" yaml:"apiPath"`
	DeleteWithIDBody bool                  `json:"deleteWithIdBody,omitempty" yaml:"deleteWithIdBody,omitempty"`
	Defaults         map[string]any        `json:"defaults" yaml:"defaults"`
	Completion       CompletionSpec        `json:"completion,omitempty" yaml:"completion,omitempty"`
	Lists            map[string]ListPolicy `json:"lists,omitempty" yaml:"lists,omitempty"`
	SaveRules        []ValidationAssertion `json:"saveRules,omitempty" yaml:"saveRules,omitempty"`
}

type CompletionSpec struct {
	Fields []string         `json:"fields,omitempty" yaml:"fields,omitempty"`
	Lists  []CompletionList `json:"lists,omitempty" yaml:"lists,omitempty"`
}

type CompletionList struct {
	Path     string   `json:"path" yaml:"path"`
	Required []string `json:"required" yaml:"required"`
}

type ListPolicy struct {
	// Limits caps the list length per site plan. Plans not listed are unlimited.
	Limits      map[string]int  `json:"limits,omitempty" yaml:"limits,omitempty"`
	IDField     string          `json:"idField,omitempty" yaml:"idField,omitempty"`
	Placeholder map[string]any  `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Renumber    *RenumberPolicy `json:"renumber,omitempty" yaml:"renumber,omitempty"`
}

// RenumberPolicy rewrites Field on every item with its 1-based position
// formatted by Format (a fmt verb such as "%02d") after each list change.
type RenumberPolicy struct {
	Field  string `json:"field" yaml:"field"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

type ValidationAssertion struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	JQ      string `json:"jq" yaml:"jq"`
}

func (p ListPolicy) LimitFor(plan string) int {
	if len(p.Limits) == 0 {
		return 0
	}
	limit, found := p.Limits[strings.ToLower(strings.TrimSpace(plan))]
	if !found || limit < 0 {
		return 0
	}
	return limit
}

func (m ResourceMetadata) DisplayTitle() string {
	if strings.TrimSpace(m.Title) != "" {
		return m.Title
	}
	return m.Name
}
