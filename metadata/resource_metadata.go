package metadata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crmarques/contentdesk/completion"
	"github.com/crmarques/contentdesk/document"
)

// DefaultsDocument returns a private copy of the defaults template.
func (m ResourceMetadata) DefaultsDocument() document.Value {
	if m.Defaults == nil {
		return map[string]any{}
	}
	return document.Clone(m.Defaults)
}

func (m ResourceMetadata) FieldSpec() (completion.FieldSpec, error) {
	spec := completion.FieldSpec{
		Fields: make([]document.Path, 0, len(m.Completion.Fields)),
		Lists:  make([]completion.ListSpec, 0, len(m.Completion.Lists)),
	}

	for _, raw := range m.Completion.Fields {
		path, err := parseNonRootPath(raw)
		if err != nil {
			return completion.FieldSpec{}, err
		}
		spec.Fields = append(spec.Fields, path)
	}

	for _, list := range m.Completion.Lists {
		listPath, err := parseNonRootPath(list.Path)
		if err != nil {
			return completion.FieldSpec{}, err
		}
		listSpec := completion.ListSpec{Path: listPath, Required: make([]document.Path, 0, len(list.Required))}
		for _, raw := range list.Required {
			required, err := parseNonRootPath(raw)
			if err != nil {
				return completion.FieldSpec{}, err
			}
			listSpec.Required = append(listSpec.Required, required)
		}
		spec.Lists = append(spec.Lists, listSpec)
	}

	return spec, nil
}

// ListPolicyFor returns the policy configured for list. Unconfigured lists get
// the zero policy: unlimited, no ids, empty placeholder.
func (m ResourceMetadata) ListPolicyFor(list document.Path) (ListPolicy, bool) {
	policy, found := m.Lists[list.String()]
	return policy, found
}

// ListPaths returns the configured list paths in sorted order.
func (m ResourceMetadata) ListPaths() []string {
	paths := make([]string, 0, len(m.Lists))
	for path := range m.Lists {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// PlaceholderItem returns a fresh copy of the placeholder for list. Lists
// without a configured placeholder fall back to the shape of the first
// default item with every string blanked.
func (m ResourceMetadata) PlaceholderItem(list document.Path) map[string]any {
	if policy, found := m.ListPolicyFor(list); found && policy.Placeholder != nil {
		cloned, _ := document.Clone(policy.Placeholder).(map[string]any)
		return cloned
	}

	items, err := document.Items(m.Defaults, list)
	if err != nil || len(items) == 0 {
		return map[string]any{}
	}
	first, ok := items[0].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	blanked, _ := BlankStrings(first).(map[string]any)
	return blanked
}

// BlankStrings returns a copy of value with every string leaf set to "".
func BlankStrings(value document.Value) document.Value {
	switch typed := value.(type) {
	case map[string]any:
		blanked := make(map[string]any, len(typed))
		for key, item := range typed {
			blanked[key] = BlankStrings(item)
		}
		return blanked
	case []any:
		blanked := make([]any, len(typed))
		for idx, item := range typed {
			blanked[idx] = BlankStrings(item)
		}
		return blanked
	case string:
		return ""
	default:
		return typed
	}
}

// FormatStep renders a 1-based position with the renumber format.
func (r RenumberPolicy) FormatStep(position int) string {
	format := strings.TrimSpace(r.Format)
	if format == "" {
		format = "%d"
	}
	return fmt.Sprintf(format, position)
}

func parseNonRootPath(raw string) (document.Path, error) {
	path, err := document.ParsePath(raw)
	if err != nil {
		return nil, err
	}
	if path.IsRoot() {
		return nil, validationError("metadata path must not be empty", nil)
	}
	return path, nil
}
