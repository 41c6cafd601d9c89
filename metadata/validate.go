package metadata

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/crmarques/contentdesk/document"
)

var resourceNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Validate checks the metadata is usable by an editor session.
func (m ResourceMetadata) Validate() error {
	if !resourceNamePattern.MatchString(m.Name) {
		return validationError(fmt.Sprintf("resource name %q must be lowercase letters, digits and dashes", m.Name), nil)
	}
	if !strings.HasPrefix(strings.TrimSpace(m.APIPath), "/") {
		return validationError(fmt.Sprintf("resource %q apiPath must start with /", m.Name), nil)
	}
	if m.Defaults == nil {
		return validationError(fmt.Sprintf("resource %q defaults must be an object", m.Name), nil)
	}

	if _, err := m.FieldSpec(); err != nil {
		return validationError(fmt.Sprintf("resource %q has an invalid completion path", m.Name), err)
	}

	for _, rawPath := range m.ListPaths() {
		if err := m.validateList(rawPath, m.Lists[rawPath]); err != nil {
			return err
		}
	}

	for idx, rule := range m.SaveRules {
		expression := strings.TrimSpace(rule.JQ)
		if expression == "" {
			return validationError(fmt.Sprintf("resource %q save rule %s jq expression is empty", m.Name, ruleLabel(rule, idx)), nil)
		}
		if _, err := cachedSaveRuleCode(expression); err != nil {
			return validationError(fmt.Sprintf("resource %q save rule %s jq expression is invalid", m.Name, ruleLabel(rule, idx)), err)
		}
	}

	return nil
}

func (m ResourceMetadata) validateList(rawPath string, policy ListPolicy) error {
	listPath, err := parseNonRootPath(rawPath)
	if err != nil {
		return validationError(fmt.Sprintf("resource %q list path %q is invalid", m.Name, rawPath), err)
	}

	value, found := listPath.Get(m.Defaults)
	if !found {
		return validationError(fmt.Sprintf("resource %q list %q is missing from defaults", m.Name, rawPath), nil)
	}
	if _, ok := value.([]any); !ok {
		return validationError(fmt.Sprintf("resource %q list %q is not an array in defaults", m.Name, rawPath), nil)
	}

	for plan, limit := range policy.Limits {
		if limit < 0 {
			return validationError(fmt.Sprintf("resource %q list %q limit for plan %q must not be negative", m.Name, rawPath, plan), nil)
		}
	}

	if policy.Renumber != nil {
		if strings.TrimSpace(policy.Renumber.Field) == "" {
			return validationError(fmt.Sprintf("resource %q list %q renumber field is required", m.Name, rawPath), nil)
		}
		if strings.Contains(policy.Renumber.FormatStep(1), "%!") {
			return validationError(fmt.Sprintf("resource %q list %q renumber format %q is invalid", m.Name, rawPath, policy.Renumber.Format), nil)
		}
	}

	if policy.Placeholder != nil {
		if _, err := document.Normalize(policy.Placeholder); err != nil {
			return validationError(fmt.Sprintf("resource %q list %q placeholder is invalid", m.Name, rawPath), err)
		}
	}
	return nil
}
