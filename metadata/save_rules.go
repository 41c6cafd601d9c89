package metadata

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/crmarques/contentdesk/document"
	"github.com/itchyny/gojq"
)

var saveRuleCodeCache sync.Map

// RuleResult is the outcome of one save rule.
type RuleResult struct {
	Name    string `json:"name" yaml:"name"`
	Message string `json:"message" yaml:"message"`
	Passed  bool   `json:"passed" yaml:"passed"`
}

// EvaluateSaveRules runs every save rule against doc. A rule passes when any
// of its results is truthy.
func (m ResourceMetadata) EvaluateSaveRules(ctx context.Context, doc document.Value) ([]RuleResult, error) {
	if len(m.SaveRules) == 0 {
		return nil, nil
	}

	runCtx := ctx
	if runCtx == nil {
		runCtx = context.Background()
	}
	input := jqInput(doc)

	results := make([]RuleResult, 0, len(m.SaveRules))
	for idx, rule := range m.SaveRules {
		expression := strings.TrimSpace(rule.JQ)
		if expression == "" {
			continue
		}

		code, err := cachedSaveRuleCode(expression)
		if err != nil {
			return nil, validationError(fmt.Sprintf("invalid save rule %s jq expression", ruleLabel(rule, idx)), err)
		}

		satisfied, err := evaluateRuleResults(code.RunWithContext(runCtx, input))
		if err != nil {
			return nil, validationError(fmt.Sprintf("failed to evaluate save rule %s", ruleLabel(rule, idx)), err)
		}

		message := strings.TrimSpace(rule.Message)
		if message == "" {
			message = fmt.Sprintf("save rule %s failed", ruleLabel(rule, idx))
		}
		results = append(results, RuleResult{Name: rule.Name, Message: message, Passed: satisfied})
	}
	return results, nil
}

// CheckSaveRules returns a validation fault naming every failed rule.
func (m ResourceMetadata) CheckSaveRules(ctx context.Context, doc document.Value) error {
	results, err := m.EvaluateSaveRules(ctx, doc)
	if err != nil {
		return err
	}

	failed := make([]string, 0)
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result.Message)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return validationError(strings.Join(failed, "; "), nil)
}

func ruleLabel(rule ValidationAssertion, idx int) string {
	if name := strings.TrimSpace(rule.Name); name != "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("[%d]", idx)
}

func cachedSaveRuleCode(expression string) (*gojq.Code, error) {
	if cached, ok := saveRuleCodeCache.Load(expression); ok {
		if typed, ok := cached.(*gojq.Code); ok && typed != nil {
			return typed, nil
		}
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, err
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, err
	}

	actual, _ := saveRuleCodeCache.LoadOrStore(expression, code)
	if typed, ok := actual.(*gojq.Code); ok && typed != nil {
		return typed, nil
	}
	return code, nil
}

type anyIterator interface {
	Next() (any, bool)
}

func evaluateRuleResults(iterator anyIterator) (bool, error) {
	satisfied := false
	for {
		value, ok := iterator.Next()
		if !ok {
			break
		}
		if valueErr, isErr := value.(error); isErr {
			return false, valueErr
		}
		if jqValueTruthy(value) {
			satisfied = true
		}
	}
	return satisfied, nil
}

func jqValueTruthy(value any) bool {
	if value == nil {
		return false
	}
	if typed, ok := value.(bool); ok {
		return typed
	}
	return true
}

// jqInput converts int64 leaves to int, the integer type gojq operates on.
func jqInput(value document.Value) any {
	switch typed := value.(type) {
	case map[string]any:
		converted := make(map[string]any, len(typed))
		for key, item := range typed {
			converted[key] = jqInput(item)
		}
		return converted
	case []any:
		converted := make([]any, len(typed))
		for idx, item := range typed {
			converted[idx] = jqInput(item)
		}
		return converted
	case int64:
		return int(typed)
	default:
		return typed
	}
}
