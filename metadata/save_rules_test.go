package metadata

import (
	"context"
	"strings"
	"testing"

	"github.com/crmarques/contentdesk/faults"
)

func TestCheckSaveRulesFeatures(t *testing.T) {
	t.Parallel()

	catalog, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin returned error: %v", err)
	}
	features, err := catalog.Get("features")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	testCases := []struct {
		name    string
		doc     map[string]any
		wantErr bool
	}{
		{
			name: "one_complete_feature",
			doc: map[string]any{"features": []any{
				map[string]any{"icon": "", "label": "A"},
				map[string]any{"icon": "mdi:leaf", "label": "B"},
			}},
		},
		{
			name: "icon_without_label",
			doc: map[string]any{"features": []any{
				map[string]any{"icon": "mdi:leaf", "label": "  "},
			}},
			wantErr: true,
		},
		{
			name:    "empty_list",
			doc:     map[string]any{"features": []any{}},
			wantErr: true,
		},
		{
			name:    "missing_list",
			doc:     map[string]any{},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := features.CheckSaveRules(context.Background(), tc.doc)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("expected rules to pass, got %v", err)
				}
				return
			}
			if !faults.IsCategory(err, faults.ValidationError) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), "at least one feature must have both icon and label") {
				t.Fatalf("expected rule message in error, got %q", err.Error())
			}
		})
	}
}

func TestEvaluateSaveRulesWithIntegerValues(t *testing.T) {
	t.Parallel()

	meta := ResourceMetadata{
		SaveRules: []ValidationAssertion{
			{Name: "non-negative", JQ: "[.metrics[].value | . >= 0] | all", Message: "values must not be negative"},
			{JQ: ".title == \"x\""},
		},
	}

	results, err := meta.EvaluateSaveRules(context.Background(), map[string]any{
		"title": "y",
		"metrics": []any{
			map[string]any{"value": int64(10)},
			map[string]any{"value": int64(-1)},
		},
	})
	if err != nil {
		t.Fatalf("EvaluateSaveRules returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Passed || results[0].Message != "values must not be negative" {
		t.Fatalf("unexpected first result %#v", results[0])
	}
	if results[1].Passed || results[1].Message != "save rule [1] failed" {
		t.Fatalf("unexpected second result %#v", results[1])
	}

	err = meta.CheckSaveRules(context.Background(), map[string]any{"title": "y", "metrics": []any{}})
	if err == nil || err.Error() != "save rule [1] failed" {
		t.Fatalf("expected only the unnamed rule to fail, got %v", err)
	}
}

func TestEvaluateSaveRulesRuntimeError(t *testing.T) {
	t.Parallel()

	meta := ResourceMetadata{
		SaveRules: []ValidationAssertion{{Name: "broken", JQ: ".title | test(\"a\")"}},
	}

	_, err := meta.EvaluateSaveRules(context.Background(), map[string]any{"title": int64(1)})
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestJQValueTruthy(t *testing.T) {
	t.Parallel()

	if jqValueTruthy(nil) || jqValueTruthy(false) {
		t.Fatal("expected nil and false to be falsy")
	}
	if !jqValueTruthy(0) || !jqValueTruthy("") || !jqValueTruthy(true) {
		t.Fatal("expected non-null non-false values to be truthy")
	}
}
