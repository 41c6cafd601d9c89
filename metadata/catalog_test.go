package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/crmarques/contentdesk/completion"
	"github.com/crmarques/contentdesk/faults"
)

func TestLoadBuiltinCatalog(t *testing.T) {
	t.Parallel()

	catalog, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin returned error: %v", err)
	}

	want := []string{
		"cursos-page", "faq", "features", "footer", "gallery", "headline",
		"metrics", "steps", "testimonials", "theme", "video-hero",
	}
	items := catalog.List()
	if len(items) != len(want) {
		t.Fatalf("expected %d resources, got %d", len(want), len(items))
	}
	for idx, name := range want {
		if items[idx].Name != name {
			t.Fatalf("expected resource %d to be %q, got %q", idx, name, items[idx].Name)
		}
		if err := items[idx].Validate(); err != nil {
			t.Fatalf("built-in resource %q failed validation: %v", name, err)
		}
	}

	features, err := catalog.Get("features")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if features.APIPath != "/api/site/json/features" {
		t.Fatalf("unexpected apiPath %q", features.APIPath)
	}
	if _, ok := features.Defaults["features"].([]any); !ok {
		t.Fatalf("expected features defaults to hold a list, got %T", features.Defaults["features"])
	}
}

func TestBuiltinDefaultsAreNormalized(t *testing.T) {
	t.Parallel()

	catalog, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin returned error: %v", err)
	}
	theme, err := catalog.Get("theme")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if _, ok := theme.Defaults["radius"].(int64); !ok {
		t.Fatalf("expected radius to normalize to int64, got %T", theme.Defaults["radius"])
	}
	colors, ok := theme.Defaults["colors"].(map[string]any)
	if !ok {
		t.Fatalf("expected colors to be map[string]any, got %T", theme.Defaults["colors"])
	}
	if colors["primary"] != "#1F6F43" {
		t.Fatalf("unexpected primary color %#v", colors["primary"])
	}
}

func TestCatalogGetUnknownResource(t *testing.T) {
	t.Parallel()

	catalog, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin returned error: %v", err)
	}

	_, err = catalog.Get("pricing")
	if !faults.IsCategory(err, faults.NotFoundError) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestLoadCatalogOverlay(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "headline.yaml"), `
name: headline
title: Custom headline
apiPath: /api/custom/json/headline
defaults:
  text: Olá
completion:
  fields: [text]
`)
	writeFile(t, filepath.Join(dir, "pricing.yml"), `
name: pricing
apiPath: /api/site/json/pricing
defaults:
  plans: []
lists:
  plans:
    limits: {basic: 3}
    idField: id
`)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	catalog, err := LoadCatalog(dir)
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}

	headline, err := catalog.Get("headline")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if headline.APIPath != "/api/custom/json/headline" || headline.DisplayTitle() != "Custom headline" {
		t.Fatalf("expected overlay to replace built-in headline, got %#v", headline)
	}

	pricing, err := catalog.Get("pricing")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if pricing.DisplayTitle() != "pricing" {
		t.Fatalf("expected title to fall back to name, got %q", pricing.DisplayTitle())
	}
	if len(catalog.List()) != 12 {
		t.Fatalf("expected 12 resources, got %d", len(catalog.List()))
	}
}

func TestLoadCatalogMissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing"))
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeResourceRejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown_field",
			yaml: "name: x\napiPath: /api/x\ndefaults: {}\nmethod: PUT\n",
		},
		{
			name: "missing_name",
			yaml: "apiPath: /api/x\ndefaults: {}\n",
		},
		{
			name: "relative_api_path",
			yaml: "name: x\napiPath: api/x\ndefaults: {}\n",
		},
		{
			name: "missing_defaults",
			yaml: "name: x\napiPath: /api/x\n",
		},
		{
			name: "empty_completion_segment",
			yaml: "name: x\napiPath: /api/x\ndefaults: {a: 1}\ncompletion:\n  fields: [a..b]\n",
		},
		{
			name: "list_not_in_defaults",
			yaml: "name: x\napiPath: /api/x\ndefaults: {a: 1}\nlists:\n  items: {idField: id}\n",
		},
		{
			name: "list_not_array",
			yaml: "name: x\napiPath: /api/x\ndefaults: {items: 1}\nlists:\n  items: {idField: id}\n",
		},
		{
			name: "negative_limit",
			yaml: "name: x\napiPath: /api/x\ndefaults: {items: []}\nlists:\n  items:\n    limits: {basic: -1}\n",
		},
		{
			name: "renumber_without_field",
			yaml: "name: x\napiPath: /api/x\ndefaults: {items: []}\nlists:\n  items:\n    renumber: {format: \"%02d\"}\n",
		},
		{
			name: "invalid_save_rule",
			yaml: "name: x\napiPath: /api/x\ndefaults: {}\nsaveRules:\n  - jq: '.items[ | length'\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeResource([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var typedErr *faults.TypedError
			if !errors.As(err, &typedErr) || typedErr.Category != faults.ValidationError {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestEncodeResourceRoundTrip(t *testing.T) {
	t.Parallel()

	catalog, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin returned error: %v", err)
	}
	steps, err := catalog.Get("steps")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	data, err := EncodeResource(steps)
	if err != nil {
		t.Fatalf("EncodeResource returned error: %v", err)
	}
	decoded, err := DecodeResource(data)
	if err != nil {
		t.Fatalf("DecodeResource returned error: %v", err)
	}
	if decoded.Lists["steps"].Renumber == nil || decoded.Lists["steps"].Renumber.Format != "%02d" {
		t.Fatalf("expected renumber policy to survive encoding, got %#v", decoded.Lists["steps"])
	}
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestBuiltinBlankDocumentsScoreZero(t *testing.T) {
	t.Parallel()

	catalog, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin returned error: %v", err)
	}

	for _, meta := range catalog.List() {
		t.Run(meta.Name, func(t *testing.T) {
			t.Parallel()

			spec, err := meta.FieldSpec()
			if err != nil {
				t.Fatalf("FieldSpec returned error: %v", err)
			}

			blanked := BlankStrings(meta.DefaultsDocument())
			score := completion.Calculate(blanked, spec)
			if score.Completed != 0 || score.Total == 0 {
				t.Fatalf("expected blanked defaults to score 0 of a non-empty total, got %d/%d (missing %v)", score.Completed, score.Total, score.Missing)
			}

			for _, list := range spec.Lists {
				placeholderOnly, err := list.Path.Set(blanked, []any{meta.PlaceholderItem(list.Path)})
				if err != nil {
					t.Fatalf("setting placeholder list %s: %v", list.Path, err)
				}
				if score := completion.Calculate(placeholderOnly, spec); score.Completed != 0 {
					t.Fatalf("expected placeholder %s to score 0, got %d/%d", list.Path, score.Completed, score.Total)
				}
			}
		})
	}
}
