package document

import (
	"reflect"
	"testing"
)

func samplePage() map[string]any {
	return map[string]any{
		"badge": map[string]any{"text": "Vivência de Campo"},
		"theme": map[string]any{
			"accentColor": "#ff6600",
			"dark":        false,
		},
		"features": []any{
			map[string]any{"id": "f1", "icon": "mdi:star", "label": "A"},
			map[string]any{"id": "f2", "icon": "mdi:leaf", "label": "B"},
		},
	}
}

func TestParsePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		want      Path
		wantError bool
	}{
		{name: "root", input: "", want: Path{}},
		{name: "nested", input: "theme.accentColor", want: Path{"theme", "accentColor"}},
		{name: "index", input: "features.2.label", want: Path{"features", "2", "label"}},
		{name: "trims_segments", input: " theme . dark ", want: Path{"theme", "dark"}},
		{name: "rejects_empty_segment", input: "theme..dark", wantError: true},
		{name: "rejects_trailing_dot", input: "theme.", wantError: true},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePath(test.input)
			if test.wantError {
				assertValidationError(t, err)
				return
			}
			if err != nil {
				t.Fatalf("ParsePath returned error: %v", err)
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Fatalf("expected %#v, got %#v", test.want, got)
			}
			if got.String() != Path(test.want).String() {
				t.Fatalf("expected string %q, got %q", Path(test.want).String(), got.String())
			}
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	doc := samplePage()
	tests := []struct {
		name      string
		path      string
		want      Value
		wantFound bool
	}{
		{name: "nested_string", path: "theme.accentColor", want: "#ff6600", wantFound: true},
		{name: "false_is_found", path: "theme.dark", want: false, wantFound: true},
		{name: "array_index", path: "features.1.label", want: "B", wantFound: true},
		{name: "missing_key", path: "theme.font", wantFound: false},
		{name: "index_out_of_range", path: "features.5.label", wantFound: false},
		{name: "non_numeric_index", path: "features.first", wantFound: false},
		{name: "scalar_in_the_way", path: "badge.text.size", wantFound: false},
		{name: "invalid_path", path: "a..b", wantFound: false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, found := Get(doc, test.path)
			if found != test.wantFound {
				t.Fatalf("expected found=%t, got %t (%#v)", test.wantFound, found, got)
			}
			if found && got != test.want {
				t.Fatalf("expected %#v, got %#v", test.want, got)
			}
		})
	}

	root, found := Get(doc, "")
	if !found || !Equal(root, doc) {
		t.Fatalf("expected root path to return the document")
	}
}

func TestSetRoundTrip(t *testing.T) {
	t.Parallel()

	paths := []string{
		"theme.accentColor",
		"theme.dark",
		"badge.text",
		"features.0.label",
		"features.1.icon",
		"title.part1",
		"seo.meta.description",
	}
	for _, path := range paths {
		path := path
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			doc := samplePage()
			updated, err := Set(doc, path, "value for "+path)
			if err != nil {
				t.Fatalf("Set returned error: %v", err)
			}
			got, found := Get(updated, path)
			if !found || got != "value for "+path {
				t.Fatalf("expected round trip value, got %#v (found=%t)", got, found)
			}
		})
	}
}

func TestSetDoesNotMutateAndSharesSubtrees(t *testing.T) {
	t.Parallel()

	doc := samplePage()
	before := Clone(doc)

	updated, err := Set(doc, "theme.accentColor", "#000000")
	if err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	if !Equal(doc, before) {
		t.Fatalf("input document was mutated: %#v", doc)
	}

	updatedFields := updated.(map[string]any)
	if sameMap(updatedFields, doc) {
		t.Fatal("expected a new root map")
	}
	if sameMap(updatedFields["theme"].(map[string]any), doc["theme"].(map[string]any)) {
		t.Fatal("expected the written branch to be copied")
	}
	if !sameMap(updatedFields["badge"].(map[string]any), doc["badge"].(map[string]any)) {
		t.Fatal("expected unrelated object subtree to be shared")
	}
	if !sameSlice(updatedFields["features"].([]any), doc["features"].([]any)) {
		t.Fatal("expected unrelated array subtree to be shared")
	}
}

func TestSetThroughArrayCopiesOnlyTouchedItem(t *testing.T) {
	t.Parallel()

	doc := samplePage()
	updated, err := Set(doc, "features.1.label", "Renamed")
	if err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	original := doc["features"].([]any)
	changed := updated.(map[string]any)["features"].([]any)
	if sameSlice(original, changed) {
		t.Fatal("expected array along the path to be copied")
	}
	if !sameMap(original[0].(map[string]any), changed[0].(map[string]any)) {
		t.Fatal("expected untouched item to be shared")
	}
	if original[1].(map[string]any)["label"] != "B" {
		t.Fatal("original item was mutated")
	}
}

func TestSetCreatesObjectsButNotArrays(t *testing.T) {
	t.Parallel()

	t.Run("creates_missing_objects", func(t *testing.T) {
		t.Parallel()

		updated, err := Set(nil, "seo.meta.title", "Home")
		if err != nil {
			t.Fatalf("Set returned error: %v", err)
		}
		expected := map[string]any{"seo": map[string]any{"meta": map[string]any{"title": "Home"}}}
		if !Equal(updated, expected) {
			t.Fatalf("expected %#v, got %#v", expected, updated)
		}
	})

	t.Run("rejects_index_beyond_array", func(t *testing.T) {
		t.Parallel()

		_, err := Set(samplePage(), "features.2.label", "C")
		assertValidationError(t, err)
	})

	t.Run("rejects_named_segment_on_array", func(t *testing.T) {
		t.Parallel()

		_, err := Set(samplePage(), "features.first", "C")
		assertValidationError(t, err)
	})

	t.Run("rejects_scalar_in_the_way", func(t *testing.T) {
		t.Parallel()

		_, err := Set(samplePage(), "badge.text.size", 12)
		assertValidationError(t, err)
	})

	t.Run("replaces_null_with_object", func(t *testing.T) {
		t.Parallel()

		updated, err := Set(map[string]any{"cta": nil}, "cta.label", "Go")
		if err != nil {
			t.Fatalf("Set returned error: %v", err)
		}
		if got, _ := Get(updated, "cta.label"); got != "Go" {
			t.Fatalf("expected cta.label to be set, got %#v", got)
		}
	})
}

func TestPathUpdate(t *testing.T) {
	t.Parallel()

	counter := MustPath("stats.visits")
	doc := map[string]any{"stats": map[string]any{"visits": int64(2)}}

	updated, err := counter.Update(doc, func(current Value, exists bool) (Value, error) {
		if !exists {
			return int64(1), nil
		}
		return current.(int64) + 1, nil
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got, _ := counter.Get(updated); got != int64(3) {
		t.Fatalf("expected 3, got %#v", got)
	}

	var sawExists bool
	_, err = MustPath("stats.clicks").Update(doc, func(_ Value, exists bool) (Value, error) {
		sawExists = exists
		return int64(0), nil
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if sawExists {
		t.Fatal("expected missing field to report exists=false")
	}
}

func TestPathHelpers(t *testing.T) {
	t.Parallel()

	list := MustPath("gallery.images")
	if got := list.Index(3).Child("src").String(); got != "gallery.images.3.src" {
		t.Fatalf("unexpected path %q", got)
	}
	if got := list.Join(MustPath("0.alt")).String(); got != "gallery.images.0.alt" {
		t.Fatalf("unexpected joined path %q", got)
	}
	if list.String() != "gallery.images" {
		t.Fatalf("Child must not alias the receiver, got %q", list.String())
	}
	if !MustPath("").IsRoot() {
		t.Fatal("expected empty path to be root")
	}
}

func sameMap(a map[string]any, b map[string]any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func sameSlice(a []any, b []any) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	return &a[0] == &b[0]
}
