package document

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/crmarques/contentdesk/faults"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("normalizes_nested_document", func(t *testing.T) {
		t.Parallel()

		input := map[string]any{
			"order":   json.Number("42"),
			"visible": true,
			"sizes": []any{
				uint16(3),
				json.Number("1.5"),
			},
			"theme": map[string]string{
				"accentColor": "#ff6600",
			},
		}

		got, err := Normalize(input)
		if err != nil {
			t.Fatalf("Normalize returned error: %v", err)
		}

		expected := map[string]any{
			"order":   int64(42),
			"visible": true,
			"sizes": []any{
				int64(3),
				float64(1.5),
			},
			"theme": map[string]any{
				"accentColor": "#ff6600",
			},
		}

		if !Equal(got, expected) {
			t.Fatalf("expected %#v, got %#v", expected, got)
		}
		if _, ok := got.(map[string]any)["theme"].(map[string]any); !ok {
			t.Fatalf("expected typed map to become map[string]any, got %T", got.(map[string]any)["theme"])
		}
	})

	t.Run("rejects_non_string_map_keys", func(t *testing.T) {
		t.Parallel()

		_, err := Normalize(map[int]string{1: "x"})
		assertValidationError(t, err)
	})

	t.Run("rejects_non_finite_float", func(t *testing.T) {
		t.Parallel()

		_, err := Normalize(math.Inf(1))
		assertValidationError(t, err)
	})

	t.Run("rejects_out_of_range_integer", func(t *testing.T) {
		t.Parallel()

		_, err := Normalize(uint64(math.MaxInt64) + 1)
		assertValidationError(t, err)
	})

	t.Run("rejects_unsupported_type", func(t *testing.T) {
		t.Parallel()

		type card struct {
			Label string
		}
		_, err := Normalize(card{Label: "x"})
		assertValidationError(t, err)
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	got, err := DecodeJSON([]byte(`{"count": 9007199254740993, "ratio": 0.5}`))
	if err != nil {
		t.Fatalf("DecodeJSON returned error: %v", err)
	}
	fields := got.(map[string]any)
	if fields["count"] != int64(9007199254740993) {
		t.Fatalf("expected exact integer, got %#v", fields["count"])
	}
	if fields["ratio"] != 0.5 {
		t.Fatalf("expected float ratio, got %#v", fields["ratio"])
	}

	empty, err := DecodeJSON([]byte("  \n"))
	if err != nil || empty != nil {
		t.Fatalf("expected nil for empty input, got %#v, %v", empty, err)
	}

	_, err = DecodeJSON([]byte("{"))
	assertValidationError(t, err)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var typed *faults.TypedError
	if !errors.As(err, &typed) {
		t.Fatalf("expected typed error, got %T", err)
	}
	if typed.Category != faults.ValidationError {
		t.Fatalf("expected %q category, got %q", faults.ValidationError, typed.Category)
	}
}
