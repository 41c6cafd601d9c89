package server

import (
	"fmt"
	"testing"

	"github.com/crmarques/contentdesk/faults"
)

func TestEnvelopeShapeError(t *testing.T) {
	t.Parallel()

	err := NewEnvelopeShapeError(`response "values" must be an array`, nil)
	if !IsEnvelopeShapeError(err) {
		t.Fatalf("expected envelope shape error predicate to match")
	}
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected envelope shape error to preserve validation category")
	}

	wrapped := fmt.Errorf("load headline: %w", err)
	if !IsEnvelopeShapeError(wrapped) {
		t.Fatalf("expected predicate to match through wrapping")
	}
}

func TestRecordDocument(t *testing.T) {
	t.Parallel()

	if _, found := (Record{}).Document(); found {
		t.Fatal("expected empty record to have no document")
	}

	record := Record{ID: "7", Values: []any{map[string]any{"badge": "A"}, "ignored"}}
	doc, found := record.Document()
	if !found {
		t.Fatal("expected document")
	}
	if doc.(map[string]any)["badge"] != "A" {
		t.Fatalf("unexpected document %#v", doc)
	}
}
