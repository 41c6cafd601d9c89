package editor

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/crmarques/contentdesk/document"
	"github.com/crmarques/contentdesk/metadata"
	"github.com/crmarques/contentdesk/server"
)

type fakeStore struct {
	mu sync.Mutex

	fetchRecord server.Record
	fetchFound  bool
	fetchErr    error
	saveRecord  server.Record
	saveErr     error
	deleteErr   error

	// block, when set, holds Create/Replace/Delete until it is closed.
	block   chan struct{}
	entered chan struct{}

	calls   []string
	saves   []server.SaveRequest
	deletes []server.DeleteRequest
}

func (f *fakeStore) Fetch(_ context.Context, apiPath string) (server.Record, bool, error) {
	f.record("GET " + apiPath)
	return f.fetchRecord, f.fetchFound, f.fetchErr
}

func (f *fakeStore) Create(_ context.Context, apiPath string, request server.SaveRequest) (server.Record, error) {
	f.record("POST " + apiPath)
	f.wait()
	f.mu.Lock()
	f.saves = append(f.saves, request)
	f.mu.Unlock()
	return f.saveRecord, f.saveErr
}

func (f *fakeStore) Replace(_ context.Context, apiPath string, request server.SaveRequest) (server.Record, error) {
	f.record("PUT " + apiPath)
	f.wait()
	f.mu.Lock()
	f.saves = append(f.saves, request)
	f.mu.Unlock()
	return f.saveRecord, f.saveErr
}

func (f *fakeStore) Delete(_ context.Context, apiPath string, request server.DeleteRequest) error {
	f.record("DELETE " + apiPath)
	f.wait()
	f.mu.Lock()
	f.deletes = append(f.deletes, request)
	f.mu.Unlock()
	return f.deleteErr
}

func (f *fakeStore) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeStore) wait() {
	if f.block == nil {
		return
	}
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	<-f.block
}

func featuresMetadata() metadata.ResourceMetadata {
	return metadata.ResourceMetadata{
		Name:    "features",
		APIPath: "/api/site/json/features",
		Defaults: map[string]any{
			"badge": "Vivência de Campo",
			"title": "",
			"features": []any{
				map[string]any{"id": "feature-1", "icon": "mdi:star", "label": "A"},
			},
		},
		Completion: metadata.CompletionSpec{
			Fields: []string{"badge", "title"},
			Lists:  []metadata.CompletionList{{Path: "features", Required: []string{"icon", "label"}}},
		},
		Lists: map[string]metadata.ListPolicy{
			"features": {
				Limits:      map[string]int{metadata.PlanBasic: 2, metadata.PlanPremium: 3},
				IDField:     "id",
				Placeholder: map[string]any{"icon": "", "label": ""},
			},
		},
		SaveRules: []metadata.ValidationAssertion{
			{
				Name:    "feature-with-icon-and-label",
				JQ:      `[.features[]? | select((.icon // "" | test("\\S")) and (.label // "" | test("\\S")))] | length > 0`,
				Message: "at least one feature must have both icon and label",
			},
		},
	}
}

func stepsMetadata() metadata.ResourceMetadata {
	return metadata.ResourceMetadata{
		Name:    "steps",
		APIPath: "/api/site/json/steps",
		Defaults: map[string]any{
			"steps": []any{
				map[string]any{"id": "s1", "step": "01", "title": "A"},
				map[string]any{"id": "s2", "step": "02", "title": "B"},
				map[string]any{"id": "s3", "step": "03", "title": "C"},
			},
		},
		Lists: map[string]metadata.ListPolicy{
			"steps": {
				IDField:  "id",
				Renumber: &metadata.RenumberPolicy{Field: "step", Format: "%02d"},
			},
		},
	}
}

func sequentialIDs(prefix string) func() string {
	next := 0
	return func() string {
		next++
		return prefix + strconv.Itoa(next)
	}
}

func mustNew(t *testing.T, meta metadata.ResourceMetadata, store server.ContentStore, opts ...Option) *Session {
	t.Helper()
	session, err := New(meta, store, opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return session
}

func listOf(t *testing.T, session *Session, list string) []any {
	t.Helper()
	items, err := session.Items(document.MustPath(list))
	if err != nil {
		t.Fatalf("Items returned error: %v", err)
	}
	return items
}
