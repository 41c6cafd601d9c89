package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/drafts"
	clitestkit "github.com/crmarques/contentdesk/internal/cli/testkit"
	configfile "github.com/crmarques/contentdesk/internal/providers/config/file"
	"github.com/crmarques/contentdesk/internal/providers/drafts/fsstore"
	httpgateway "github.com/crmarques/contentdesk/internal/providers/server/http"
	"github.com/crmarques/contentdesk/metadata"
	"github.com/crmarques/contentdesk/orchestrator"
	"github.com/spf13/cobra"
)

// contentAPI is an in-memory stand-in for the site content API. Records are
// keyed by request path.
type contentAPI struct {
	mu       sync.Mutex
	records  map[string]apiRecord
	requests []apiRequest
	failures map[string]apiFailure
	nextID   int
}

type apiRecord struct {
	ID     string
	Values []any
}

type apiRequest struct {
	Method string
	Path   string
	ID     string
	Values string
	Files  []string
	Body   string
}

type apiFailure struct {
	Status int
	Body   string
}

func newContentAPI(t *testing.T) (*contentAPI, *httptest.Server) {
	t.Helper()

	api := &contentAPI{
		records:  map[string]apiRecord{},
		failures: map[string]apiFailure{},
		nextID:   100,
	}
	server := httptest.NewServer(http.HandlerFunc(api.serveHTTP))
	t.Cleanup(server.Close)
	return api, server
}

func (a *contentAPI) seed(path string, id string, doc map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records[path] = apiRecord{ID: id, Values: []any{doc}}
}

func (a *contentAPI) fail(method string, path string, status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[method+" "+path] = apiFailure{Status: status, Body: body}
}

func (a *contentAPI) recorded() []apiRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]apiRequest(nil), a.requests...)
}

func (a *contentAPI) record(path string) (apiRecord, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	record, found := a.records[path]
	return record, found
}

func (a *contentAPI) serveHTTP(w http.ResponseWriter, r *http.Request) {
	request := apiRequest{Method: r.Method, Path: r.URL.Path}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		request.ID = r.FormValue("id")
		request.Values = r.FormValue("values")
		for field := range r.MultipartForm.File {
			request.Files = append(request.Files, field)
		}
		sort.Strings(request.Files)
	} else if r.Body != nil {
		body, _ := io.ReadAll(r.Body)
		request.Body = string(body)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, request)

	if failure, found := a.failures[r.Method+" "+r.URL.Path]; found {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(failure.Status)
		_, _ = io.WriteString(w, failure.Body)
		return
	}

	switch r.Method {
	case http.MethodGet:
		record, found := a.records[r.URL.Path]
		if !found {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeAPIRecord(w, record)
	case http.MethodPost, http.MethodPut:
		var values []any
		if err := json.Unmarshal([]byte(request.Values), &values); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"values must be a JSON array"}`)
			return
		}
		id := request.ID
		if id == "" {
			a.nextID++
			id = strconv.Itoa(a.nextID)
		}
		record := apiRecord{ID: id, Values: values}
		a.records[r.URL.Path] = record
		writeAPIRecord(w, record)
	case http.MethodDelete:
		delete(a.records, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeAPIRecord(w http.ResponseWriter, record apiRecord) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"id": record.ID, "values": record.Values})
}

type testEnv struct {
	api          *contentAPI
	server       *httptest.Server
	draftsDir    string
	contextsFile string
	orchestrator *orchestrator.DefaultOrchestrator
	contexts     config.ContextService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	api, server := newContentAPI(t)
	root := t.TempDir()
	draftsDir := filepath.Join(root, "drafts")

	contextsFile := filepath.Join(root, "contexts.yaml")
	catalogYAML := strings.Join([]string{
		"current-ctx: local",
		"contexts:",
		"  - name: local",
		"    api:",
		"      base-url: " + server.URL,
		"    drafts:",
		"      base-dir: " + draftsDir,
		"  - name: staging",
		"    api:",
		"      base-url: https://staging.example.com",
		"    site:",
		"      plan: premium",
		"    drafts:",
		"      base-dir: " + filepath.Join(root, "drafts-staging"),
		"      format: yaml",
		"",
	}, "\n")
	if err := os.WriteFile(contextsFile, []byte(catalogYAML), 0o600); err != nil {
		t.Fatalf("failed to write context catalog: %v", err)
	}

	catalog, err := metadata.LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin returned error: %v", err)
	}
	gateway, err := httpgateway.NewContentGateway(config.API{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewContentGateway returned error: %v", err)
	}

	defaultOrchestrator := &orchestrator.DefaultOrchestrator{
		Catalog:    catalog,
		Store:      gateway,
		DraftStore: fsstore.NewLocalDraftStore(draftsDir, drafts.FormatJSON),
	}
	defaultOrchestrator.SetPlan(metadata.PlanBasic)
	var idMu sync.Mutex
	nextItemID := 0
	defaultOrchestrator.SetIDGenerator(func() string {
		idMu.Lock()
		defer idMu.Unlock()
		nextItemID++
		return "item-" + strconv.Itoa(nextItemID)
	})

	return &testEnv{
		api:          api,
		server:       server,
		draftsDir:    draftsDir,
		contextsFile: contextsFile,
		orchestrator: defaultOrchestrator,
		contexts:     configfile.NewFileContextService(contextsFile),
	}
}

func (e *testEnv) deps() Dependencies {
	return Dependencies{Orchestrator: e.orchestrator, Contexts: e.contexts}
}

func (e *testEnv) run(stdin string, args ...string) (clitestkit.Result, error) {
	return clitestkit.Run(NewRootCommand(e.deps()), stdin, args...)
}

func (e *testEnv) mustRun(t *testing.T, args ...string) clitestkit.Result {
	t.Helper()

	result, err := e.run("", args...)
	if err != nil {
		t.Fatalf("%s returned error: %v\nstderr: %s", strings.Join(args, " "), err, result.Stderr)
	}
	return result
}

func (e *testEnv) draftState(t *testing.T, resource string) string {
	t.Helper()

	opened, err := e.orchestrator.Open(context.Background(), resource)
	if err != nil {
		t.Fatalf("Open(%q) returned error: %v", resource, err)
	}
	return string(opened.Session.State())
}

func decodeJSONOutput[T any](t *testing.T, output string) T {
	t.Helper()

	var value T
	if err := json.Unmarshal([]byte(output), &value); err != nil {
		t.Fatalf("failed to decode JSON output %q: %v", output, err)
	}
	return value
}

func registeredPaths(command *cobra.Command, prefix []string) [][]string {
	return clitestkit.RegisteredPaths(command, prefix)
}

func executeForTest(deps Dependencies, stdin string, args ...string) (string, error) {
	return clitestkit.ExecuteCommandForTest(NewRootCommand(deps), stdin, args...)
}
