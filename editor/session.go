// Package editor holds the editing session for one content resource: the
// canonical document, its lifecycle state and the pending file attachments.
package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/crmarques/contentdesk/completion"
	"github.com/crmarques/contentdesk/debugctx"
	"github.com/crmarques/contentdesk/document"
	"github.com/crmarques/contentdesk/metadata"
	"github.com/crmarques/contentdesk/server"
	"github.com/google/uuid"
)

type State string

const (
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateDirty    State = "dirty"
	StateSaving   State = "saving"
	StateError    State = "error"
	StateDeleting State = "deleting"
	StateEmpty    State = "empty"
)

// Busy reports whether a network call owns the session.
func (s State) Busy() bool {
	switch s {
	case StateLoading, StateSaving, StateDeleting:
		return true
	default:
		return false
	}
}

type Option func(*Session)

// WithPlan selects the site plan used to resolve list limits.
func WithPlan(plan string) Option {
	return func(s *Session) {
		s.plan = plan
	}
}

// WithIDGenerator replaces the UUID generator used for new list items.
func WithIDGenerator(generate func() string) Option {
	return func(s *Session) {
		if generate != nil {
			s.newID = generate
		}
	}
}

// Session edits one resource document. All methods are safe for concurrent
// use; Save and Delete run their network call outside the lock while the
// busy state rejects every other mutation.
type Session struct {
	mu sync.Mutex

	meta      metadata.ResourceMetadata
	store     server.ContentStore
	fieldSpec completion.FieldSpec
	plan      string
	newID     func() string

	doc      document.Value
	recordID string
	exists   bool
	state    State
	lastErr  string
	pending  map[string]server.Attachment
}

// New returns a session holding the defaults template in the Empty state.
func New(meta metadata.ResourceMetadata, store server.ContentStore, opts ...Option) (*Session, error) {
	if store == nil {
		return nil, validationError("content store is required", nil)
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	fieldSpec, err := meta.FieldSpec()
	if err != nil {
		return nil, err
	}

	session := &Session{
		meta:      meta,
		store:     store,
		fieldSpec: fieldSpec,
		plan:      metadata.PlanBasic,
		newID:     uuid.NewString,
		doc:       meta.DefaultsDocument(),
		state:     StateEmpty,
		pending:   make(map[string]server.Attachment),
	}
	for _, opt := range opts {
		opt(session)
	}
	return session, nil
}

// Load fetches the remote record and merges it with the defaults. A fetch
// failure is not fatal: the session falls back to the defaults in the Ready
// state and the error is returned for the caller to surface.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Busy() {
		state := s.state
		s.mu.Unlock()
		return conflictError(fmt.Sprintf("resource %q is busy (%s)", s.meta.Name, state))
	}
	s.transition(ctx, StateLoading)
	s.mu.Unlock()

	record, found, err := s.store.Fetch(ctx, s.meta.APIPath)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = make(map[string]server.Attachment)
	s.recordID = ""
	s.exists = false
	s.doc = s.meta.DefaultsDocument()

	if err != nil {
		s.lastErr = err.Error()
		s.transition(ctx, StateReady)
		return err
	}

	s.lastErr = ""
	if found {
		remote, _ := record.Document()
		s.doc = document.MergeWithDefaults(remote, s.meta.Defaults)
		s.recordID = record.ID
		s.exists = true
	}
	s.transition(ctx, StateReady)
	return nil
}

// Document returns the canonical document. Every edit replaces it with a new
// value, so the result stays valid but must not be modified.
func (s *Session) Document() document.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

func (s *Session) Get(path document.Path) (document.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return path.Get(s.doc)
}

func (s *Session) Set(path document.Path, value document.Value) error {
	normalized, err := document.Normalize(value)
	if err != nil {
		return err
	}
	return s.mutate(func(doc document.Value) (document.Value, error) {
		return path.Set(doc, normalized)
	})
}

// Update applies a read-modify-write at path.
func (s *Session) Update(path document.Path, fn func(current document.Value, exists bool) (document.Value, error)) error {
	return s.mutate(func(doc document.Value) (document.Value, error) {
		return path.Update(doc, func(current document.Value, exists bool) (document.Value, error) {
			next, err := fn(current, exists)
			if err != nil {
				return nil, err
			}
			return document.Normalize(next)
		})
	})
}

func (s *Session) Completion() completion.Score {
	s.mu.Lock()
	defer s.mu.Unlock()
	return completion.Calculate(s.doc, s.fieldSpec)
}

// Validate evaluates the save rules against the current document.
func (s *Session) Validate(ctx context.Context) error {
	s.mu.Lock()
	doc := s.doc
	s.mu.Unlock()
	return s.meta.CheckSaveRules(ctx, doc)
}

// Rules reports every save rule outcome for the current document.
func (s *Session) Rules(ctx context.Context) ([]metadata.RuleResult, error) {
	s.mu.Lock()
	doc := s.doc
	s.mu.Unlock()
	return s.meta.EvaluateSaveRules(ctx, doc)
}

// Save sends the document and pending attachments to the store: PUT when a
// record id is known, POST otherwise. On failure the document is kept as-is
// and the session moves to Error.
func (s *Session) Save(ctx context.Context) (server.Record, error) {
	s.mu.Lock()
	if s.state.Busy() {
		state := s.state
		s.mu.Unlock()
		return server.Record{}, conflictError(fmt.Sprintf("resource %q is busy (%s)", s.meta.Name, state))
	}
	doc := s.doc
	if err := s.meta.CheckSaveRules(ctx, doc); err != nil {
		s.mu.Unlock()
		return server.Record{}, err
	}
	request := server.SaveRequest{
		ID:          s.recordID,
		Document:    doc,
		Attachments: s.pendingLocked(),
	}
	s.transition(ctx, StateSaving)
	s.mu.Unlock()

	var (
		record server.Record
		err    error
	)
	if request.ID != "" {
		record, err = s.store.Replace(ctx, s.meta.APIPath, request)
	} else {
		record, err = s.store.Create(ctx, s.meta.APIPath, request)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr = err.Error()
		s.transition(ctx, StateError)
		return server.Record{}, err
	}

	if echoed, found := record.Document(); found && echoed != nil {
		s.doc = document.MergeWithDefaults(echoed, s.meta.Defaults)
	}
	if record.ID != "" {
		s.recordID = record.ID
	}
	s.exists = true
	s.lastErr = ""
	s.pending = make(map[string]server.Attachment)
	s.transition(ctx, StateReady)
	return record, nil
}

// Delete removes the remote record and resets the document to the defaults.
// On failure the previous state is restored.
func (s *Session) Delete(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Busy() {
		state := s.state
		s.mu.Unlock()
		return conflictError(fmt.Sprintf("resource %q is busy (%s)", s.meta.Name, state))
	}
	if !s.exists {
		s.mu.Unlock()
		return notFoundError(fmt.Sprintf("resource %q has no saved record", s.meta.Name))
	}
	previous := s.state
	request := server.DeleteRequest{ID: s.recordID, IncludeIDInBody: s.meta.DeleteWithIDBody}
	s.transition(ctx, StateDeleting)
	s.mu.Unlock()

	err := s.store.Delete(ctx, s.meta.APIPath, request)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr = err.Error()
		s.transition(ctx, previous)
		return err
	}

	s.doc = s.meta.DefaultsDocument()
	s.recordID = ""
	s.exists = false
	s.lastErr = ""
	s.pending = make(map[string]server.Attachment)
	s.transition(ctx, StateEmpty)
	return nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) RecordID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordID
}

func (s *Session) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists
}

// LastError returns the message of the last failed load, save or delete.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) Metadata() metadata.ResourceMetadata {
	return s.meta
}

func (s *Session) Plan() string {
	return s.plan
}

func (s *Session) mutate(fn func(doc document.Value) (document.Value, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Busy() {
		return conflictError(fmt.Sprintf("resource %q is busy (%s)", s.meta.Name, s.state))
	}

	next, err := fn(s.doc)
	if err != nil {
		return err
	}
	s.doc = next
	s.state = StateDirty
	return nil
}

func (s *Session) transition(ctx context.Context, next State) {
	debugctx.Event(ctx, "session transition", "resource", s.meta.Name, "from", string(s.state), "to", string(next))
	s.state = next
}
