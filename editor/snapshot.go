package editor

import (
	"fmt"

	"github.com/crmarques/contentdesk/document"
	"github.com/crmarques/contentdesk/metadata"
	"github.com/crmarques/contentdesk/server"
)

// Snapshot is the serialisable state of a session, used to carry a working
// copy between CLI invocations.
type Snapshot struct {
	Resource  string              `json:"resource" yaml:"resource"`
	RecordID  string              `json:"recordId,omitempty" yaml:"recordId,omitempty"`
	Exists    bool                `json:"exists" yaml:"exists"`
	State     State               `json:"state" yaml:"state"`
	LastError string              `json:"lastError,omitempty" yaml:"lastError,omitempty"`
	Document  document.Value      `json:"document" yaml:"document"`
	Pending   []server.Attachment `json:"pending,omitempty" yaml:"pending,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Resource:  s.meta.Name,
		RecordID:  s.recordID,
		Exists:    s.exists,
		State:     s.state,
		LastError: s.lastErr,
		Document:  document.Clone(s.doc),
		Pending:   s.pendingLocked(),
	}
}

// Restore rebuilds a session from a snapshot. A snapshot taken while a
// network call was in flight restores as Dirty.
func Restore(meta metadata.ResourceMetadata, store server.ContentStore, snapshot Snapshot, opts ...Option) (*Session, error) {
	if snapshot.Resource != meta.Name {
		return nil, validationError(
			fmt.Sprintf("snapshot belongs to resource %q, not %q", snapshot.Resource, meta.Name),
			nil,
		)
	}

	session, err := New(meta, store, opts...)
	if err != nil {
		return nil, err
	}

	if snapshot.Document != nil {
		normalized, err := document.Normalize(snapshot.Document)
		if err != nil {
			return nil, validationError(fmt.Sprintf("snapshot document for resource %q is invalid", meta.Name), err)
		}
		session.doc = normalized
	}

	session.recordID = snapshot.RecordID
	session.exists = snapshot.Exists
	session.lastErr = snapshot.LastError
	session.state = restoredState(snapshot.State)
	for _, attachment := range snapshot.Pending {
		if attachment.Field == "" {
			continue
		}
		session.pending[attachment.Field] = attachment
	}
	return session, nil
}

func restoredState(state State) State {
	switch state {
	case StateReady, StateDirty, StateError, StateEmpty:
		return state
	case StateLoading, StateSaving, StateDeleting:
		return StateDirty
	default:
		return StateDirty
	}
}
