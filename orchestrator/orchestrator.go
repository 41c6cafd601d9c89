package orchestrator

import (
	"context"

	"github.com/crmarques/contentdesk/drafts"
	"github.com/crmarques/contentdesk/editor"
	"github.com/crmarques/contentdesk/metadata"
	"github.com/crmarques/contentdesk/server"
)

// OpenedSession is a session ready for editing. LoadError carries a remote
// fetch failure that was tolerated by falling back to the defaults.
type OpenedSession struct {
	Session   *editor.Session
	FromDraft bool
	LoadError error
}

type ResourceCatalog interface {
	Plan() string
	Resources() []metadata.ResourceMetadata
	Resource(name string) (metadata.ResourceMetadata, error)
}

type SessionOpener interface {
	Open(ctx context.Context, resource string) (OpenedSession, error)
	Reload(ctx context.Context, resource string) (OpenedSession, error)
}

type DraftWriter interface {
	Persist(ctx context.Context, session *editor.Session) error
	Discard(ctx context.Context, resource string) error
	Drafts(ctx context.Context) ([]drafts.Entry, error)
}

type RemoteMutator interface {
	Save(ctx context.Context, session *editor.Session) (server.Record, error)
	Delete(ctx context.Context, session *editor.Session) error
}

type Orchestrator interface {
	ResourceCatalog
	SessionOpener
	DraftWriter
	RemoteMutator
}
