package drafts

import (
	"context"
	"time"

	"github.com/crmarques/contentdesk/editor"
)

// Store keeps one working copy per resource between CLI invocations. Get
// reports a missing draft with a NotFound fault.
type Store interface {
	Get(ctx context.Context, resource string) (editor.Snapshot, error)
	Save(ctx context.Context, snapshot editor.Snapshot) error
	Delete(ctx context.Context, resource string) error
	Exists(ctx context.Context, resource string) (bool, error)
	List(ctx context.Context) ([]Entry, error)
}

// Entry summarises a stored draft without decoding its document.
type Entry struct {
	Resource  string    `json:"resource" yaml:"resource"`
	Path      string    `json:"path" yaml:"path"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}
