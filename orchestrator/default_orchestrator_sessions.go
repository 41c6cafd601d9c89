package orchestrator

import (
	"context"

	"github.com/crmarques/contentdesk/debugctx"
	"github.com/crmarques/contentdesk/drafts"
	"github.com/crmarques/contentdesk/editor"
	"github.com/crmarques/contentdesk/faults"
	"github.com/crmarques/contentdesk/server"
)

// Open returns the stored draft for resource when one exists and otherwise
// loads the remote record. A remote failure is tolerated and reported through
// OpenedSession.LoadError.
func (r *DefaultOrchestrator) Open(ctx context.Context, resource string) (OpenedSession, error) {
	draftStore, err := r.requireDrafts()
	if err != nil {
		return OpenedSession{}, err
	}

	snapshot, err := draftStore.Get(ctx, resource)
	switch {
	case err == nil:
		session, restoreErr := r.restore(snapshot)
		if restoreErr != nil {
			return OpenedSession{}, restoreErr
		}
		debugctx.Event(ctx, "session restored", "resource", resource, "state", string(session.State()))
		return OpenedSession{Session: session, FromDraft: true}, nil
	case faults.IsCategory(err, faults.NotFoundError):
		return r.load(ctx, resource)
	default:
		return OpenedSession{}, err
	}
}

// Reload discards any draft state, fetches the remote record and stores the
// result as the new draft.
func (r *DefaultOrchestrator) Reload(ctx context.Context, resource string) (OpenedSession, error) {
	opened, err := r.load(ctx, resource)
	if err != nil {
		return OpenedSession{}, err
	}
	if err := r.Persist(ctx, opened.Session); err != nil {
		return OpenedSession{}, err
	}
	return opened, nil
}

func (r *DefaultOrchestrator) Persist(ctx context.Context, session *editor.Session) error {
	if session == nil {
		return faults.NewTypedError(faults.ValidationError, "session must not be nil", nil)
	}
	draftStore, err := r.requireDrafts()
	if err != nil {
		return err
	}
	return draftStore.Save(ctx, session.Snapshot())
}

func (r *DefaultOrchestrator) Discard(ctx context.Context, resource string) error {
	if _, err := r.Resource(resource); err != nil {
		return err
	}
	draftStore, err := r.requireDrafts()
	if err != nil {
		return err
	}
	return draftStore.Delete(ctx, resource)
}

func (r *DefaultOrchestrator) Drafts(ctx context.Context) ([]drafts.Entry, error) {
	draftStore, err := r.requireDrafts()
	if err != nil {
		return nil, err
	}
	return draftStore.List(ctx)
}

// Save submits the session and stores the resulting state as the draft, also
// when the submission failed, so the Error state survives to the next run.
func (r *DefaultOrchestrator) Save(ctx context.Context, session *editor.Session) (server.Record, error) {
	if session == nil {
		return server.Record{}, faults.NewTypedError(faults.ValidationError, "session must not be nil", nil)
	}

	record, saveErr := session.Save(ctx)
	if err := r.Persist(ctx, session); err != nil {
		if saveErr != nil {
			return server.Record{}, saveErr
		}
		return server.Record{}, err
	}
	return record, saveErr
}

func (r *DefaultOrchestrator) Delete(ctx context.Context, session *editor.Session) error {
	if session == nil {
		return faults.NewTypedError(faults.ValidationError, "session must not be nil", nil)
	}

	deleteErr := session.Delete(ctx)
	if err := r.Persist(ctx, session); err != nil && deleteErr == nil {
		return err
	}
	return deleteErr
}

func (r *DefaultOrchestrator) load(ctx context.Context, resource string) (OpenedSession, error) {
	meta, err := r.Resource(resource)
	if err != nil {
		return OpenedSession{}, err
	}
	store, err := r.requireStore()
	if err != nil {
		return OpenedSession{}, err
	}

	session, err := editor.New(meta, store, r.sessionOptions()...)
	if err != nil {
		return OpenedSession{}, err
	}

	opened := OpenedSession{Session: session}
	if loadErr := session.Load(ctx); loadErr != nil {
		debugctx.Event(ctx, "remote load failed", "resource", resource, "error", loadErr.Error())
		opened.LoadError = loadErr
	}
	return opened, nil
}

func (r *DefaultOrchestrator) restore(snapshot editor.Snapshot) (*editor.Session, error) {
	meta, err := r.Resource(snapshot.Resource)
	if err != nil {
		return nil, err
	}
	store, err := r.requireStore()
	if err != nil {
		return nil, err
	}
	return editor.Restore(meta, store, snapshot, r.sessionOptions()...)
}
