package orchestrator

import (
	"github.com/crmarques/contentdesk/drafts"
	"github.com/crmarques/contentdesk/faults"
	"github.com/crmarques/contentdesk/metadata"
	"github.com/crmarques/contentdesk/server"
)

func (r *DefaultOrchestrator) requireCatalog() (*metadata.Catalog, error) {
	if r == nil || r.Catalog == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "resource catalog is not configured", nil)
	}
	return r.Catalog, nil
}

func (r *DefaultOrchestrator) requireStore() (server.ContentStore, error) {
	if r == nil || r.Store == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "content api is not configured", nil)
	}
	return r.Store, nil
}

func (r *DefaultOrchestrator) requireDrafts() (drafts.Store, error) {
	if r == nil || r.DraftStore == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "draft store is not configured", nil)
	}
	return r.DraftStore, nil
}

func (r *DefaultOrchestrator) Resources() []metadata.ResourceMetadata {
	catalog, err := r.requireCatalog()
	if err != nil {
		return nil
	}
	return catalog.List()
}

func (r *DefaultOrchestrator) Resource(name string) (metadata.ResourceMetadata, error) {
	catalog, err := r.requireCatalog()
	if err != nil {
		return metadata.ResourceMetadata{}, err
	}
	return catalog.Get(name)
}
