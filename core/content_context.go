package core

import (
	"context"

	"github.com/crmarques/contentdesk/config"
	configfile "github.com/crmarques/contentdesk/internal/providers/config/file"
)

func NewContextService(opts BootstrapConfig) config.ContextService {
	return configfile.NewFileContextService(opts.ContextCatalogPath)
}

// NewContentContext resolves the selected context and wires the content API
// gateway, the resource catalog and the draft store for it.
func NewContentContext(ctx context.Context, opts BootstrapConfig, selection config.ContextSelection) (ContentContext, error) {
	contextService := NewContextService(opts)

	resolvedContext, err := contextService.ResolveContext(ctx, selection)
	if err != nil {
		return ContentContext{}, err
	}

	defaultOrchestrator, err := buildDefaultOrchestrator(ctx, resolvedContext)
	if err != nil {
		return ContentContext{}, err
	}

	return ContentContext{
		Contexts:     contextService,
		Context:      resolvedContext,
		Orchestrator: defaultOrchestrator,
		Catalog:      defaultOrchestrator.Catalog,
		ContentStore: defaultOrchestrator.Store,
		Drafts:       defaultOrchestrator.DraftStore,
	}, nil
}
