package core

import (
	"context"
	"strings"

	"github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/debugctx"
	"github.com/crmarques/contentdesk/drafts"
	"github.com/crmarques/contentdesk/faults"
	draftsfs "github.com/crmarques/contentdesk/internal/providers/drafts/fsstore"
	httpserver "github.com/crmarques/contentdesk/internal/providers/server/http"
	"github.com/crmarques/contentdesk/internal/providers/shared/fsutil"
	"github.com/crmarques/contentdesk/metadata"
	"github.com/crmarques/contentdesk/orchestrator"
)

func buildDefaultOrchestrator(ctx context.Context, resolvedContext config.Context) (*orchestrator.DefaultOrchestrator, error) {
	catalog, err := loadResourceCatalog(resolvedContext.Metadata)
	if err != nil {
		return nil, err
	}

	gateway, err := httpserver.NewContentGateway(resolvedContext.API)
	if err != nil {
		return nil, err
	}

	draftStore, err := buildDraftStore(resolvedContext.Drafts)
	if err != nil {
		return nil, err
	}

	defaultOrchestrator := &orchestrator.DefaultOrchestrator{
		Catalog:    catalog,
		Store:      gateway,
		DraftStore: draftStore,
	}
	defaultOrchestrator.SetPlan(resolvedContext.Site.EffectivePlan())

	debugctx.Event(
		ctx,
		"content context ready",
		"context", resolvedContext.Name,
		"plan", defaultOrchestrator.Plan(),
		"resources", len(catalog.List()),
	)
	return defaultOrchestrator, nil
}

func loadResourceCatalog(cfg config.Metadata) (*metadata.Catalog, error) {
	if strings.TrimSpace(cfg.BaseDir) == "" {
		return metadata.LoadBuiltin()
	}

	baseDir, err := fsutil.ExpandHome(strings.TrimSpace(cfg.BaseDir))
	if err != nil {
		return nil, faults.NewTypedError(faults.InternalError, "failed to resolve metadata.base-dir", err)
	}
	return metadata.LoadCatalog(baseDir)
}

func buildDraftStore(cfg config.Drafts) (drafts.Store, error) {
	format, err := drafts.ParseFormat(cfg.Format)
	if err != nil {
		return nil, faults.NewTypedError(faults.ValidationError, "drafts.format is invalid", err)
	}

	rawBaseDir := strings.TrimSpace(cfg.BaseDir)
	if rawBaseDir == "" {
		return nil, faults.NewTypedError(faults.ValidationError, "drafts.base-dir is required", nil)
	}
	baseDir, err := fsutil.ExpandHome(rawBaseDir)
	if err != nil {
		return nil, faults.NewTypedError(faults.InternalError, "failed to resolve drafts.base-dir", err)
	}

	return draftsfs.NewLocalDraftStore(baseDir, format), nil
}
