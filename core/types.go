package core

import (
	"github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/drafts"
	"github.com/crmarques/contentdesk/metadata"
	"github.com/crmarques/contentdesk/orchestrator"
	"github.com/crmarques/contentdesk/server"
)

type ContentContext struct {
	Contexts     config.ContextService
	Context      config.Context
	Orchestrator orchestrator.Orchestrator
	Catalog      *metadata.Catalog
	ContentStore server.ContentStore
	Drafts       drafts.Store
}

type BootstrapConfig struct {
	ContextCatalogPath string
}
