package orchestrator

import (
	"github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/drafts"
	"github.com/crmarques/contentdesk/editor"
	"github.com/crmarques/contentdesk/metadata"
	"github.com/crmarques/contentdesk/server"
)

var _ Orchestrator = (*DefaultOrchestrator)(nil)

// DefaultOrchestrator ties the resource catalog, the remote content store
// and the local draft store together for one resolved context.
type DefaultOrchestrator struct {
	Catalog    *metadata.Catalog
	Store      server.ContentStore
	DraftStore drafts.Store

	plan        string
	idGenerator func() string
}

func (r *DefaultOrchestrator) SetPlan(plan string) {
	if r == nil {
		return
	}
	r.plan = config.Site{Plan: plan}.EffectivePlan()
}

// SetIDGenerator overrides the list-item id generator handed to sessions.
func (r *DefaultOrchestrator) SetIDGenerator(generate func() string) {
	if r == nil {
		return
	}
	r.idGenerator = generate
}

func (r *DefaultOrchestrator) Plan() string {
	if r == nil || r.plan == "" {
		return config.DefaultSitePlan
	}
	return r.plan
}

func (r *DefaultOrchestrator) sessionOptions() []editor.Option {
	opts := []editor.Option{editor.WithPlan(r.Plan())}
	if r.idGenerator != nil {
		opts = append(opts, editor.WithIDGenerator(r.idGenerator))
	}
	return opts
}
