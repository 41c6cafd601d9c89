package common

import (
	"github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/orchestrator"
)

// CommandDependencies is what every subcommand constructor receives. Either
// field may be nil when bootstrap was skipped for the invoked command.
type CommandDependencies struct {
	Orchestrator orchestrator.Orchestrator
	Contexts     config.ContextService
}

func RequireContexts(deps CommandDependencies) (config.ContextService, error) {
	if deps.Contexts != nil {
		return deps.Contexts, nil
	}
	return nil, ValidationError("context service is not configured; pass --contexts-file or set "+config.ContextFileEnvVar, nil)
}

func RequireOrchestrator(deps CommandDependencies) (orchestrator.Orchestrator, error) {
	if deps.Orchestrator != nil {
		return deps.Orchestrator, nil
	}
	return nil, ValidationError("orchestrator is not configured; select a site with --context or contentdesk config use", nil)
}
