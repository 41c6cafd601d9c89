package config

import "context"

// ContextService manages the context catalog: the named site connections a
// user can switch between.
type ContextService interface {
	Create(ctx context.Context, cfg Context) error
	Update(ctx context.Context, cfg Context) error
	// Delete removes name; deleting the current context promotes the first
	// remaining one.
	Delete(ctx context.Context, name string) error
	SetCurrent(ctx context.Context, name string) error

	List(ctx context.Context) ([]Context, error)
	GetCurrent(ctx context.Context) (Context, error)

	// ResolveContext returns the selected context with overrides and defaults
	// applied. An empty selection name means the current context.
	ResolveContext(ctx context.Context, selection ContextSelection) (Context, error)
	Validate(ctx context.Context, cfg Context) error
}
