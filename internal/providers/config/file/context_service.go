package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/debugctx"
	"github.com/crmarques/contentdesk/faults"
	"github.com/crmarques/contentdesk/internal/providers/shared/fsutil"
)

var _ config.ContextService = (*FileContextService)(nil)

// FileContextService stores contexts in a single YAML catalog file.
type FileContextService struct {
	contextCatalogPath string
}

func NewFileContextService(path string) *FileContextService {
	return &FileContextService{contextCatalogPath: path}
}

// Path returns the resolved catalog location.
func (m *FileContextService) Path() (string, error) {
	return resolveCatalogPath(m.contextCatalogPath)
}

func (m *FileContextService) Create(ctx context.Context, cfg config.Context) error {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	return m.mutate(ctx, func(catalog *config.ContextCatalog) error {
		if findContextIndex(catalog.Contexts, cfg.Name) >= 0 {
			return validationError(fmt.Sprintf("context %q already exists", cfg.Name), nil)
		}
		catalog.Contexts = append(catalog.Contexts, cfg)
		if catalog.CurrentCtx == "" {
			catalog.CurrentCtx = cfg.Name
		}
		return nil
	})
}

func (m *FileContextService) Update(ctx context.Context, cfg config.Context) error {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	return m.mutate(ctx, func(catalog *config.ContextCatalog) error {
		idx, err := requireContext(catalog.Contexts, cfg.Name)
		if err != nil {
			return err
		}
		catalog.Contexts[idx] = cfg
		return nil
	})
}

// Delete removes a context. Deleting the current context promotes the first
// remaining one.
func (m *FileContextService) Delete(ctx context.Context, name string) error {
	return m.mutate(ctx, func(catalog *config.ContextCatalog) error {
		idx, err := requireContext(catalog.Contexts, name)
		if err != nil {
			return err
		}
		catalog.Contexts = slices.Delete(catalog.Contexts, idx, idx+1)
		if catalog.CurrentCtx == name {
			catalog.CurrentCtx = ""
			if len(catalog.Contexts) > 0 {
				catalog.CurrentCtx = catalog.Contexts[0].Name
			}
		}
		return nil
	})
}

func (m *FileContextService) List(_ context.Context) ([]config.Context, error) {
	catalog, err := m.loadCatalog()
	if err != nil {
		return nil, err
	}
	return slices.Clone(catalog.Contexts), nil
}

func (m *FileContextService) SetCurrent(ctx context.Context, name string) error {
	return m.mutate(ctx, func(catalog *config.ContextCatalog) error {
		if _, err := requireContext(catalog.Contexts, name); err != nil {
			return err
		}
		catalog.CurrentCtx = name
		return nil
	})
}

func (m *FileContextService) GetCurrent(_ context.Context) (config.Context, error) {
	catalog, err := m.loadCatalog()
	if err != nil {
		return config.Context{}, err
	}
	return currentContext(catalog, "")
}

// ResolveContext returns the named context, or the current one when the
// selection has no name, with overrides and defaults applied.
func (m *FileContextService) ResolveContext(ctx context.Context, selection config.ContextSelection) (config.Context, error) {
	catalog, err := m.loadCatalog()
	if err != nil {
		return config.Context{}, err
	}
	selected, err := currentContext(catalog, selection.Name)
	if err != nil {
		return config.Context{}, err
	}

	resolved, err := applyOverrides(normalizeConfig(selected), selection.Overrides)
	if err != nil {
		return config.Context{}, err
	}
	resolved = applyConfigDefaults(resolved)
	if err := validateConfig(resolved); err != nil {
		return config.Context{}, err
	}

	debugctx.Event(ctx, "context resolved", "name", resolved.Name, "base_url", resolved.API.BaseURL, "plan", resolved.Site.Plan)
	return resolved, nil
}

func (m *FileContextService) Validate(_ context.Context, cfg config.Context) error {
	return validateConfig(normalizeConfig(cfg))
}

// mutate loads the catalog, applies change and writes the result back.
// Nothing is written when change fails.
func (m *FileContextService) mutate(ctx context.Context, change func(*config.ContextCatalog) error) error {
	catalog, err := m.loadCatalog()
	if err != nil {
		return err
	}
	if err := change(&catalog); err != nil {
		return err
	}
	if err := validateCatalog(catalog); err != nil {
		return err
	}

	path, err := resolveCatalogPath(m.contextCatalogPath)
	if err != nil {
		return err
	}
	encoded, err := encodeCatalog(catalog)
	if err != nil {
		return internalError("failed to encode context catalog", err)
	}
	if err := fsutil.WriteFileAtomic(path, encoded, 0o600, ".contentdesk-contexts-*"); err != nil {
		return internalError("failed to write context catalog", err)
	}
	debugctx.Event(ctx, "context catalog written", "path", path, "contexts", len(catalog.Contexts))

	return ensureUserOnlyReadWriteFile(path)
}

func (m *FileContextService) loadCatalog() (config.ContextCatalog, error) {
	path, err := resolveCatalogPath(m.contextCatalogPath)
	if err != nil {
		return config.ContextCatalog{}, err
	}

	catalog, err := decodeCatalogFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return config.ContextCatalog{}, nil
	case err != nil:
		return config.ContextCatalog{}, err
	}
	if err := ensureUserOnlyReadWriteFile(path); err != nil {
		return config.ContextCatalog{}, err
	}
	if err := validateCatalog(catalog); err != nil {
		return config.ContextCatalog{}, err
	}
	return catalog, nil
}

func findContextIndex(contexts []config.Context, name string) int {
	return slices.IndexFunc(contexts, func(item config.Context) bool { return item.Name == name })
}

func requireContext(contexts []config.Context, name string) (int, error) {
	idx := findContextIndex(contexts, name)
	if idx < 0 {
		return -1, notFoundError(fmt.Sprintf("context %q not found", name))
	}
	return idx, nil
}

// currentContext returns the named context, falling back to the catalog's
// current one when name is empty.
func currentContext(catalog config.ContextCatalog, name string) (config.Context, error) {
	if name == "" {
		name = catalog.CurrentCtx
	}
	if name == "" {
		return config.Context{}, notFoundError("current context not set")
	}
	idx, err := requireContext(catalog.Contexts, name)
	if err != nil {
		return config.Context{}, err
	}
	return catalog.Contexts[idx], nil
}

// ensureUserOnlyReadWriteFile tightens catalog permissions; the file may hold
// API credentials.
func ensureUserOnlyReadWriteFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return internalError("failed to inspect context catalog permissions", err)
	}

	if info.Mode().Perm() == 0o600 {
		return nil
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return internalError("failed to update context catalog permissions", err)
	}
	return nil
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func notFoundError(message string) error {
	return faults.NewTypedError(faults.NotFoundError, message, nil)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
