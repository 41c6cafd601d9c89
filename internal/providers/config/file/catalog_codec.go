package file

import (
	"bytes"
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/internal/providers/shared/fsutil"
	"github.com/crmarques/contentdesk/yamlutil"
	"go.yaml.in/yaml/v3"
)

func decodeCatalogFile(path string) (config.ContextCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config.ContextCatalog{}, err
	}
	return decodeCatalog(data)
}

// decodeCatalog rejects unknown keys.
func decodeCatalog(data []byte) (config.ContextCatalog, error) {
	var catalog config.ContextCatalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&catalog); err != nil {
		return config.ContextCatalog{}, validationError("invalid context catalog yaml", err)
	}
	return catalog, nil
}

func encodeCatalog(catalog config.ContextCatalog) ([]byte, error) {
	return yamlutil.Marshal(catalog)
}

// resolveCatalogPath picks the explicit path, then the environment override,
// then the default. Relative results are anchored at the home directory.
func resolveCatalogPath(explicitPath string) (string, error) {
	raw := cmp.Or(explicitPath, os.Getenv(config.ContextFileEnvVar), config.DefaultContextCatalogPath)

	expanded, err := fsutil.ExpandHome(raw)
	if err != nil {
		return "", internalError("failed to resolve user home directory", err)
	}
	if expanded == "" {
		return "", validationError("context catalog path is empty", nil)
	}

	path := filepath.Clean(expanded)
	if path == "." {
		return "", validationError("context catalog path resolves to the current directory", nil)
	}
	if filepath.IsAbs(path) {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", internalError("failed to resolve user home directory", err)
	}
	return filepath.Join(homeDir, path), nil
}

func unknownOverrideError(key string) error {
	return validationError(fmt.Sprintf("unknown override key %q (supported: %s)", key, strings.Join(supportedOverrideKeys, ", ")), nil)
}
