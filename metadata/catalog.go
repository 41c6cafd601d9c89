package metadata

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/crmarques/contentdesk/document"
	"go.yaml.in/yaml/v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Catalog holds the resource types an operator can edit.
type Catalog struct {
	resources map[string]ResourceMetadata
}

// LoadBuiltin returns the catalog of embedded resource types.
func LoadBuiltin() (*Catalog, error) {
	return LoadCatalog("")
}

// LoadCatalog loads the embedded resource types and overlays every YAML file
// found in overlayDir. An overlay resource replaces a built-in of the same
// name.
func LoadCatalog(overlayDir string) (*Catalog, error) {
	catalog := &Catalog{resources: make(map[string]ResourceMetadata)}

	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, internalError("failed to read built-in resources", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		data, err := builtinFS.ReadFile("builtin/" + entry.Name())
		if err != nil {
			return nil, internalError(fmt.Sprintf("failed to read built-in resource %q", entry.Name()), err)
		}
		if err := catalog.add(entry.Name(), data); err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(overlayDir) == "" {
		return catalog, nil
	}

	overlayEntries, err := os.ReadDir(overlayDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, validationError(fmt.Sprintf("metadata directory %q does not exist", overlayDir), err)
		}
		return nil, internalError(fmt.Sprintf("failed to read metadata directory %q", overlayDir), err)
	}
	for _, entry := range overlayEntries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		filePath := filepath.Join(overlayDir, entry.Name())
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, internalError(fmt.Sprintf("failed to read resource file %q", filePath), err)
		}
		if err := catalog.add(filePath, data); err != nil {
			return nil, err
		}
	}

	return catalog, nil
}

func (c *Catalog) add(source string, data []byte) error {
	meta, err := DecodeResource(data)
	if err != nil {
		return validationError(fmt.Sprintf("invalid resource file %q", source), err)
	}
	c.resources[meta.Name] = meta
	return nil
}

func (c *Catalog) Get(name string) (ResourceMetadata, error) {
	meta, found := c.resources[strings.TrimSpace(name)]
	if !found {
		return ResourceMetadata{}, notFoundError(fmt.Sprintf("resource %q is not defined", name))
	}
	return meta, nil
}

// List returns every resource sorted by name.
func (c *Catalog) List() []ResourceMetadata {
	items := make([]ResourceMetadata, 0, len(c.resources))
	for _, meta := range c.resources {
		items = append(items, meta)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})
	return items
}

// DecodeResource strictly decodes and validates one resource YAML document.
func DecodeResource(data []byte) (ResourceMetadata, error) {
	var meta ResourceMetadata

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&meta); err != nil {
		return ResourceMetadata{}, validationError("invalid resource metadata yaml", err)
	}

	if meta.Defaults != nil {
		normalized, err := document.Normalize(meta.Defaults)
		if err != nil {
			return ResourceMetadata{}, err
		}
		meta.Defaults, _ = normalized.(map[string]any)
	}
	for path, policy := range meta.Lists {
		if policy.Placeholder == nil {
			continue
		}
		normalized, err := document.Normalize(policy.Placeholder)
		if err != nil {
			return ResourceMetadata{}, err
		}
		policy.Placeholder, _ = normalized.(map[string]any)
		meta.Lists[path] = policy
	}

	if err := meta.Validate(); err != nil {
		return ResourceMetadata{}, err
	}
	return meta, nil
}

// EncodeResource renders metadata back to YAML.
func EncodeResource(meta ResourceMetadata) ([]byte, error) {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return nil, internalError("failed to encode resource metadata", err)
	}
	return data, nil
}

func isYAMLFile(name string) bool {
	extension := strings.ToLower(filepath.Ext(name))
	return extension == ".yaml" || extension == ".yml"
}
