// Package yamlutil encodes YAML the same way for context catalogs, drafts and
// command output.
package yamlutil

import (
	"bytes"

	"go.yaml.in/yaml/v3"
)

const DefaultIndent = 2

func Marshal(v any) ([]byte, error) {
	return MarshalWithIndent(v, DefaultIndent)
}

func MarshalWithIndent(v any, indent int) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(indent)
	if err := encoder.Encode(v); err != nil {
		_ = encoder.Close()
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
