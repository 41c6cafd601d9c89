package fsstore

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/crmarques/contentdesk/document"
	"github.com/crmarques/contentdesk/drafts"
	"github.com/crmarques/contentdesk/editor"
	"github.com/crmarques/contentdesk/yamlutil"
	"go.yaml.in/yaml/v3"
)

func (s *LocalDraftStore) encodeSnapshot(snapshot editor.Snapshot) ([]byte, error) {
	normalized, err := document.Normalize(snapshot.Document)
	if err != nil {
		return nil, err
	}
	snapshot.Document = normalized

	switch s.format {
	case drafts.FormatYAML:
		encoded, err := yamlutil.Marshal(snapshot)
		if err != nil {
			return nil, internalError("failed to encode yaml draft", err)
		}
		return encoded, nil
	default:
		encoded, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return nil, internalError("failed to encode json draft", err)
		}
		return append(encoded, '\n'), nil
	}
}

func (s *LocalDraftStore) decodeSnapshot(data []byte) (editor.Snapshot, error) {
	var snapshot editor.Snapshot

	switch s.format {
	case drafts.FormatYAML:
		if err := yaml.Unmarshal(data, &snapshot); err != nil {
			return editor.Snapshot{}, validationError("invalid yaml draft", err)
		}
	default:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&snapshot); err != nil {
			return editor.Snapshot{}, validationError("invalid json draft", err)
		}
	}

	normalized, err := document.Normalize(snapshot.Document)
	if err != nil {
		return editor.Snapshot{}, validationError(fmt.Sprintf("draft document for resource %q is invalid", snapshot.Resource), err)
	}
	snapshot.Document = normalized
	return snapshot, nil
}
