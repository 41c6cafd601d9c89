package fsstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/crmarques/contentdesk/debugctx"
	"github.com/crmarques/contentdesk/drafts"
	"github.com/crmarques/contentdesk/editor"
	"github.com/crmarques/contentdesk/faults"
	"github.com/crmarques/contentdesk/internal/providers/shared/fsutil"
)

var _ drafts.Store = (*LocalDraftStore)(nil)

// LocalDraftStore keeps each draft at <baseDir>/<resource>/draft.<ext>.
type LocalDraftStore struct {
	baseDir string
	format  drafts.Format
}

func NewLocalDraftStore(baseDir string, format drafts.Format) *LocalDraftStore {
	if format == "" {
		format = drafts.FormatJSON
	}
	return &LocalDraftStore{
		baseDir: filepath.Clean(baseDir),
		format:  format,
	}
}

func (s *LocalDraftStore) Get(ctx context.Context, resource string) (editor.Snapshot, error) {
	targetPath, err := s.draftFilePath(resource)
	if err != nil {
		return editor.Snapshot{}, err
	}

	data, err := os.ReadFile(targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return editor.Snapshot{}, notFoundError(fmt.Sprintf("draft for resource %q not found", resource))
		}
		return editor.Snapshot{}, internalError("failed to read draft", err)
	}

	snapshot, err := s.decodeSnapshot(data)
	if err != nil {
		return editor.Snapshot{}, err
	}
	if snapshot.Resource != resource {
		return editor.Snapshot{}, validationError(
			fmt.Sprintf("draft file %q holds resource %q", targetPath, snapshot.Resource),
			nil,
		)
	}

	debugctx.Event(ctx, "draft loaded", "resource", resource, "path", targetPath, "state", string(snapshot.State))
	return snapshot, nil
}

func (s *LocalDraftStore) Save(ctx context.Context, snapshot editor.Snapshot) error {
	targetPath, err := s.draftFilePath(snapshot.Resource)
	if err != nil {
		return err
	}

	encoded, err := s.encodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	if err := fsutil.WriteFileAtomic(targetPath, encoded, 0o600, ".contentdesk-draft-*"); err != nil {
		return internalError("failed to write draft", err)
	}

	debugctx.Event(ctx, "draft written", "resource", snapshot.Resource, "path", targetPath, "state", string(snapshot.State))
	return nil
}

// Delete removes the draft and any directory left empty. A missing draft is
// not an error.
func (s *LocalDraftStore) Delete(ctx context.Context, resource string) error {
	targetPath, err := s.draftFilePath(resource)
	if err != nil {
		return err
	}

	if err := os.Remove(targetPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return internalError("failed to remove draft", err)
	}
	_ = fsutil.RemoveEmptyDirs(filepath.Dir(targetPath), s.baseDir)

	debugctx.Event(ctx, "draft removed", "resource", resource, "path", targetPath)
	return nil
}

func (s *LocalDraftStore) Exists(_ context.Context, resource string) (bool, error) {
	targetPath, err := s.draftFilePath(resource)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, internalError("failed to check draft", err)
	}
	return !info.IsDir(), nil
}

// List returns the stored drafts sorted by resource name. A missing base
// directory lists nothing.
func (s *LocalDraftStore) List(_ context.Context) ([]drafts.Entry, error) {
	if s.baseDir == "" || s.baseDir == "." {
		return nil, validationError("draft base directory must not be empty", nil)
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []drafts.Entry{}, nil
		}
		return nil, internalError("failed to list drafts", err)
	}

	items := make([]drafts.Entry, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || validateResourceName(entry.Name()) != nil {
			continue
		}

		targetPath := filepath.Join(s.baseDir, entry.Name(), s.format.FileName())
		info, statErr := os.Stat(targetPath)
		if statErr != nil {
			if errors.Is(statErr, os.ErrNotExist) {
				continue
			}
			return nil, internalError("failed to inspect draft", statErr)
		}
		if info.IsDir() {
			continue
		}

		items = append(items, drafts.Entry{
			Resource:  entry.Name(),
			Path:      targetPath,
			UpdatedAt: info.ModTime().UTC(),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Resource < items[j].Resource
	})
	return items, nil
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
