package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// WithinDir reports whether candidate stays inside dir once symlinks in the
// existing part of either path are resolved. Missing trailing components are
// compared lexically so write targets can be checked before they exist.
func WithinDir(dir string, candidate string) bool {
	resolvedDir, err := resolveExisting(dir)
	if err != nil {
		return false
	}
	resolvedCandidate, err := resolveExisting(candidate)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(resolvedDir, resolvedCandidate)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// RemoveEmptyDirs removes from and its parents while they are empty, stopping
// at stop, which is never removed.
func RemoveEmptyDirs(from string, stop string) error {
	stop = filepath.Clean(stop)
	for current := filepath.Clean(from); current != stop; current = filepath.Dir(current) {
		if current == "." || current == string(filepath.Separator) {
			return nil
		}
		if err := os.Remove(current); err != nil {
			if isNotEmptyOrGone(err) {
				return nil
			}
			return err
		}
	}
	return nil
}

func isNotEmptyOrGone(err error) bool {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrExist) || errors.Is(err, fs.ErrInvalid) {
		return true
	}
	return strings.Contains(err.Error(), "not empty")
}

// resolveExisting evaluates symlinks on the longest existing prefix of path
// and appends the missing remainder unchanged.
func resolveExisting(path string) (string, error) {
	cleaned := filepath.Clean(path)
	existing := cleaned
	missing := make([]string, 0)

	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return cleaned, nil
		}
		missing = append([]string{filepath.Base(existing)}, missing...)
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{resolved}, missing...)...), nil
}
