package fsstore

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/crmarques/contentdesk/internal/providers/shared/fsutil"
)

var resourceNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

func validateResourceName(resource string) error {
	if !resourceNamePattern.MatchString(resource) {
		return validationError(fmt.Sprintf("resource name %q is invalid", resource), nil)
	}
	return nil
}

func (s *LocalDraftStore) draftFilePath(resource string) (string, error) {
	if s.baseDir == "" || s.baseDir == "." {
		return "", validationError("draft base directory must not be empty", nil)
	}
	if err := validateResourceName(resource); err != nil {
		return "", err
	}

	filePath := filepath.Join(s.baseDir, resource, s.format.FileName())
	if !fsutil.WithinDir(s.baseDir, filePath) {
		return "", validationError("draft path escapes draft base directory", nil)
	}
	return filePath, nil
}
