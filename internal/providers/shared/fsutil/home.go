package fsutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" or "~/" with the user home directory.
func ExpandHome(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed != "~" && !strings.HasPrefix(trimmed, "~/") {
		return trimmed, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if trimmed == "~" {
		return homeDir, nil
	}
	return filepath.Join(homeDir, strings.TrimPrefix(trimmed, "~/")), nil
}
