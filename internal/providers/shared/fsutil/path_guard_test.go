package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWithinDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testCases := []struct {
		name      string
		candidate string
		want      bool
	}{
		{name: "missing_child", candidate: filepath.Join(root, "hero", "draft.json"), want: true},
		{name: "root_itself", candidate: root, want: true},
		{name: "parent", candidate: filepath.Dir(root), want: false},
		{name: "dot_dot_escape", candidate: filepath.Join(root, "..", "elsewhere"), want: false},
		{name: "unrelated", candidate: filepath.Clean("/tmp/other/file"), want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := WithinDir(root, tc.candidate); got != tc.want {
				t.Fatalf("WithinDir(%q) = %v, want %v", tc.candidate, got, tc.want)
			}
		})
	}
}

func TestWithinDirRejectsSymlinkEscape(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outside := t.TempDir()

	linkPath := filepath.Join(root, "link")
	if err := os.Symlink(outside, linkPath); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	candidate := filepath.Join(linkPath, "escaped.txt")
	if WithinDir(root, candidate) {
		t.Fatalf("expected symlinked path %q to be rejected under root %q", candidate, root)
	}
}

func TestRemoveEmptyDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	leaf := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(leaf, 0o755); err != nil {
		t.Fatalf("failed to create leaf dir: %v", err)
	}
	kept := filepath.Join(root, "kept")
	if err := os.MkdirAll(kept, 0o755); err != nil {
		t.Fatalf("failed to create kept dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(kept, "draft.json"), []byte("{}"), 0o600); err != nil {
		t.Fatalf("failed to write draft: %v", err)
	}

	if err := RemoveEmptyDirs(leaf, root); err != nil {
		t.Fatalf("RemoveEmptyDirs returned error: %v", err)
	}
	if err := RemoveEmptyDirs(kept, root); err != nil {
		t.Fatalf("RemoveEmptyDirs returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "a")); !os.IsNotExist(err) {
		t.Fatalf("expected parent to be removed, got err=%v", err)
	}
	if _, err := os.Stat(kept); err != nil {
		t.Fatalf("expected non-empty dir to stay, got err=%v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Fatalf("expected stop dir to stay, got err=%v", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := filepath.Join(root, "nested", "file.json")

	if err := WriteFileAtomic(target, []byte(`{"a":1}`), 0o600, ".test-*"); err != nil {
		t.Fatalf("WriteFileAtomic returned error: %v", err)
	}
	if err := WriteFileAtomic(target, []byte(`{"a":2}`), 0o600, ".test-*"); err != nil {
		t.Fatalf("WriteFileAtomic returned error: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read target: %v", err)
	}
	if string(data) != `{"a":2}` {
		t.Fatalf("unexpected content %q", string(data))
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("failed to stat target: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatalf("failed to list dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temporary files to be cleaned up, got %d entries", len(entries))
	}
}

func TestExpandHome(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	testCases := map[string]string{
		"~":              homeDir,
		"~/drafts/prod":  filepath.Join(homeDir, "drafts", "prod"),
		"/abs/path":      "/abs/path",
		" relative/dir ": "relative/dir",
		"~other/dir":     "~other/dir",
	}
	for input, want := range testCases {
		got, err := ExpandHome(input)
		if err != nil {
			t.Fatalf("ExpandHome(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ExpandHome(%q) = %q, want %q", input, got, want)
		}
	}
}
