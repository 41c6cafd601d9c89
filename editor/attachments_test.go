package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crmarques/contentdesk/document"
	"github.com/crmarques/contentdesk/faults"
)

func TestAttachAndDetach(t *testing.T) {
	t.Parallel()

	session := mustNew(t, featuresMetadata(), &fakeStore{})
	file := writeTempFile(t, "hero.png")

	if err := session.Attach("video0", file); err != nil {
		t.Fatalf("Attach returned error: %v", err)
	}
	if session.State() != StateDirty {
		t.Fatalf("expected attach to mark the session dirty, got %q", session.State())
	}

	pending := session.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected one pending attachment, got %d", len(pending))
	}
	if pending[0].FileName != "hero.png" || pending[0].Path != file || pending[0].ContentType != "image/png" {
		t.Fatalf("unexpected attachment %#v", pending[0])
	}

	replacement := writeTempFile(t, "other.png")
	if err := session.Attach("video0", replacement); err != nil {
		t.Fatalf("Attach returned error: %v", err)
	}
	if pending := session.Pending(); len(pending) != 1 || pending[0].Path != replacement {
		t.Fatalf("expected attachment to be replaced, got %#v", pending)
	}

	if !session.Detach("video0") {
		t.Fatal("expected Detach to report an existing attachment")
	}
	if session.Detach("video0") {
		t.Fatal("expected second Detach to report nothing")
	}
}

func TestAttachValidation(t *testing.T) {
	t.Parallel()

	session := mustNew(t, featuresMetadata(), &fakeStore{})
	dir := t.TempDir()

	testCases := []struct {
		name  string
		field string
		path  string
	}{
		{name: "empty_field", field: " ", path: writeTempFile(t, "a.png")},
		{name: "empty_path", field: "image", path: ""},
		{name: "missing_file", field: "image", path: filepath.Join(dir, "missing.png")},
		{name: "directory", field: "image", path: dir},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := session.Attach(tc.field, tc.path); !faults.IsCategory(err, faults.ValidationError) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(session.Pending()) != 0 {
		t.Fatal("expected no pending attachments")
	}
}

func TestAttachItemFileFollowsItemAcrossMoves(t *testing.T) {
	t.Parallel()

	session := mustNew(t, stepsMetadata(), &fakeStore{})
	steps := document.MustPath("steps")

	if err := session.AttachItemFile(steps, 2, "image", writeTempFile(t, "c.jpg")); err != nil {
		t.Fatalf("AttachItemFile returned error: %v", err)
	}
	if err := session.MoveItem(steps, 2, 0); err != nil {
		t.Fatalf("MoveItem returned error: %v", err)
	}

	pending := session.Pending()
	if len(pending) != 1 || pending[0].Field != "steps.s3.image" {
		t.Fatalf("expected attachment keyed by item id, got %#v", pending)
	}
}

func TestAttachItemFileValidation(t *testing.T) {
	t.Parallel()

	file := writeTempFile(t, "a.png")

	meta := featuresMetadata()
	policy := meta.Lists["features"]
	policy.IDField = ""
	meta.Lists["features"] = policy
	withoutIDs := mustNew(t, meta, &fakeStore{})
	if err := withoutIDs.AttachItemFile(document.MustPath("features"), 0, "icon", file); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error for list without ids, got %v", err)
	}

	session := mustNew(t, featuresMetadata(), &fakeStore{})
	if err := session.AttachItemFile(document.MustPath("features"), 5, "icon", file); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error for missing item, got %v", err)
	}
	if err := session.AttachItemFile(document.MustPath("features"), 0, "", file); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error for empty subfield, got %v", err)
	}
}

func writeTempFile(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("content"), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
