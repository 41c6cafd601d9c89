package editor

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/crmarques/contentdesk/document"
	"github.com/crmarques/contentdesk/server"
)

// Attach queues a local file to be uploaded as multipart field on the next
// save. Attaching to a field that already has a file replaces it.
func (s *Session) Attach(field string, localPath string) error {
	field = strings.TrimSpace(field)
	if field == "" {
		return validationError("attachment field is required", nil)
	}

	attachment, err := newAttachment(field, localPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Busy() {
		return conflictError(fmt.Sprintf("resource %q is busy (%s)", s.meta.Name, s.state))
	}
	s.pending[field] = attachment
	s.state = StateDirty
	return nil
}

// AttachItemFile queues a file for subfield of a list item. The field is keyed
// by the item id, so moving the item keeps the file attached to it.
func (s *Session) AttachItemFile(list document.Path, index int, subfield string, localPath string) error {
	subfield = strings.TrimSpace(subfield)
	if subfield == "" {
		return validationError("attachment subfield is required", nil)
	}

	policy, _ := s.meta.ListPolicyFor(list)
	if policy.IDField == "" {
		return validationError(fmt.Sprintf("list %q does not keep item ids", list.String()), nil)
	}

	items, err := s.Items(list)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return validationError(fmt.Sprintf("list %q has no item %d", list.String(), index), nil)
	}
	itemID := itemIdentifier(items[index], policy)
	if itemID == "" {
		return validationError(fmt.Sprintf("item %d of list %q has no %s", index, list.String(), policy.IDField), nil)
	}

	return s.Attach(itemAttachmentPrefix(list, itemID)+subfield, localPath)
}

// Detach drops the pending file for field and reports whether one existed.
func (s *Session) Detach(field string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.pending[field]; !found {
		return false
	}
	delete(s.pending, field)
	return true
}

// Pending returns the queued attachments sorted by field.
func (s *Session) Pending() []server.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingLocked()
}

func (s *Session) pendingLocked() []server.Attachment {
	attachments := make([]server.Attachment, 0, len(s.pending))
	for _, attachment := range s.pending {
		attachments = append(attachments, attachment)
	}
	sort.Slice(attachments, func(i, j int) bool {
		return attachments[i].Field < attachments[j].Field
	})
	return attachments
}

func newAttachment(field string, localPath string) (server.Attachment, error) {
	if strings.TrimSpace(localPath) == "" {
		return server.Attachment{}, validationError("attachment file path is required", nil)
	}

	absolutePath, err := filepath.Abs(localPath)
	if err != nil {
		return server.Attachment{}, validationError(fmt.Sprintf("invalid attachment path %q", localPath), err)
	}
	info, err := os.Stat(absolutePath)
	if err != nil {
		return server.Attachment{}, validationError(fmt.Sprintf("attachment file %q is not readable", localPath), err)
	}
	if info.IsDir() {
		return server.Attachment{}, validationError(fmt.Sprintf("attachment path %q is a directory", localPath), nil)
	}

	return server.Attachment{
		Field:       field,
		FileName:    filepath.Base(absolutePath),
		Path:        absolutePath,
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(absolutePath))),
	}, nil
}

func itemAttachmentPrefix(list document.Path, itemID string) string {
	return list.String() + "." + itemID + "."
}
