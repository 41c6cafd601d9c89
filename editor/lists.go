package editor

import (
	"fmt"
	"strings"

	"github.com/crmarques/contentdesk/document"
	"github.com/crmarques/contentdesk/metadata"
)

// ListLimit returns the plan limit for list, 0 meaning unlimited.
func (s *Session) ListLimit(list document.Path) int {
	policy, _ := s.meta.ListPolicyFor(list)
	return policy.LimitFor(s.plan)
}

func (s *Session) Items(list document.Path) ([]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return document.Items(s.doc, list)
}

// AddItem appends item to list. It returns false and leaves the document
// untouched when the plan limit is reached.
func (s *Session) AddItem(list document.Path, item map[string]any) (bool, error) {
	policy, _ := s.meta.ListPolicyFor(list)
	prepared, err := s.prepareItem(policy, item)
	if err != nil {
		return false, err
	}

	added := false
	err = s.mutateIf(func(doc document.Value) (document.Value, bool, error) {
		next, ok, err := document.AppendItem(doc, list, prepared, policy.LimitFor(s.plan))
		if err != nil || !ok {
			return doc, false, err
		}
		added = true
		next, err = renumber(next, list, policy)
		return next, true, err
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// UpdateItem shallow-merges partial into the item at index. An index out of
// range changes nothing and leaves the session state as it was.
func (s *Session) UpdateItem(list document.Path, index int, partial map[string]any) error {
	normalized, err := document.Normalize(partial)
	if err != nil {
		return err
	}
	fields, _ := normalized.(map[string]any)
	policy, _ := s.meta.ListPolicyFor(list)

	return s.mutateIf(func(doc document.Value) (document.Value, bool, error) {
		if ok, err := indexesInRange(doc, list, index); err != nil || !ok {
			return doc, false, err
		}
		next, err := document.UpdateItem(doc, list, index, fields)
		if err != nil {
			return doc, false, err
		}
		next, err = renumber(next, list, policy)
		return next, true, err
	})
}

// RemoveItem removes the item at index. Removing the only item replaces it
// with the placeholder item so the list never empties. Attachments pending
// for the removed item are dropped.
func (s *Session) RemoveItem(list document.Path, index int) error {
	policy, _ := s.meta.ListPolicyFor(list)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Busy() {
		return conflictError(fmt.Sprintf("resource %q is busy (%s)", s.meta.Name, s.state))
	}

	items, err := document.Items(s.doc, list)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return nil
	}

	var next document.Value
	if len(items) == 1 {
		placeholder, err := s.prepareItem(policy, s.meta.PlaceholderItem(list))
		if err != nil {
			return err
		}
		next, err = document.ReplaceItem(s.doc, list, 0, placeholder)
		if err != nil {
			return err
		}
	} else {
		next, err = document.RemoveItem(s.doc, list, index)
		if err != nil {
			return err
		}
	}

	next, err = renumber(next, list, policy)
	if err != nil {
		return err
	}

	if itemID := itemIdentifier(items[index], policy); itemID != "" {
		prefix := itemAttachmentPrefix(list, itemID)
		for field := range s.pending {
			if strings.HasPrefix(field, prefix) {
				delete(s.pending, field)
			}
		}
	}

	s.doc = next
	s.state = StateDirty
	return nil
}

// MoveItem moves the item at from to position to. Out-of-range positions and
// from == to are no-ops that keep the session state.
func (s *Session) MoveItem(list document.Path, from int, to int) error {
	policy, _ := s.meta.ListPolicyFor(list)
	return s.mutateIf(func(doc document.Value) (document.Value, bool, error) {
		if from == to {
			return doc, false, nil
		}
		if ok, err := indexesInRange(doc, list, from, to); err != nil || !ok {
			return doc, false, err
		}
		next, err := document.MoveItem(doc, list, from, to)
		if err != nil {
			return doc, false, err
		}
		next, err = renumber(next, list, policy)
		return next, true, err
	})
}

// indexesInRange reports whether every index addresses an item of list.
func indexesInRange(doc document.Value, list document.Path, indexes ...int) (bool, error) {
	items, err := document.Items(doc, list)
	if err != nil {
		return false, err
	}
	for _, index := range indexes {
		if index < 0 || index >= len(items) {
			return false, nil
		}
	}
	return true, nil
}

// prepareItem normalizes item and assigns a fresh id when the list keeps ids
// and the item has none.
func (s *Session) prepareItem(policy metadata.ListPolicy, item map[string]any) (map[string]any, error) {
	normalized, err := document.Normalize(item)
	if err != nil {
		return nil, err
	}
	prepared, _ := normalized.(map[string]any)
	if prepared == nil {
		prepared = map[string]any{}
	}

	if policy.IDField != "" {
		current, _ := prepared[policy.IDField].(string)
		if strings.TrimSpace(current) == "" {
			prepared[policy.IDField] = s.newID()
		}
	}
	return prepared, nil
}

func (s *Session) mutateIf(fn func(doc document.Value) (document.Value, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Busy() {
		return conflictError(fmt.Sprintf("resource %q is busy (%s)", s.meta.Name, s.state))
	}

	next, changed, err := fn(s.doc)
	if err != nil || !changed {
		return err
	}
	s.doc = next
	s.state = StateDirty
	return nil
}

// renumber rewrites the configured step field with each item's position.
// Items whose step is already correct are shared with the input.
func renumber(doc document.Value, list document.Path, policy metadata.ListPolicy) (document.Value, error) {
	if policy.Renumber == nil {
		return doc, nil
	}

	items, err := document.Items(doc, list)
	if err != nil {
		return nil, err
	}

	var next []any
	for idx, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		step := policy.Renumber.FormatStep(idx + 1)
		if current, _ := fields[policy.Renumber.Field].(string); current == step {
			continue
		}
		if next == nil {
			next = make([]any, len(items))
			copy(next, items)
		}
		updated := make(map[string]any, len(fields)+1)
		for key, value := range fields {
			updated[key] = value
		}
		updated[policy.Renumber.Field] = step
		next[idx] = updated
	}

	if next == nil {
		return doc, nil
	}
	return list.Set(doc, next)
}

func itemIdentifier(item any, policy metadata.ListPolicy) string {
	if policy.IDField == "" {
		return ""
	}
	fields, ok := item.(map[string]any)
	if !ok {
		return ""
	}
	id, _ := fields[policy.IDField].(string)
	return strings.TrimSpace(id)
}
