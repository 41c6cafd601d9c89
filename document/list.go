package document

import "fmt"

// Items returns the array stored at list. A missing list reports an empty
// slice; a non-array value is a validation fault.
func Items(doc Value, list Path) ([]any, error) {
	value, found := list.Get(doc)
	if !found || value == nil {
		return nil, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, validationError(fmt.Sprintf("path %q is not a list", list.String()), nil)
	}
	return items, nil
}

// AppendItem appends item to the array at list. When limit is positive and
// the list already holds limit items the document is returned unchanged with
// false.
func AppendItem(doc Value, list Path, item Value, limit int) (Value, bool, error) {
	items, err := Items(doc, list)
	if err != nil {
		return nil, false, err
	}
	if limit > 0 && len(items) >= limit {
		return doc, false, nil
	}

	next := make([]any, len(items), len(items)+1)
	copy(next, items)
	next = append(next, item)

	updated, err := list.Set(doc, next)
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}

// UpdateItem shallow-merges partial into the object at index. An index out of
// range leaves the document unchanged.
func UpdateItem(doc Value, list Path, index int, partial map[string]any) (Value, error) {
	items, err := Items(doc, list)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return doc, nil
	}

	current, ok := items[index].(map[string]any)
	if !ok && items[index] != nil {
		return nil, validationError(fmt.Sprintf("item %d of list %q is not an object", index, list.String()), nil)
	}

	merged := make(map[string]any, len(current)+len(partial))
	for key, value := range current {
		merged[key] = value
	}
	for key, value := range partial {
		merged[key] = value
	}

	next := make([]any, len(items))
	copy(next, items)
	next[index] = merged
	return list.Set(doc, next)
}

// ReplaceItem stores item at index. An index out of range leaves the document
// unchanged.
func ReplaceItem(doc Value, list Path, index int, item Value) (Value, error) {
	items, err := Items(doc, list)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return doc, nil
	}

	next := make([]any, len(items))
	copy(next, items)
	next[index] = item
	return list.Set(doc, next)
}

// RemoveItem removes the element at index. An index out of range leaves the
// document unchanged.
func RemoveItem(doc Value, list Path, index int) (Value, error) {
	items, err := Items(doc, list)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return doc, nil
	}

	next := make([]any, 0, len(items)-1)
	next = append(next, items[:index]...)
	next = append(next, items[index+1:]...)
	return list.Set(doc, next)
}

// MoveItem removes the element at from and reinserts it at to. Other elements
// keep their relative order. Either index out of range leaves the document
// unchanged.
func MoveItem(doc Value, list Path, from int, to int) (Value, error) {
	items, err := Items(doc, list)
	if err != nil {
		return nil, err
	}
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) || from == to {
		return doc, nil
	}

	moved := items[from]
	next := make([]any, 0, len(items))
	next = append(next, items[:from]...)
	next = append(next, items[from+1:]...)

	next = append(next, nil)
	copy(next[to+1:], next[to:])
	next[to] = moved

	return list.Set(doc, next)
}
