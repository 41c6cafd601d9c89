package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a nested field as a sequence of segments. Numeric segments
// index arrays. A Path is parsed once and reused for every read and write.
type Path []string

// ParsePath parses a dot-separated path such as "theme.accentColor" or
// "features.2.label". The empty string addresses the document root.
func ParsePath(raw string) (Path, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Path{}, nil
	}

	segments := strings.Split(trimmed, ".")
	for idx, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			return nil, validationError(fmt.Sprintf("path %q contains an empty segment", raw), nil)
		}
		segments[idx] = segment
	}
	return Path(segments), nil
}

// MustPath is ParsePath for literals known to be valid.
func MustPath(raw string) Path {
	path, err := ParsePath(raw)
	if err != nil {
		panic(err)
	}
	return path
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

func (p Path) IsRoot() bool {
	return len(p) == 0
}

func (p Path) Child(segment string) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, segment)
}

func (p Path) Index(index int) Path {
	return p.Child(strconv.Itoa(index))
}

// Join appends rel to p.
func (p Path) Join(rel Path) Path {
	next := make(Path, 0, len(p)+len(rel))
	next = append(next, p...)
	return append(next, rel...)
}

// Get returns the value at p. Missing segments, out-of-range indexes and
// scalars in the way all report false.
func (p Path) Get(doc Value) (Value, bool) {
	current := doc
	for _, segment := range p {
		switch typed := current.(type) {
		case map[string]any:
			item, found := typed[segment]
			if !found {
				return nil, false
			}
			current = item
		case []any:
			index, ok := parseArrayIndex(segment)
			if !ok || index >= len(typed) {
				return nil, false
			}
			current = typed[index]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set returns a copy of doc with value stored at p. Missing object segments
// are created; array segments are never created or grown.
func (p Path) Set(doc Value, value Value) (Value, error) {
	return p.Update(doc, func(Value, bool) (Value, error) {
		return value, nil
	})
}

// Update replaces the value at p with the result of fn, which receives the
// current value and whether it exists. Only containers along p are copied.
func (p Path) Update(doc Value, fn func(current Value, exists bool) (Value, error)) (Value, error) {
	return updateAt(doc, p, 0, fn)
}

func updateAt(node Value, path Path, depth int, fn func(Value, bool) (Value, error)) (Value, error) {
	if depth == len(path) {
		return fn(node, depth > 0 || node != nil)
	}

	segment := path[depth]
	switch typed := node.(type) {
	case nil:
		child, err := updateMissing(path, depth+1, fn)
		if err != nil {
			return nil, err
		}
		return map[string]any{segment: child}, nil
	case map[string]any:
		var (
			child Value
			err   error
		)
		if current, found := typed[segment]; found {
			child, err = updateAt(current, path, depth+1, fn)
		} else {
			child, err = updateMissing(path, depth+1, fn)
		}
		if err != nil {
			return nil, err
		}
		copied := make(map[string]any, len(typed)+1)
		for key, item := range typed {
			copied[key] = item
		}
		copied[segment] = child
		return copied, nil
	case []any:
		index, ok := parseArrayIndex(segment)
		if !ok {
			return nil, validationError(
				fmt.Sprintf("path %q expects an array index at segment %q", path.String(), segment),
				nil,
			)
		}
		if index >= len(typed) {
			return nil, validationError(
				fmt.Sprintf("path %q index %d is out of range for array of length %d", path.String(), index, len(typed)),
				nil,
			)
		}
		child, err := updateAt(typed[index], path, depth+1, fn)
		if err != nil {
			return nil, err
		}
		copied := make([]any, len(typed))
		copy(copied, typed)
		copied[index] = child
		return copied, nil
	default:
		return nil, validationError(
			fmt.Sprintf("path %q cannot descend into a scalar value at segment %q", path.String(), segment),
			nil,
		)
	}
}

// updateMissing builds the object chain for a path suffix that does not exist.
func updateMissing(path Path, depth int, fn func(Value, bool) (Value, error)) (Value, error) {
	if depth == len(path) {
		return fn(nil, false)
	}
	child, err := updateMissing(path, depth+1, fn)
	if err != nil {
		return nil, err
	}
	return map[string]any{path[depth]: child}, nil
}

func parseArrayIndex(value string) (int, bool) {
	if value == "" {
		return 0, false
	}

	for _, char := range value {
		if char < '0' || char > '9' {
			return 0, false
		}
	}

	index, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return index, true
}

// Get reads the value at a dot-separated path.
func Get(doc Value, path string) (Value, bool) {
	parsed, err := ParsePath(path)
	if err != nil {
		return nil, false
	}
	return parsed.Get(doc)
}

// Set writes value at a dot-separated path and returns the new document.
func Set(doc Value, path string, value Value) (Value, error) {
	parsed, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return parsed.Set(doc, value)
}
