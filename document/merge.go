package document

import "strings"

// MergeWithDefaults fills remote with values from defaults and returns a
// document with exactly the key shape of defaults.
//
// Leaves fall back to the default when the remote value is missing or nil,
// when a string is blank, or when the remote type does not match the default
// type. Zero numbers, false and empty arrays are kept. Arrays are never
// merged element by element: any remote array replaces the default array.
//
// The result never shares containers with defaults; remote subtrees may be
// reused as-is.
func MergeWithDefaults(remote Value, defaults Value) Value {
	switch typedDefault := defaults.(type) {
	case map[string]any:
		remoteFields, _ := remote.(map[string]any)
		merged := make(map[string]any, len(typedDefault))
		for key, defaultValue := range typedDefault {
			var remoteValue Value
			if remoteFields != nil {
				remoteValue = remoteFields[key]
			}
			merged[key] = MergeWithDefaults(remoteValue, defaultValue)
		}
		return merged
	case []any:
		if remoteItems, ok := remote.([]any); ok {
			return remoteItems
		}
		return Clone(typedDefault)
	case string:
		if remoteText, ok := remote.(string); ok && strings.TrimSpace(remoteText) != "" {
			return remoteText
		}
		return typedDefault
	case bool:
		if remoteFlag, ok := remote.(bool); ok {
			return remoteFlag
		}
		return typedDefault
	case nil:
		return remote
	default:
		if isNumber(typedDefault) {
			if isNumber(remote) {
				return remote
			}
			return typedDefault
		}
		if remote != nil {
			return remote
		}
		return typedDefault
	}
}
