package document

import (
	"encoding/json"

	"github.com/crmarques/contentdesk/faults"
)

type Value = any

// Clone returns a deep copy of maps and slices in value. Scalars are shared.
func Clone(value Value) Value {
	switch typed := value.(type) {
	case map[string]any:
		copied := make(map[string]any, len(typed))
		for key, item := range typed {
			copied[key] = Clone(item)
		}
		return copied
	case []any:
		copied := make([]any, len(typed))
		for idx := range typed {
			copied[idx] = Clone(typed[idx])
		}
		return copied
	default:
		return typed
	}
}

// Equal compares two documents by their canonical JSON encoding.
func Equal(a Value, b Value) bool {
	encodedA, err := json.Marshal(a)
	if err != nil {
		return false
	}
	encodedB, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(encodedA) == string(encodedB)
}

func isNumber(value Value) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	default:
		return false
	}
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}
