package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
)

// Normalize converts decoded JSON or YAML values into the canonical document
// value set: map[string]any, []any, string, int64, float64, bool and nil.
func Normalize(value Value) (Value, error) {
	return normalizeValue(value)
}

// DecodeJSON decodes a single JSON value, keeping integer precision, and
// normalizes it. Empty input decodes to nil.
func DecodeJSON(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return nil, validationError("invalid json document", err)
	}
	return normalizeValue(decoded)
}

func normalizeValue(value any) (any, error) {
	switch typed := value.(type) {
	case nil, bool, string, int64:
		return typed, nil
	case float64:
		return normalizeFloat(typed)
	case json.Number:
		return normalizeJSONNumber(typed)
	case []any:
		return normalizeItems(len(typed), func(idx int) any { return typed[idx] })
	case map[string]any:
		normalized := make(map[string]any, len(typed))
		for key, item := range typed {
			itemValue, err := normalizeValue(item)
			if err != nil {
				return nil, err
			}
			normalized[key] = itemValue
		}
		return normalized, nil
	}
	return normalizeReflectValue(reflect.ValueOf(value))
}

func normalizeItems(length int, item func(int) any) ([]any, error) {
	normalized := make([]any, length)
	for idx := range length {
		itemValue, err := normalizeValue(item(idx))
		if err != nil {
			return nil, err
		}
		normalized[idx] = itemValue
	}
	return normalized, nil
}

func normalizeFloat(value float64) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, validationError("document contains non-finite float", nil)
	}
	return value, nil
}

func normalizeUint(value uint64) (int64, error) {
	if value > math.MaxInt64 {
		return 0, validationError("document contains integer out of range", nil)
	}
	return int64(value), nil
}

func normalizeJSONNumber(value json.Number) (any, error) {
	if asInt, err := value.Int64(); err == nil {
		return asInt, nil
	}
	if asBig, ok := new(big.Int).SetString(value.String(), 10); ok {
		if asBig.IsInt64() {
			return asBig.Int64(), nil
		}
		return nil, validationError("document contains integer out of range", nil)
	}

	asFloat, err := value.Float64()
	if err != nil {
		return nil, validationError("document contains invalid number", err)
	}
	return normalizeFloat(asFloat)
}

// normalizeReflectValue handles the remaining numeric kinds and typed maps
// and slices such as map[string]string produced by YAML decoders and callers.
func normalizeReflectValue(value reflect.Value) (any, error) {
	switch {
	case value.CanInt():
		return value.Int(), nil
	case value.CanUint():
		return normalizeUint(value.Uint())
	case value.CanFloat():
		return normalizeFloat(value.Float())
	}

	switch value.Kind() {
	case reflect.Bool:
		return value.Bool(), nil
	case reflect.String:
		return value.String(), nil
	case reflect.Slice, reflect.Array:
		return normalizeItems(value.Len(), func(idx int) any { return value.Index(idx).Interface() })
	case reflect.Map:
		if value.Type().Key().Kind() != reflect.String {
			return nil, validationError("document map keys must be strings", nil)
		}
		normalized := make(map[string]any, value.Len())
		iter := value.MapRange()
		for iter.Next() {
			item, err := normalizeValue(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			normalized[iter.Key().String()] = item
		}
		return normalized, nil
	}
	return nil, validationError(fmt.Sprintf("unsupported document value type %s", value.Type()), nil)
}
