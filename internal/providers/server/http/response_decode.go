package http

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/crmarques/contentdesk/document"
	"github.com/crmarques/contentdesk/server"
)

// decodeEnvelope decodes a `{id, values}` body. An empty body or JSON null
// reports found == false.
func decodeEnvelope(body []byte) (server.Record, bool, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return server.Record{}, false, nil
	}

	decoded, err := document.DecodeJSON(body)
	if err != nil {
		return server.Record{}, false, server.NewEnvelopeShapeError("response body is not valid JSON", err)
	}
	if decoded == nil {
		return server.Record{}, false, nil
	}

	envelope, ok := decoded.(map[string]any)
	if !ok {
		return server.Record{}, false, server.NewEnvelopeShapeError(
			fmt.Sprintf("response body must be an object with id and values, got %s", describeJSONType(decoded)),
			nil,
		)
	}

	id, err := envelopeID(envelope["id"])
	if err != nil {
		return server.Record{}, false, err
	}

	record := server.Record{ID: id}
	switch values := envelope["values"].(type) {
	case nil:
	case []any:
		record.Values = make([]document.Value, len(values))
		copy(record.Values, values)
	default:
		return server.Record{}, false, server.NewEnvelopeShapeError(
			fmt.Sprintf("response values must be an array, got %s", describeJSONType(values)),
			nil,
		)
	}

	return record, true, nil
}

func envelopeID(value any) (string, error) {
	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(typed), nil
	case int64:
		return strconv.FormatInt(typed, 10), nil
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), nil
	default:
		return "", server.NewEnvelopeShapeError(
			fmt.Sprintf("response id must be a string or number, got %s", describeJSONType(value)),
			nil,
		)
	}
}

func describeJSONType(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}
