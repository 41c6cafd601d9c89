package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/crmarques/contentdesk/faults"
)

const maxErrorBodySummary = 512

// classifyStatusError maps a failed response to a typed fault. A JSON
// `{"error": "..."}` body becomes the fault message unchanged.
func classifyStatusError(statusCode int, body []byte) error {
	message := serverErrorMessage(body)
	if message == "" {
		message = fmt.Sprintf("remote request failed with status %d: %s", statusCode, summarizeBody(body))
	}
	return faults.NewTypedError(categoryForStatus(statusCode), message, nil)
}

func categoryForStatus(statusCode int) faults.ErrorCategory {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return faults.AuthError
	case statusCode == http.StatusNotFound:
		return faults.NotFoundError
	case statusCode == http.StatusConflict:
		return faults.ConflictError
	case statusCode >= 400 && statusCode < 500:
		return faults.ValidationError
	default:
		return faults.TransportError
	}
}

func serverErrorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}

func summarizeBody(body []byte) string {
	summary := strings.TrimSpace(string(body))
	switch {
	case summary == "":
		return "<empty>"
	case len(summary) > maxErrorBodySummary:
		return summary[:maxErrorBodySummary] + "..."
	}
	return summary
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func transportError(message string, cause error) error {
	return faults.NewTypedError(faults.TransportError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
