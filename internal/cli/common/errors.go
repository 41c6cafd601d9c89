package common

import (
	"github.com/crmarques/contentdesk/faults"
)

func ValidationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

// LimitError reports an edit refused because the site plan caps a list.
func LimitError(message string) error {
	return faults.NewTypedError(faults.LimitError, message, nil)
}
