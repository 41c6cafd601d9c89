package doc

import "github.com/crmarques/contentdesk/faults"

func notFoundError(message string) error {
	return faults.NewTypedError(faults.NotFoundError, message, nil)
}
