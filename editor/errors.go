package editor

import "github.com/crmarques/contentdesk/faults"

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func notFoundError(message string) error {
	return faults.NewTypedError(faults.NotFoundError, message, nil)
}

func conflictError(message string) error {
	return faults.NewTypedError(faults.ConflictError, message, nil)
}
