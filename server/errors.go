package server

import (
	"errors"

	"github.com/crmarques/contentdesk/faults"
)

// EnvelopeShapeError marks a response body that decoded as JSON but is not a
// `{id, values}` envelope.
type EnvelopeShapeError struct {
	err error
}

func (e *EnvelopeShapeError) Error() string {
	if e == nil || e.err == nil {
		return "<nil>"
	}
	return e.err.Error()
}

func (e *EnvelopeShapeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

func NewEnvelopeShapeError(message string, cause error) error {
	return &EnvelopeShapeError{
		err: faults.NewTypedError(faults.ValidationError, message, cause),
	}
}

func IsEnvelopeShapeError(err error) bool {
	var target *EnvelopeShapeError
	return errors.As(err, &target)
}
