package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an id has no record upstream.
var ErrNotFound = errors.New("not found")

// TransportError reports that a backend could not be reached or answered
// with an unexpected status. StatusCode is 0 for network-level failures.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err wraps a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
