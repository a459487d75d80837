package tracker

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks a transport-level failure: no response reached the
// client at all. Callers treat this class as full backend unavailability,
// unlike ordinary 4xx/5xx responses.
var ErrUnavailable = errors.New("tracker backend unreachable")

// APIError is a 4xx/5xx response with a decoded backend message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tracker API error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("tracker API error status %d", e.Status)
}
