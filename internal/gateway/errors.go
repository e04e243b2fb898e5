package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired = errors.New("auth_required")
	ErrNotFound     = errors.New("not_found")
	ErrTransport    = errors.New("transport_error")
)

// TransportError carries the status code and body text of a failed call.
// Status 0 means the request never produced an HTTP response.
type TransportError struct {
	Status int
	Detail string
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("transport_error: %s", e.Detail)
	}
	return fmt.Sprintf("transport_error: status %d: %s", e.Status, e.Detail)
}

func (e *TransportError) Unwrap() error {
	return ErrTransport
}
