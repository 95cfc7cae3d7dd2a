package processing

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest marks failures that happen before anything is sent: unknown model, missing
// image or an image that cannot be encoded. These are caller errors, not backend errors.
var ErrInvalidRequest = errors.New("invalid detection request")

// ConnectivityError means the backend could not be reached at all: refused connection, DNS,
// timeout or a malformed endpoint.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("failed to connect to detection API: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// ProtocolError means the backend answered, but not with a usable detection.
type ProtocolError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
