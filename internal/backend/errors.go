package backend

import (
	"errors"
	"fmt"
)

// ErrUnreachable indicates the inference server could not be reached
// (connection refused, DNS failure, or response-header timeout).
var ErrUnreachable = errors.New("backend unreachable")

// StatusError indicates the server answered with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: HTTP %d", e.Code)
}

// AsStatusError extracts a StatusError from an error chain.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
