package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrMissingToken      = errors.New("session token not found")
	ErrMalformedResponse = errors.New("server response is not valid JSON")
	ErrTransport         = errors.New("backend unreachable")
)

const defaultRemoteMessage = "request failed"

// RemoteError is a non-2xx answer from the backend.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
