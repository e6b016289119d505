package api

import (
	"errors"
	"fmt"
)

// ErrSessionExpired marks a response the wrapper intercepted because the
// backend reported an expired or invalid session. By the time a caller sees
// it, the session store has already been cleared and the expiry handler has
// run; views must not surface it as a normal error.
var ErrSessionExpired = errors.New("session expired")

// Error is a request failure the caller handles itself: a non-2xx status
// with the server-provided message when one was present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsNotFound reports whether err is a 404-class request failure.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == 404
}
