package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized matches any server rejection carrying a 401 status. The
// session store treats it the same as every other /auth/me failure, but
// screens may want the distinction for messaging.
var ErrUnauthorized = errors.New("unauthorized")

// RequestError is a rejection reported by the backend: the request reached
// the server and was refused with an envelope message.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected with status %d", e.Status)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 rejections.
func (e *RequestError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == 401
}

// TransientError marks failures that never reached a server decision:
// connection errors, timeouts, malformed responses. The caller may retry
// manually; the client never retries on its own.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a network-level failure rather than a
// server-reported rejection.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
