package contentstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrUnavailable means no store is configured or it cannot be reached.
	ErrUnavailable = errors.New("content store unavailable")
	// ErrNotFound means the game does not exist in the store.
	ErrNotFound = errors.New("game not found")
)

// StatusError captures a non-success response from a content store API.
type StatusError struct {
	Store      string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unexpected response"
	}
	return fmt.Sprintf("%s: %s (status=%d)", e.Store, msg, e.StatusCode)
}

// Temporary reports whether retrying may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Throttled reports a rate-limit response.
func (e *StatusError) Throttled() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// AsStatusError unwraps err into a *StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// Retryable reports whether a failed call is worth repeating.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnavailable) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if se, ok := AsStatusError(err); ok {
		return se.Temporary()
	}
	return true
}
