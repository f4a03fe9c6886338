package entities

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest indicates a client error: missing or empty text.
// Surfaced as HTTP 400, never retried.
var ErrInvalidRequest = errors.New("no text provided")

// UpstreamError indicates the synthesis provider returned non-success,
// the transport failed, or the payload was malformed. Surfaced as HTTP
// 500 with the provider detail attached. The gateway does not retry;
// retry policy belongs to the caller.
type UpstreamError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream synthesis failed: status %d: %s", e.StatusCode, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("upstream synthesis failed: %v", e.Err)
	}
	return fmt.Sprintf("upstream synthesis failed: %s", e.Detail)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StorageError indicates the artifact could not be written or read.
// Fatal for the current request; atomic write discipline guarantees no
// partially-written artifact is ever visible.
type StorageError struct {
	Op   string
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
