package trend

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories when a record does not exist
var ErrNotFound = errors.New("not found")

// ErrNotConfigured is the AdapterError cause for a requested platform that
// has no adapter wired, usually because its API key is unset.
var ErrNotConfigured = errors.New("platform not configured")

// ValidationError rejects malformed collection options before any fan-out
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AdapterError is a per-platform failure. It is collected into the result,
// never returned to the caller of a collection.
type AdapterError struct {
	Platform Platform
	Source   Source
	Err      error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Platform, e.Source, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
