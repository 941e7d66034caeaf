package engine

import "errors"

var (
	// ErrSessionNotFound is returned when a session does not exist in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStoreUnavailable wraps storage failures so handlers can distinguish
	// infrastructure errors from missing data.
	ErrStoreUnavailable = errors.New("context store unavailable")
)
