package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the identifier was well-formed but no document
	// matches it. Callers map this to 404, never to 400.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidID means the raw identifier does not match the store's
	// identifier format. Callers map this to 400, never to 500.
	ErrInvalidID = errors.New("invalid document id")
)

// ValidationError reports a create payload that is missing required fields.
type ValidationError struct {
	Resource string
	Missing  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: missing required fields %v", e.Resource, e.Missing)
}
