package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a stored key or saved query does not exist.
var ErrNotFound = errors.New("not found")

// ParseError reports malformed input: an uploaded file or a corrupted
// persisted payload.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports invalid caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// GenerationError reports a broken invariant while synthesising records.
type GenerationError struct {
	Index  int
	Reason string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate record %d: %s", e.Index, e.Reason)
}
