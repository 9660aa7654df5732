package gowick

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation reports a caller contract violation, e.g. an input
// term that is not normal ordered reaching a number-shaped template.
var ErrInvariantViolation = errors.New("invariant violation")

// ParseError is returned for malformed textual notation.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Input, e.Reason)
}

// DataMissingError reports a required term file (or archive entry) that is
// absent or unreadable. Path names the exact location that was requested.
type DataMissingError struct {
	Path string
	Err  error
}

func (e *DataMissingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("data missing: %s", e.Path)
	}
	return fmt.Sprintf("data missing: %s: %v", e.Path, e.Err)
}

func (e *DataMissingError) Unwrap() error { return e.Err }
