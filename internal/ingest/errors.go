// Package ingest reads feed batches, runs them through the normalizer and
// persists the accepted findings.
package ingest

import (
	"errors"
	"fmt"
)

// Op names the resource an IOFailure concerns.
type Op string

// Fatal I/O operations.
const (
	OpInputUnreadable  Op = "input-unreadable"
	OpOutputUnwritable Op = "output-unwritable"
)

// Input errors.
var (
	ErrMissingURLColumn = errors.New("input header has no url column")
	ErrNoHeader         = errors.New("input has no header row")
)

// IOFailure is a fatal error that aborts the run.
type IOFailure struct {
	Err  error
	Op   Op
	Path string
}

func (e *IOFailure) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOFailure) Unwrap() error {
	return e.Err
}

// IsIOFailure reports whether err carries an IOFailure and returns it.
func IsIOFailure(err error) (*IOFailure, bool) {
	var f *IOFailure
	if errors.As(err, &f) {
		return f, true
	}

	return nil, false
}
