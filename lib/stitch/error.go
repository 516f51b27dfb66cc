package stitch

import (
	"errors"
	"fmt"
)

// ErrCapture matches every error returned by Capture, use errors.Is to check it
var ErrCapture = errors.New("full page capture failed")

// Error of a capture step
type Error struct {
	// Op is the step that failed, such as "scroll" or "capture"
	Op string

	// Index of the viewport capture, -1 if the step isn't bound to a capture
	Index int

	Err error
}

func newError(op string, index int, err error) *Error {
	return &Error{Op: op, Index: index, Err: err}
}

// Error interface
func (e *Error) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("[stitch] %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("[stitch] %s #%d: %v", e.Op, e.Index, e.Err)
}

// Unwrap the cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is ErrCapture
func (e *Error) Is(target error) bool {
	return target == ErrCapture
}
