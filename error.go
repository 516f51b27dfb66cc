package fullpage

import (
	"errors"
	"fmt"
)

const (
	// ErrElementNotFound error code
	ErrElementNotFound = "cannot find element"
	// ErrExpectElement error code
	ErrExpectElement = "expect js to return an element"
	// ErrEval error code
	ErrEval = "eval js error"
	// ErrNavigation error code
	ErrNavigation = "navigation failed"
	// ErrScreenshot error code
	ErrScreenshot = "screenshot failed"
)

// Error of the driver, Code is one of the constants above
type Error struct {
	Err     error
	Code    string
	Details interface{}
}

// Error interface
func (e *Error) Error() string {
	if e.Details == nil {
		return "[fullpage] " + e.Code
	}
	return fmt.Sprintf("[fullpage] %s: %v", e.Code, e.Details)
}

// Unwrap interface
func (e *Error) Unwrap() error {
	return e.Err
}

// IsError type matches
func IsError(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
