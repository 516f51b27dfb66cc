package cdp

import "fmt"

// Error of the Response
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

// Error stdlib interface
func (e *Error) Error() string {
	return fmt.Sprintf("%v", *e)
}

// Is stdlib interface, two errors are the same if their code and message are the same
func (e Error) Is(target error) bool {
	err, ok := target.(*Error)
	if !ok {
		return false
	}
	return err.Code == e.Code && err.Message == e.Message
}

// ErrCtxNotFound type
var ErrCtxNotFound = &Error{
	Code:    -32000,
	Message: "Cannot find context with specified id",
}

// ErrCtxDestroyed type
var ErrCtxDestroyed = &Error{
	Code:    -32000,
	Message: "Execution context was destroyed.",
}

// ErrObjNotFound type
var ErrObjNotFound = &Error{
	Code:    -32000,
	Message: "Could not find object with given id",
}

// ErrConnClosed type
type ErrConnClosed struct {
	details error
}

// Error stdlib interface
func (e *ErrConnClosed) Error() string {
	return fmt.Sprintf("cdp connection closed: %v", e.details)
}

// Unwrap stdlib interface
func (e *ErrConnClosed) Unwrap() error {
	return e.details
}
