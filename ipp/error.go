/* ippd - a library for building IPP printer servers
 *
 * Operation errors
 */

package ipp

import (
	"errors"
	"fmt"
)

// Error is an operation failure carrying the IPP status code a handler
// wants reflected back to the client, together with a human-readable
// message that becomes the response's status-message attribute.
type Error struct {
	Status Status
	Msg    string
}

// NewError creates an Error with a formatted message.
func NewError(status Status, format string, args ...interface{}) *Error {
	return &Error{Status: status, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Status.String()
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Msg)
}

// AsError unwraps err into an *Error, following fmt.Errorf("...: %w",
// err) wrapping via errors.As, and falling back to StatusErrorInternal
// if nothing in err's chain is one (or err is nil, which shouldn't
// happen — callers are expected to check for nil before calling this).
func AsError(err error) *Error {
	if err == nil {
		return &Error{Status: StatusErrorInternal}
	}
	var ippErr *Error
	if errors.As(err, &ippErr) {
		return ippErr
	}
	return &Error{Status: StatusErrorInternal, Msg: err.Error()}
}
