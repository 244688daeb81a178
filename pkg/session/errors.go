package session

import "fmt"

// ConnectionError reports that the transport could not be established or the
// session is unusable. Not retried internally; the caller owns retry policy.
type ConnectionError struct {
	Err error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("session: connection error: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConnectionError) Unwrap() error { return e.Err }

// ConnectionClosedError reports a session closed before or while a call was
// in flight. Every pending call at close time settles with this error.
type ConnectionClosedError struct{}

// Error implements the error interface.
func (e *ConnectionClosedError) Error() string {
	return "session: connection closed"
}
