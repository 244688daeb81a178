package codec

import (
	"fmt"
	"strings"
)

// genericExceptionPath is used when a wire error omits its dotted type path.
const genericExceptionPath = "builtins.Exception"

// CodecError reports a malformed wire payload. It surfaces to the caller as a
// call rejection and is never retried.
type CodecError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	return fmt.Sprintf("codec: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CodecError) Unwrap() error { return e.Err }

// RemoteError is a structured error raised by the callee's method, rebuilt
// from the wire exception payload. It is an expected outcome, not a fault in
// the RPC machinery.
type RemoteError struct {
	Message       string
	Args          []string
	ExceptionType string
	ExceptionPath string
}

// Error implements the error interface.
func (e *RemoteError) Error() string { return e.Message }

// wireError is the JSON shape of a structured exception payload.
type wireError struct {
	Message       string   `json:"message"`
	Args          []string `json:"args,omitempty"`
	ExceptionType string   `json:"exceptionType,omitempty"`
	ExceptionPath string   `json:"exceptionPath,omitempty"`
}

// toRemoteError fills the gaps a sparse wire error leaves: a missing path
// falls back to the generic base-exception path, a missing type name is
// derived from the last dotted path segment, and missing args default to the
// message alone (the original constructor argument).
func (w *wireError) toRemoteError() *RemoteError {
	path := w.ExceptionPath
	if path == "" {
		path = genericExceptionPath
	}
	excType := w.ExceptionType
	if excType == "" {
		segments := strings.Split(path, ".")
		excType = segments[len(segments)-1]
	}
	args := w.Args
	if args == nil {
		args = []string{w.Message}
	}
	return &RemoteError{
		Message:       w.Message,
		Args:          args,
		ExceptionType: excType,
		ExceptionPath: path,
	}
}
