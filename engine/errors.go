package engine

import "fmt"

// ValidationError is a local, synchronous rejection: oversized file,
// unsupported media type, malformed script content. It is surfaced to the
// caller inline and never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
