package report

import (
	"errors"
	"fmt"
)

// LocalCompileError is a compilation error that occurs in a context in which
// the file is known by the error handler and thus doesn't need to be passed
// along with the error.
type LocalCompileError struct {
	// The error message.
	Message string

	// The span over which the error occurs.
	Span *TextSpan

	// The underlying error, if this compile error was produced by wrapping
	// another error.  May be nil.
	Cause error
}

func (lce *LocalCompileError) Error() string {
	if lce.Span == nil {
		return lce.Message
	}

	return fmt.Sprintf("%d:%d: %s", lce.Span.StartLine+1, lce.Span.StartCol+1, lce.Message)
}

func (lce *LocalCompileError) Unwrap() error {
	return lce.Cause
}

// Raise creates a new local compile error.
func Raise(span *TextSpan, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Message: fmt.Sprintf(msg, args...), Span: span}
}

// Wrap attaches a span to an existing error.  If the error is already a local
// compile error with a span, it is returned unchanged so the innermost position
// wins.
func Wrap(span *TextSpan, err error) error {
	if err == nil {
		return nil
	}

	var lce *LocalCompileError
	if errors.As(err, &lce) && lce.Span != nil {
		return err
	}

	return &LocalCompileError{Message: err.Error(), Span: span, Cause: err}
}
