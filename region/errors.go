package region

import (
	"errors"
	"fmt"

	"regionc/ir"
)

// The kinds of automaton errors.
var (
	// ErrArityMismatch indicates a region yielded a different number of values
	// than its branch operation declared.
	ErrArityMismatch = errors.New("arity mismatch")

	// ErrUnexpectedElse indicates an else region was entered out of sequence.
	ErrUnexpectedElse = errors.New("unexpected else")

	// ErrUnexpectedClose indicates a region was closed out of sequence.
	ErrUnexpectedClose = errors.New("unexpected close")

	// ErrUnexpectedYield indicates results were yielded outside of an open
	// region.
	ErrUnexpectedYield = errors.New("unexpected yield")

	// ErrTypeMismatch indicates sibling regions yielded values of different
	// types for the same result.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrMalformedBranch indicates a branch operation was opened with an
	// invalid number of regions.
	ErrMalformedBranch = errors.New("malformed branch")

	// ErrUnsealed indicates a branch operation was left open.
	ErrUnsealed = errors.New("unsealed branch")
)

// AutomatonError is an error raised by an invalid transition of the region
// builder runtime.  It unwraps to its kind.
type AutomatonError struct {
	// Kind must be one of the error kinds above.
	Kind error

	// The branch operation the error occurred on.  This may be nil.
	Op *ir.Operation

	// The region of the operation the error occurred in or -1 if the error did
	// not occur in a region.
	Region int

	Message string
}

func (ae *AutomatonError) Error() string {
	if ae.Region < 0 {
		return fmt.Sprintf("%s: %s", ae.Kind, ae.Message)
	}

	return fmt.Sprintf("%s in region %d: %s", ae.Kind, ae.Region, ae.Message)
}

func (ae *AutomatonError) Unwrap() error {
	return ae.Kind
}

// fail creates a new automaton error.
func fail(kind error, f *frame, msg string, args ...interface{}) *AutomatonError {
	ae := &AutomatonError{Kind: kind, Region: -1, Message: fmt.Sprintf(msg, args...)}
	if f != nil {
		ae.Op = f.op
		ae.Region = f.region
	}

	return ae
}
