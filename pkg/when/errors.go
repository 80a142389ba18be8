package when

import (
	"errors"
	"fmt"
)

var (
	// ErrNonDeterministic is the kind of error raised when a predicate function
	// branches differently on a position that an earlier pass already explored.
	ErrNonDeterministic = errors.New("when expression is non-deterministic")

	// ErrDepthExceeded is the kind of error raised when more than MaxDepth
	// predicates are read along a single execution path.
	ErrDepthExceeded = errors.New("when expression depth exceeded")

	// ErrAccessorMisuse is the kind of error raised when a Context is used with an
	// invalid key, outside of an active compile, or when a Compiler is re-entered.
	ErrAccessorMisuse = errors.New("when accessor misuse")
)

// Error carries the offending key or atom text of a failed compile.
// Kind is one of ErrNonDeterministic, ErrDepthExceeded or ErrAccessorMisuse and
// is matched by errors.Is.
type Error struct {
	Kind   error
	Key    string
	Text   string
	Depth  int
	Reason string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Text != "" {
		msg = fmt.Sprintf("%s at %q (depth %d)", msg, e.Text, e.Depth)
	} else if e.Key != "" {
		msg = fmt.Sprintf("%s for key %q", msg, e.Key)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func misuse(key, reason string) *Error {
	return &Error{Kind: ErrAccessorMisuse, Key: key, Reason: reason}
}

func nonDeterministic(text string, depth int, reason string) *Error {
	return &Error{Kind: ErrNonDeterministic, Text: text, Depth: depth, Reason: reason}
}
