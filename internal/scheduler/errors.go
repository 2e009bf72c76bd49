// Package scheduler implements the self-correcting fixed-step tick loop
// (C9): per-tick handlers, cadenced subsystems, and serialize/restore.
package scheduler

import "errors"

// Kind classifies a scheduler Error.
type Kind int

const (
	// KindInvalidConfig marks a Config whose Δt_real falls outside [1,60]
	// seconds.
	KindInvalidConfig Kind = iota
	// KindInvalidArgument marks a registerSystem call with a non-positive
	// or non-finite cadence.
	KindInvalidArgument
	// KindDuplicateName marks a registerHandler call reusing a name that
	// is already bound.
	KindDuplicateName
)

func (k Kind) String() string {
	switch k {
	case KindInvalidConfig:
		return "InvalidConfig"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindDuplicateName:
		return "DuplicateName"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every fallible operation in this
// package. Wrap it with errors.As to recover the Kind.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Msg
}

func newError(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

// IsKind reports whether err is an *Error of the given Kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
