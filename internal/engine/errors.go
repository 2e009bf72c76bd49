// Package engine holds the two process-wide singleton slots (C10):
// the live world (terrain generator + tile cache) and the live
// scheduler. Both are option-of-resource: at most one instance of each
// may be live in a process at a time.
package engine

import "errors"

// Kind classifies an engine Error.
type Kind int

const (
	// KindAlreadyInitialized marks an init/start call while the slot is
	// already occupied.
	KindAlreadyInitialized Kind = iota
	// KindNotInitialized marks an access to an empty slot.
	KindNotInitialized
)

func (k Kind) String() string {
	switch k {
	case KindAlreadyInitialized:
		return "AlreadyInitialized"
	case KindNotInitialized:
		return "NotInitialized"
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
