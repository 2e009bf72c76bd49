package terrain

import "errors"

// Kind classifies terrain-pipeline failures.
type Kind int

const (
	KindInvalidConfig Kind = iota
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindInvalidConfig:
		return "InvalidConfig"
	case KindInvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// Error is the error type every fallible terrain operation returns.
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
