package rng

import "fmt"

// Stream is a named, forkable PRNG derived from a manager's master seed.
// Every operation except Fork mutates prngState; Fork derives a new
// stream purely from (originalSeed, label), never touching prngState, so
// forking is independent of how far the parent has advanced.
type Stream struct {
	originalSeed uint32
	prngState    uint32
	label        string
}

// StreamState is the JSON-compatible serialized form of a Stream:
// RngStreamState in the external-interfaces contract.
type StreamState struct {
	OriginalSeed uint32 `json:"originalSeed"`
	PrngState    struct {
		State uint32 `json:"state"`
	} `json:"prngState"`
}

// newStream builds a stream whose prngState starts equal to its seed.
func newStream(seed uint32, label string) *Stream {
	return &Stream{originalSeed: seed, prngState: seed, label: label}
}

// Label returns the diagnostic name the stream was created or forked
// with.
func (s *Stream) Label() string {
	return s.label
}

// NextUint32 advances the stream and returns the raw 32-bit output.
func (s *Stream) NextUint32() uint32 {
	result, newState := NextUint32(s.prngState)
	s.prngState = newState
	return result
}

// Float returns a float64 in [0, 1).
func (s *Stream) Float() float64 {
	return float64(s.NextUint32()) / 4294967296.0
}

// Int returns an integer in [min, max). min must be strictly less than
// max or InvalidArgument is returned.
func (s *Stream) Int(min, max int64) (int64, error) {
	if min >= max {
		return 0, newError(KindInvalidArgument, fmt.Sprintf("int: min %d must be < max %d", min, max))
	}
	span := float64(max - min)
	return min + int64(s.Float()*span), nil
}

// Bool returns true with probability p, which must lie in [0, 1].
func (s *Stream) Bool(p float64) (bool, error) {
	if p < 0 || p > 1 {
		return false, newError(KindInvalidArgument, fmt.Sprintf("bool: p %v outside [0,1]", p))
	}
	return s.Float() < p, nil
}

// Pick returns a uniformly random element of arr, which must be
// non-empty.
func Pick[T any](s *Stream, arr []T) (T, error) {
	var zero T
	if len(arr) == 0 {
		return zero, newError(KindInvalidArgument, "pick: array is empty")
	}
	idx, err := s.Int(0, int64(len(arr)))
	if err != nil {
		return zero, err
	}
	return arr[idx], nil
}

// Shuffle returns a new slice holding a Fisher-Yates permutation of arr.
// The input is never mutated.
func Shuffle[T any](s *Stream, arr []T) []T {
	out := make([]T, len(arr))
	copy(out, arr)
	for i := len(out) - 1; i >= 1; i-- {
		// int(0, i+1) never errors: i+1 >= 2 > 0 whenever this loop runs.
		j, _ := s.Int(0, int64(i)+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Fork derives a new, independent stream from this stream's original
// seed and a label, ignoring the current prngState entirely. Forking
// twice with the same label from streams sharing an originalSeed always
// produces the same child, regardless of how much either parent has
// advanced.
func (s *Stream) Fork(label string) *Stream {
	childSeed := CombineSeed(s.originalSeed, LabelSeed(label))
	return newStream(childSeed, label)
}

// GetState snapshots the stream for serialization.
func (s *Stream) GetState() StreamState {
	var st StreamState
	st.OriginalSeed = s.originalSeed
	st.PrngState.State = s.prngState
	return st
}

// SetState restores prngState from a previously captured StreamState.
// The embedded originalSeed must match this stream's, else
// StateMismatch is returned and the stream is left untouched.
func (s *Stream) SetState(state StreamState) error {
	if state.OriginalSeed != s.originalSeed {
		return newError(KindStateMismatch, fmt.Sprintf("stream %q: stored originalSeed %d does not match %d", s.label, state.OriginalSeed, s.originalSeed))
	}
	s.prngState = state.PrngState.State
	return nil
}
