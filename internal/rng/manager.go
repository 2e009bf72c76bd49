package rng

import (
	"fmt"
	"sort"
	"sync"
)

// Manager owns a master seed and memoizes named streams derived from it.
// Calling Stream(name) twice with the same name returns the same
// *Stream instance; every new name derives a fresh stream via
// combineSeed(masterSeed, hashString(name)).
type Manager struct {
	mu         sync.Mutex
	masterSeed uint32
	streams    map[string]*Stream
}

// State is the JSON-compatible serialized form of a Manager: RngState in
// the external-interfaces contract.
type State struct {
	MasterSeed uint32                 `json:"masterSeed"`
	Streams    map[string]StreamState `json:"streams"`
}

// NewManager creates a manager rooted at masterSeed. seed is validated
// as a finite value before truncation.
func NewManager(masterSeed float64) (*Manager, error) {
	if err := ValidateSeed(masterSeed); err != nil {
		return nil, err
	}
	return &Manager{
		masterSeed: uint32(int64(masterSeed)),
		streams:    make(map[string]*Stream),
	}, nil
}

// NewManagerFromSeed builds a manager directly from an already-truncated
// 32-bit master seed, for callers deriving one manager's seed from
// another component's state.
func NewManagerFromSeed(masterSeed uint32) *Manager {
	return &Manager{masterSeed: masterSeed, streams: make(map[string]*Stream)}
}

// MasterSeed returns the manager's root seed.
func (m *Manager) MasterSeed() uint32 {
	return m.masterSeed
}

// Stream returns the named stream, creating and memoizing it on first
// use.
func (m *Manager) Stream(name string) *Stream {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.streams[name]; ok {
		return s
	}
	seed := CombineSeed(m.masterSeed, HashString(name))
	s := newStream(seed, name)
	m.streams[name] = s
	return s
}

// GetState snapshots the master seed and every memoized stream.
func (m *Manager) GetState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	streams := make(map[string]StreamState, len(m.streams))
	for name, s := range m.streams {
		streams[name] = s.GetState()
	}
	return State{MasterSeed: m.masterSeed, Streams: streams}
}

// LoadState restores memoized streams from a previously captured State.
// The stored masterSeed must equal the manager's, else StateMismatch is
// returned and the manager is left untouched. Streams present in state
// but not yet memoized are created; streams already memoized have their
// state overwritten.
func (m *Manager) LoadState(state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state.MasterSeed != m.masterSeed {
		return newError(KindStateMismatch, fmt.Sprintf("manager: stored masterSeed %d does not match %d", state.MasterSeed, m.masterSeed))
	}
	names := make([]string, 0, len(state.Streams))
	for name := range state.Streams {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ss := state.Streams[name]
		s, ok := m.streams[name]
		if !ok {
			s = newStream(ss.OriginalSeed, name)
			m.streams[name] = s
		}
		if err := s.SetState(ss); err != nil {
			return err
		}
	}
	return nil
}
