package loader

import (
	"context"
	"sync"
)

// State is the lifecycle position of a Section.
type State int

const (
	Unloaded State = iota
	Loaded
	FallbackLoaded
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case FallbackLoaded:
		return "fallback"
	default:
		return "unknown"
	}
}

// Terminal reports whether s can no longer change.
func (s State) Terminal() bool {
	return s == Loaded || s == FallbackLoaded
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Section owns the view state of one mounted content section. It moves
// from Unloaded to Loaded or FallbackLoaded exactly once and stays there.
type Section[T any] struct {
	name string
	load func(context.Context) Result[T]

	once  sync.Once
	mu    sync.RWMutex
	value T
	state State
	err   error
}

// NewSection returns an unloaded section that runs load on first Mount.
func NewSection[T any](name string, load func(context.Context) Result[T]) *Section[T] {
	return &Section[T]{name: name, load: load}
}

// Name identifies the section, e.g. "hero".
func (s *Section[T]) Name() string { return s.name }

// Mount runs the load once. Later or concurrent calls block until the
// first completes and return the same terminal state.
func (s *Section[T]) Mount(ctx context.Context) State {
	s.once.Do(func() {
		r := s.load(ctx)
		if !r.State.Terminal() {
			r.State = FallbackLoaded
		}
		s.mu.Lock()
		s.value, s.state, s.err = r.Value, r.State, r.Err
		s.mu.Unlock()
	})
	return s.State()
}

// State returns the current lifecycle state.
func (s *Section[T]) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot returns the held value and its state. Before Mount completes
// the value is the zero value of T.
func (s *Section[T]) Snapshot() (T, State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.state
}

// Err returns the cause of a fallback, or nil.
func (s *Section[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
