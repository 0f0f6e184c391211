package config

import "sync/atomic"

// Store holds the current settings snapshot
type Store struct {
	current atomic.Pointer[Settings]
}

// NewStore creates a store; nil starts from Defaults
func NewStore(s *Settings) *Store {
	if s == nil {
		s = Defaults()
	}
	st := &Store{}
	st.current.Store(s)
	return st
}

// Load returns the current snapshot
func (st *Store) Load() *Settings {
	return st.current.Load()
}

// Configure merges p into the current snapshot and publishes the result.
// Concurrent calls never lose each other's updates.
func (st *Store) Configure(p Patch) *Settings {
	for {
		old := st.current.Load()
		next := old.Apply(p)
		if st.current.CompareAndSwap(old, next) {
			return next
		}
	}
}
