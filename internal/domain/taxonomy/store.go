package taxonomy

import (
	"sync"
)

// Store caches the parsed taxonomy behind a read-write lock so that request
// handlers read it without re-parsing while the watcher swaps in updates.
type Store struct {
	mu   sync.RWMutex
	path string
	tax  *Taxonomy
}

// NewStore loads the taxonomy at path and returns a store ready for reads.
func NewStore(path string) (*Store, error) {
	tax, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, tax: tax}, nil
}

// Current returns the active taxonomy snapshot. The snapshot is immutable;
// callers never see a half-reloaded state.
func (s *Store) Current() *Taxonomy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tax
}

// Path returns the file path the store was loaded from.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the taxonomy file and atomically swaps the snapshot.
// On parse or validation failure the previous snapshot stays active.
func (s *Store) Reload() error {
	tax, err := LoadFile(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tax = tax
	s.mu.Unlock()
	return nil
}
