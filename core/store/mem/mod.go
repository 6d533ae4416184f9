// Package mem implements an in-memory store.
//
// A stage is an overlay on top of the committed values. The overlay records
// the updates and the deletions, and is merged into the store only when the
// stage succeeds.
package mem

import (
	"sync"

	"go.dedis.ch/dela-pool/core/store"
)

type item struct {
	value   []byte
	deleted bool
}

// Store is an in-memory implementation of a store.
//
// - implements store.Store
type Store struct {
	sync.RWMutex

	values map[string][]byte
}

// NewStore creates a new empty store.
func NewStore() *Store {
	return &Store{
		values: make(map[string][]byte),
	}
}

// Get implements store.Readable. It returns the committed value of the key, or
// nil if it does not exist.
func (s *Store) Get(key []byte) ([]byte, error) {
	s.RLock()
	defer s.RUnlock()

	return copyOf(s.values[string(key)]), nil
}

// Stage implements store.Store. It runs the callback with an overlay snapshot
// and commits the updates if the callback succeeds. Stages are executed one
// after the other.
func (s *Store) Stage(fn func(store.Snapshot) error) error {
	s.Lock()
	defer s.Unlock()

	overlay := &snapshot{
		parent:  s.values,
		updates: make(map[string]item),
	}

	err := fn(overlay)
	if err != nil {
		return err
	}

	for key, it := range overlay.updates {
		if it.deleted {
			delete(s.values, key)
		} else {
			s.values[key] = it.value
		}
	}

	return nil
}

// Len returns the number of committed keys.
func (s *Store) Len() int {
	s.RLock()
	defer s.RUnlock()

	return len(s.values)
}

// snapshot is the overlay of a stage. It looks up the parent when a key is not
// updated in the overlay.
//
// - implements store.Snapshot
type snapshot struct {
	parent  map[string][]byte
	updates map[string]item
}

// Get implements store.Readable.
func (s *snapshot) Get(key []byte) ([]byte, error) {
	it, found := s.updates[string(key)]
	if found {
		if it.deleted {
			return nil, nil
		}

		return copyOf(it.value), nil
	}

	return copyOf(s.parent[string(key)]), nil
}

// Set implements store.Writable.
func (s *snapshot) Set(key, value []byte) error {
	s.updates[string(key)] = item{value: copyOf(value)}

	return nil
}

// Delete implements store.Writable.
func (s *snapshot) Delete(key []byte) error {
	s.updates[string(key)] = item{deleted: true}

	return nil
}

func copyOf(value []byte) []byte {
	if value == nil {
		return nil
	}

	return append([]byte{}, value...)
}
