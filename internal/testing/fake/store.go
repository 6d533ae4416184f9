package fake

import (
	"go.dedis.ch/dela-pool/core/store"
)

// InMemorySnapshot is a fake implementation of a store snapshot.
//
// - implements store.Snapshot
type InMemorySnapshot struct {
	store.Snapshot

	values    map[string][]byte
	ErrRead   error
	ErrWrite  error
	ErrDelete error
}

// NewSnapshot creates a new empty snapshot.
func NewSnapshot() *InMemorySnapshot {
	return &InMemorySnapshot{
		values: make(map[string][]byte),
	}
}

// NewBadSnapshot creates a new empty snapshot that will always return an error.
func NewBadSnapshot() *InMemorySnapshot {
	return &InMemorySnapshot{
		values:    make(map[string][]byte),
		ErrRead:   fakeErr,
		ErrWrite:  fakeErr,
		ErrDelete: fakeErr,
	}
}

// Get implements store.Snapshot.
func (snap *InMemorySnapshot) Get(key []byte) ([]byte, error) {
	return snap.values[string(key)], snap.ErrRead
}

// Set implements store.Snapshot.
func (snap *InMemorySnapshot) Set(key, value []byte) error {
	snap.values[string(key)] = value

	return snap.ErrWrite
}

// Delete implements store.Snapshot.
func (snap *InMemorySnapshot) Delete(key []byte) error {
	delete(snap.values, string(key))

	return snap.ErrDelete
}

// Len returns the number of keys in the snapshot.
func (snap *InMemorySnapshot) Len() int {
	return len(snap.values)
}

// Store is a fake implementation of a store.Store where every stage is run on
// the same snapshot, and discarded writes are not rolled back.
//
// - implements store.Store
type Store struct {
	Snapshot *InMemorySnapshot
	err      error
}

// NewStore returns a fake store backed by an empty snapshot.
func NewStore() *Store {
	return &Store{Snapshot: NewSnapshot()}
}

// NewBadStore returns a fake store that fails to stage.
func NewBadStore() *Store {
	return &Store{Snapshot: NewSnapshot(), err: fakeErr}
}

// Get implements store.Readable.
func (s *Store) Get(key []byte) ([]byte, error) {
	return s.Snapshot.Get(key)
}

// Stage implements store.Store.
func (s *Store) Stage(fn func(store.Snapshot) error) error {
	if s.err != nil {
		return s.err
	}

	return fn(s.Snapshot)
}
