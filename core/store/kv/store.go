package kv

import (
	"sync"

	"go.dedis.ch/dela-pool/core/store"
	"golang.org/x/xerrors"
)

// Store is a store persisted in a single bucket of a database. A stage is a
// database update transaction, therefore it is either fully committed or
// fully rolled back.
//
// - implements store.Store
type Store struct {
	sync.Mutex

	db     DB
	bucket []byte
}

// NewStore returns a store that uses the given bucket of the database. The
// bucket is created if it does not exist yet.
func NewStore(db DB, bucket []byte) (*Store, error) {
	err := db.Update(bucket, func(Bucket) error { return nil })
	if err != nil {
		return nil, xerrors.Errorf("failed to create bucket: %v", err)
	}

	s := &Store{
		db:     db,
		bucket: bucket,
	}

	return s, nil
}

// Get implements store.Readable. It returns a copy of the value stored for the
// key, or nil if it does not exist.
func (s *Store) Get(key []byte) ([]byte, error) {
	var value []byte

	err := s.db.View(s.bucket, func(b Bucket) error {
		value = copyOf(b.Get(key))
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to read db: %v", err)
	}

	return value, nil
}

// Stage implements store.Store. It runs the callback inside an update
// transaction. Stages are executed one after the other.
func (s *Store) Stage(fn func(store.Snapshot) error) error {
	s.Lock()
	defer s.Unlock()

	return s.db.Update(s.bucket, func(b Bucket) error {
		return fn(bucketSnapshot{bucket: b})
	})
}

// bucketSnapshot is the adapter of a bucket to a snapshot.
//
// - implements store.Snapshot
type bucketSnapshot struct {
	bucket Bucket
}

// Get implements store.Readable.
func (snap bucketSnapshot) Get(key []byte) ([]byte, error) {
	return copyOf(snap.bucket.Get(key)), nil
}

// Set implements store.Writable.
func (snap bucketSnapshot) Set(key, value []byte) error {
	err := snap.bucket.Set(key, value)
	if err != nil {
		return xerrors.Errorf("failed to set key '%x': %v", key, err)
	}

	return nil
}

// Delete implements store.Writable.
func (snap bucketSnapshot) Delete(key []byte) error {
	err := snap.bucket.Delete(key)
	if err != nil {
		return xerrors.Errorf("failed to delete key '%x': %v", key, err)
	}

	return nil
}

func copyOf(value []byte) []byte {
	if value == nil {
		return nil
	}

	return append([]byte{}, value...)
}
