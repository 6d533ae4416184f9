package kv

import (
	"os"
	"time"

	"go.etcd.io/bbolt"
	"golang.org/x/xerrors"
)

const defaultFileMode os.FileMode = 0600

type options struct {
	timeout time.Duration
	mode    os.FileMode
}

// Option is the type of options to open a database.
type Option func(*options)

// WithTimeout sets the time to wait for the lock of the database file. Without
// it, opening a file already opened by another process blocks until the file
// is released.
func WithTimeout(d time.Duration) Option {
	return func(opts *options) {
		opts.timeout = d
	}
}

// WithFileMode sets the permissions of the database file when it is created.
func WithFileMode(mode os.FileMode) Option {
	return func(opts *options) {
		opts.mode = mode
	}
}

// boltDB is the adapter of a bbolt database.
//
// - implements kv.DB
type boltDB struct {
	bolt *bbolt.DB
}

// New opens the database stored in the file, which is created if necessary.
func New(path string, opts ...Option) (DB, error) {
	tmpl := options{
		mode: defaultFileMode,
	}

	for _, opt := range opts {
		opt(&tmpl)
	}

	db, err := bbolt.Open(path, tmpl.mode, &bbolt.Options{Timeout: tmpl.timeout})
	if err != nil {
		return nil, xerrors.Errorf("failed to open db: %v", err)
	}

	return boltDB{bolt: db}, nil
}

// View implements kv.DB.
func (db boltDB) View(name []byte, fn func(Bucket) error) error {
	return db.bolt.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(name)
		if bucket == nil {
			return xerrors.Errorf("bucket '%x' not found", name)
		}

		return fn(boltBucket{Bucket: bucket})
	})
}

// Update implements kv.DB.
func (db boltDB) Update(name []byte, fn func(Bucket) error) error {
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(name)
		if err != nil {
			return xerrors.Errorf("failed to create bucket: %v", err)
		}

		return fn(boltBucket{Bucket: bucket})
	})
}

// Close implements kv.DB. Any transaction fails after the database is closed.
func (db boltDB) Close() error {
	return db.bolt.Close()
}

// boltBucket is the adapter of a bbolt bucket.
//
// - implements kv.Bucket
type boltBucket struct {
	*bbolt.Bucket
}

// Set implements kv.Bucket.
func (b boltBucket) Set(key, value []byte) error {
	return b.Put(key, value)
}
