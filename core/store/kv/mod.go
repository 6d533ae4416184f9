// Package kv defines the abstraction for a key/value database.
//
// The package also implements a default database using bbolt as the engine
// (https://github.com/etcd-io/bbolt), and a store.Store backed by one bucket
// of such a database.
package kv

// Bucket is the set of operations available on a bucket during a transaction.
type Bucket interface {
	// Get returns the value of the key, or nil if the key does not exist. The
	// value is only valid during the transaction.
	Get(key []byte) []byte

	// Set assigns the value to the key.
	Set(key, value []byte) error

	// Delete removes the key.
	Delete(key []byte) error
}

// DB is a key/value database divided in buckets.
type DB interface {
	// View executes the read-only transaction in the context of the bucket. It
	// returns an error if the bucket does not exist.
	View(bucket []byte, fn func(Bucket) error) error

	// Update executes the writable transaction in the context of the bucket,
	// which is created if necessary. The transaction is rolled back when the
	// callback returns an error.
	Update(bucket []byte, fn func(Bucket) error) error

	// Close releases the database.
	Close() error
}
