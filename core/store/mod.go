// Package store defines the primitives of a simple key/value storage.
//
// A missing key is not an error: reading it returns a nil value.
package store

// Readable is the interface for a readable store.
type Readable interface {
	Get(key []byte) ([]byte, error)
}

// Writable is the interface for a writable store.
type Writable interface {
	Set(key []byte, value []byte) error

	Delete(key []byte) error
}

// Snapshot is a state of the store that can be read and write independently. A
// write is applied only to the snapshot reference.
type Snapshot interface {
	Readable
	Writable
}

// Store is a readable store that is updated through stages. A stage is atomic:
// the writes of the snapshot are applied only if the callback returns no
// error, otherwise they are all discarded.
type Store interface {
	Readable

	Stage(fn func(Snapshot) error) error
}
