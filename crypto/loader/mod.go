// Package loader defines how the private keys of the accounts are kept on a
// persistent storage. A key is read when it exists, or generated and written
// for the next time.
package loader

// Generator creates the bytes of a new key.
type Generator interface {
	Generate() ([]byte, error)
}

// Loader reads a key from a storage.
type Loader interface {
	// LoadOrCreate returns the stored key, or generates a new one with the
	// generator and stores it when the storage is empty.
	LoadOrCreate(Generator) ([]byte, error)

	// Load returns the stored key, or an error if it does not exist.
	Load() ([]byte, error)
}
