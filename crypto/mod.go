// Package crypto defines the cryptographic primitives used by the node: hash
// factories and a random generator.
package crypto

import "hash"

// HashFactory is an interface to produce a hash digest.
type HashFactory interface {
	New() hash.Hash
}

// RandGenerator is the interface of a random bytes generator.
type RandGenerator interface {
	Read(buffer []byte) (int, error)
}
