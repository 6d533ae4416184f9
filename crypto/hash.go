package crypto

import (
	"crypto/sha256"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"
)

// HashAlgorithm is the identifier of a hash algorithm.
type HashAlgorithm int

const (
	// Sha256 is used for the identifiers of the transactions.
	Sha256 HashAlgorithm = iota

	// Keccak256 is the legacy Keccak-256 used to derive the randomness of the
	// winner selection.
	Keccak256
)

// String returns the name of the algorithm.
func (a HashAlgorithm) String() string {
	switch a {
	case Sha256:
		return "sha256"
	case Keccak256:
		return "keccak256"
	default:
		return fmt.Sprintf("HashAlgorithm(%d)", int(a))
	}
}

// hashFactory creates the hash of one algorithm.
//
// - implements crypto.HashFactory
type hashFactory struct {
	algo HashAlgorithm
}

// NewSha256Factory returns a factory of SHA-256 hashes.
func NewSha256Factory() HashFactory {
	return hashFactory{algo: Sha256}
}

// NewHashFactory returns a factory of hashes of the algorithm. It panics if
// the algorithm is unknown.
func NewHashFactory(algo HashAlgorithm) HashFactory {
	switch algo {
	case Sha256, Keccak256:
		return hashFactory{algo: algo}
	default:
		panic(fmt.Sprintf("unknown hash algorithm %v", algo))
	}
}

// New implements crypto.HashFactory.
func (f hashFactory) New() hash.Hash {
	if f.algo == Keccak256 {
		return sha3.NewLegacyKeccak256()
	}

	return sha256.New()
}
