package crypto

import (
	"crypto/rand"

	"golang.org/x/xerrors"
)

// SeedSize is the default size in bytes of a random seed.
const SeedSize = 32

// CryptographicRandomGenerator is cryptographically secure random generator.
//
// - implements crypto.RandGenerator
type CryptographicRandomGenerator struct{}

// Read implements crypto.RandGenerator.
func (CryptographicRandomGenerator) Read(buffer []byte) (int, error) {
	return rand.Read(buffer)
}

// NewSeed returns a seed of the given size filled by the generator. It fails
// if the generator cannot fill the whole buffer.
func NewSeed(gen RandGenerator, size int) ([]byte, error) {
	seed := make([]byte, size)

	n, err := gen.Read(seed)
	if err != nil {
		return nil, xerrors.Errorf("failed to read: %v", err)
	}

	if n != size {
		return nil, xerrors.Errorf("short read: %d < %d", n, size)
	}

	return seed, nil
}
