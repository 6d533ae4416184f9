package pool

import (
	"encoding/binary"
	"hash"
	"math/big"

	"go.dedis.ch/dela-pool/core/access"
	"go.dedis.ch/dela-pool/core/bank"
	"go.dedis.ch/dela-pool/crypto"
	"golang.org/x/xerrors"
)

// Entropy is the material available when a round is finalized.
type Entropy struct {
	Seed         []byte
	Pool         ID
	Round        uint64
	Balance      bank.Amount
	Caller       access.Address
	Participants []access.Address
}

// RandomSource selects the index of the winner of a round.
type RandomSource interface {
	// Index returns an index in [0, n).
	Index(e Entropy, n int) (int, error)
}

// HashSource derives the index from a digest of the entropy reduced modulo the
// number of participants. The entropy is observable by the administrator who
// also chooses the seed, so the selection is only as fair as the
// administrator.
//
// - implements pool.RandomSource
type HashSource struct {
	hashFactory crypto.HashFactory
}

// NewHashSource returns a source using Keccak-256.
func NewHashSource() HashSource {
	return HashSource{
		hashFactory: crypto.NewHashFactory(crypto.Keccak256),
	}
}

// Index implements pool.RandomSource.
func (s HashSource) Index(e Entropy, n int) (int, error) {
	if n <= 0 {
		return 0, xerrors.Errorf("invalid range [0, %d)", n)
	}

	h := s.hashFactory.New()

	writeChunk(h, e.Seed)
	writeChunk(h, []byte(e.Pool))

	buffer := make([]byte, 16)
	binary.BigEndian.PutUint64(buffer[:8], e.Round)
	binary.BigEndian.PutUint64(buffer[8:], uint64(e.Balance))
	h.Write(buffer)

	writeChunk(h, []byte(e.Caller))

	for _, p := range e.Participants {
		writeChunk(h, []byte(p))
	}

	digest := new(big.Int).SetBytes(h.Sum(nil))
	digest.Mod(digest, big.NewInt(int64(n)))

	return int(digest.Int64()), nil
}

// writeChunk writes the data prefixed by its length so that two different
// entropies never produce the same stream.
func writeChunk(h hash.Hash, data []byte) {
	size := make([]byte, 4)
	binary.BigEndian.PutUint32(size, uint32(len(data)))

	h.Write(size)
	h.Write(data)
}
