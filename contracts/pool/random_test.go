package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/dela-pool/core/access"
	"go.dedis.ch/dela-pool/crypto"
)

func TestHashSource_Index(t *testing.T) {
	src := NewHashSource()

	e := Entropy{
		Seed:         []byte("seed"),
		Pool:         testPool,
		Round:        2,
		Balance:      30,
		Caller:       testAdmin,
		Participants: []access.Address{"alice", "bob", "carol"},
	}

	index, err := src.Index(e, 3)
	require.NoError(t, err)
	require.GreaterOrEqual(t, index, 0)
	require.Less(t, index, 3)

	again, err := src.Index(e, 3)
	require.NoError(t, err)
	require.Equal(t, index, again)

	index, err = src.Index(e, 1)
	require.NoError(t, err)
	require.Equal(t, 0, index)

	_, err = src.Index(e, 0)
	require.EqualError(t, err, "invalid range [0, 0)")

	_, err = src.Index(e, -2)
	require.EqualError(t, err, "invalid range [0, -2)")
}

func TestHashSource_Spread(t *testing.T) {
	src := NewHashSource()

	e := Entropy{
		Pool:         testPool,
		Caller:       testAdmin,
		Participants: []access.Address{"alice", "bob", "carol", "dave"},
	}

	seen := map[int]int{}
	for i := 0; i < 200; i++ {
		e.Seed = []byte{byte(i)}

		index, err := src.Index(e, 4)
		require.NoError(t, err)

		seen[index]++
	}

	// Every participant must be selected by some seeds.
	require.Len(t, seen, 4)
	for _, count := range seen {
		require.Greater(t, count, 10)
	}
}

func TestHashSource_Chunks(t *testing.T) {
	src := HashSource{hashFactory: crypto.NewSha256Factory()}

	// Moving bytes between the seed and the pool identifier must not produce
	// the same digest.
	a := Entropy{Seed: []byte("ab"), Pool: "c"}
	b := Entropy{Seed: []byte("a"), Pool: "bc"}

	digests := map[int]struct{}{}
	for n := 1000003; n < 1000013; n++ {
		ia, err := src.Index(a, n)
		require.NoError(t, err)

		ib, err := src.Index(b, n)
		require.NoError(t, err)

		if ia != ib {
			digests[n] = struct{}{}
		}
	}

	require.NotEmpty(t, digests)
}
