package bank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/dela-pool/core/access"
	"go.dedis.ch/dela-pool/internal/testing/fake"
	"golang.org/x/xerrors"
)

const (
	alice = access.Address("alice")
	bob   = access.Address("bob")
)

func TestBank_BalanceOf(t *testing.T) {
	b := NewBank()
	snap := fake.NewSnapshot()

	balance, err := b.BalanceOf(snap, alice)
	require.NoError(t, err)
	require.Equal(t, Amount(0), balance)

	snap.Set(keyOf(alice), []byte{1, 2})
	_, err = b.BalanceOf(snap, alice)
	require.EqualError(t, err, "invalid balance of 'alice': 2 bytes")

	_, err = b.BalanceOf(fake.NewBadSnapshot(), alice)
	require.EqualError(t, err, fake.Err("failed to read balance of 'alice'"))
}

func TestBank_Mint(t *testing.T) {
	b := NewBank()
	snap := fake.NewSnapshot()

	require.NoError(t, b.Mint(snap, alice, 5))
	require.NoError(t, b.Mint(snap, alice, 7))

	balance, err := b.BalanceOf(snap, alice)
	require.NoError(t, err)
	require.Equal(t, Amount(12), balance)

	err = b.Mint(snap, alice, math.MaxUint64)
	require.EqualError(t, err, "failed to mint: amount overflow: 12 + 18446744073709551615")

	err = b.Mint(fake.NewBadSnapshot(), alice, 1)
	require.EqualError(t, err, fake.Err("failed to read balance of 'alice'"))

	snap = fake.NewSnapshot()
	snap.ErrWrite = fake.GetError()
	err = b.Mint(snap, alice, 1)
	require.EqualError(t, err, fake.Err("failed to write balance of 'alice'"))
}

func TestBank_Transfer(t *testing.T) {
	b := NewBank()
	snap := fake.NewSnapshot()

	require.NoError(t, b.Mint(snap, alice, 10))

	require.NoError(t, b.Transfer(snap, alice, bob, 4))
	requireBalance(t, b, snap, alice, 6)
	requireBalance(t, b, snap, bob, 4)

	require.NoError(t, b.Transfer(snap, alice, bob, 6))
	requireBalance(t, b, snap, alice, 0)
	requireBalance(t, b, snap, bob, 10)

	// An empty balance is removed from the store.
	require.Equal(t, 1, snap.Len())

	err := b.Transfer(snap, alice, bob, 1)
	require.EqualError(t, err, "'alice' has 0, needs 0.000000001: insufficient funds")
	require.True(t, xerrors.Is(err, ErrInsufficientFunds))

	err = b.Transfer(snap, bob, bob, 1)
	require.EqualError(t, err, "transfer to self 'bob'")

	require.NoError(t, b.Mint(snap, alice, math.MaxUint64))
	err = b.Transfer(snap, bob, alice, 1)
	require.EqualError(t, err, "failed to credit: amount overflow: 18446744073709551615 + 1")

	err = b.Transfer(fake.NewBadSnapshot(), alice, bob, 1)
	require.EqualError(t, err, fake.Err("failed to read balance of 'alice'"))
}

// -----------------------------------------------------------------------------
// Utility functions

func requireBalance(t *testing.T, b Bank, snap *fake.InMemorySnapshot, addr access.Address, expected Amount) {
	balance, err := b.BalanceOf(snap, addr)
	require.NoError(t, err)
	require.Equal(t, expected, balance)
}
