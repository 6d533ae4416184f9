// Package bank implements the accounts of the host environment. Each address
// has a balance of base units stored in the snapshot, and funds are moved with
// transfers.
//
// The bank is the environment primitive used by the contracts to take custody
// of funds and to pay them out.
package bank

import (
	"encoding/binary"
	"math/big"

	"go.dedis.ch/dela-pool/core/access"
	"go.dedis.ch/dela-pool/core/store"
	"golang.org/x/xerrors"
)

const keyPrefix = "bank:"

// ErrInsufficientFunds is returned when the source of a transfer does not have
// enough funds.
var ErrInsufficientFunds = xerrors.New("insufficient funds")

// Bank provides the primitives to read and update the balances in a snapshot.
type Bank struct{}

// NewBank returns a new bank.
func NewBank() Bank {
	return Bank{}
}

// BalanceOf returns the balance of the address. An unknown address has a zero
// balance.
func (Bank) BalanceOf(snap store.Readable, addr access.Address) (Amount, error) {
	value, err := snap.Get(keyOf(addr))
	if err != nil {
		return 0, xerrors.Errorf("failed to read balance of '%s': %v", addr, err)
	}

	if value == nil {
		return 0, nil
	}

	if len(value) != 8 {
		return 0, xerrors.Errorf("invalid balance of '%s': %d bytes", addr, len(value))
	}

	return Amount(binary.LittleEndian.Uint64(value)), nil
}

// Mint credits the address with new funds. It is the faucet of the
// environment.
func (b Bank) Mint(snap store.Snapshot, addr access.Address, amount Amount) error {
	balance, err := b.BalanceOf(snap, addr)
	if err != nil {
		return err
	}

	balance, err = balance.Add(amount)
	if err != nil {
		return xerrors.Errorf("failed to mint: %v", err)
	}

	return b.setBalance(snap, addr, balance)
}

// Transfer moves the amount from one address to the other. It fails with
// ErrInsufficientFunds if the source balance is too low.
func (b Bank) Transfer(snap store.Snapshot, from, to access.Address, amount Amount) error {
	if from == to {
		return xerrors.Errorf("transfer to self '%s'", from)
	}

	src, err := b.BalanceOf(snap, from)
	if err != nil {
		return err
	}

	if src < amount {
		return xerrors.Errorf("'%s' has %s, needs %s: %w", from, src, amount, ErrInsufficientFunds)
	}

	dst, err := b.BalanceOf(snap, to)
	if err != nil {
		return err
	}

	dst, err = dst.Add(amount)
	if err != nil {
		return xerrors.Errorf("failed to credit: %v", err)
	}

	err = b.setBalance(snap, from, src-amount)
	if err != nil {
		return err
	}

	return b.setBalance(snap, to, dst)
}

func (Bank) setBalance(snap store.Snapshot, addr access.Address, amount Amount) error {
	if amount == 0 {
		err := snap.Delete(keyOf(addr))
		if err != nil {
			return xerrors.Errorf("failed to write balance of '%s': %v", addr, err)
		}

		return nil
	}

	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, uint64(amount))

	err := snap.Set(keyOf(addr), buffer)
	if err != nil {
		return xerrors.Errorf("failed to write balance of '%s': %v", addr, err)
	}

	return nil
}

func keyOf(addr access.Address) []byte {
	return []byte(keyPrefix + string(addr))
}

func newBigUint(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
