// Package txn defines the transactions submitted to the ordering service.
//
// A transaction is the input of a contract call. It is identified by a digest
// of its content, and the nonce orders the transactions of one identity, which
// is the caller of the contract.
package txn

import (
	"io"

	"go.dedis.ch/dela-pool/core/access"
)

// Transaction is the input of a contract execution.
type Transaction interface {
	// GetID returns the digest that identifies the transaction.
	GetID() []byte

	// GetNonce returns the sequence number of the transaction among the ones of
	// its identity.
	GetNonce() uint64

	// GetIdentity returns the caller.
	GetIdentity() access.Identity

	// GetArg returns the value of the argument, or nil if it is not set.
	GetArg(key string) []byte

	// Fingerprint writes a deterministic binary representation of the
	// transaction.
	Fingerprint(w io.Writer) error
}

// Arg is an argument of a transaction.
type Arg struct {
	Key   string
	Value []byte
}

// Manager creates the transactions of one identity with consecutive nonces.
type Manager interface {
	// Make returns a transaction with the arguments and the next nonce.
	Make(args ...Arg) (Transaction, error)

	// Sync fetches the next nonce of the identity.
	Sync() error
}
