// Package ordering defines the interface of the ordering service. The
// high-level purpose of this service is to order the transactions and to apply
// them one after each other to the state of the node.
package ordering

import (
	"context"

	"go.dedis.ch/dela-pool/core/access"
	"go.dedis.ch/dela-pool/core/execution"
	"go.dedis.ch/dela-pool/core/store"
	"go.dedis.ch/dela-pool/core/txn"
)

// Event is the event sent every time a transaction has been processed.
type Event struct {
	// Index is the number of accepted transactions so far.
	Index uint64

	TxID     []byte
	Accepted bool
	Message  string
}

// Service is the interface of an ordering service. It provides the primitives
// to submit transactions and to read the resulting state.
type Service interface {
	// Submit orders the transaction and executes it. The result tells if the
	// transaction has been accepted, otherwise none of its writes are applied.
	Submit(ctx context.Context, tx txn.Transaction) (execution.Result, error)

	// Read calls the function with a read-only view of the current state.
	Read(fn func(store.Readable) error) error

	// GetNonce returns the nonce expected for the next transaction of the
	// identity.
	GetNonce(ident access.Identity) (uint64, error)

	// Watch returns a channel populated with the events until the context is
	// done, after which the channel is closed.
	Watch(ctx context.Context) <-chan Event
}
