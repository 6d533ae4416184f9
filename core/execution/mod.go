// Package execution defines the service that applies a transaction to a
// snapshot of the store.
package execution

import (
	"go.dedis.ch/dela-pool/core/store"
	"go.dedis.ch/dela-pool/core/txn"
)

// Step is a context of execution. It contains the transactions already
// executed in the same batch and the one to execute.
type Step struct {
	Previous []txn.Transaction
	Current  txn.Transaction
}

// Result is the result of a transaction execution.
type Result struct {
	// Accepted is the success state of the transaction.
	Accepted bool

	// Message gives a change to the execution to explain why a transaction has
	// failed.
	Message string

	// Err is the error returned by the contract when the transaction is
	// rejected. It is not part of the persisted receipt.
	Err error
}

// Service is the execution service that defines the primitives to execute a
// transaction.
type Service interface {
	// Execute must apply the transaction to the snapshot and return the result
	// of it.
	Execute(snap store.Snapshot, step Step) (Result, error)
}
