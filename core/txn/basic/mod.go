// Package basic is an implementation of the transaction abstraction where the
// caller is declared by the transaction itself.
//
// Authenticating the caller is the responsibility of the environment that
// submits the transaction. The nonce is a monotonically increasing number per
// identity that prevents a replay of an existing transaction.
package basic

import (
	"encoding/binary"
	"io"
	"sort"

	"go.dedis.ch/dela-pool/core/access"
	"go.dedis.ch/dela-pool/core/txn"
	"go.dedis.ch/dela-pool/crypto"
	"golang.org/x/xerrors"
)

// Transaction is a transaction emitted by an identity.
//
// - implements txn.Transaction
type Transaction struct {
	nonce    uint64
	args     map[string][]byte
	identity access.Identity
	hash     []byte
}

type template struct {
	Transaction

	hashFactory crypto.HashFactory
}

// TransactionOption is the type of options to create a transaction.
type TransactionOption func(*template)

// WithArg is an option to set an argument with the key and the value.
func WithArg(key string, value []byte) TransactionOption {
	return func(tmpl *template) {
		tmpl.args[key] = value
	}
}

// WithHashFactory is an option to set a different hash factory when creating a
// transaction.
func WithHashFactory(f crypto.HashFactory) TransactionOption {
	return func(tmpl *template) {
		tmpl.hashFactory = f
	}
}

// NewTransaction creates a new transaction with the provided nonce.
func NewTransaction(nonce uint64, ident access.Identity, opts ...TransactionOption) (*Transaction, error) {
	if ident == nil {
		return nil, xerrors.New("missing identity")
	}

	tmpl := template{
		Transaction: Transaction{
			nonce:    nonce,
			identity: ident,
			args:     make(map[string][]byte),
		},
		hashFactory: crypto.NewSha256Factory(),
	}

	for _, opt := range opts {
		opt(&tmpl)
	}

	h := tmpl.hashFactory.New()
	err := tmpl.Fingerprint(h)
	if err != nil {
		return nil, xerrors.Errorf("couldn't fingerprint tx: %v", err)
	}

	tmpl.hash = h.Sum(nil)

	return &tmpl.Transaction, nil
}

// GetID implements txn.Transaction. It returns the ID of the transaction.
func (t *Transaction) GetID() []byte {
	return t.hash
}

// GetNonce implements txn.Transaction. It returns the nonce of the transaction.
func (t *Transaction) GetNonce() uint64 {
	return t.nonce
}

// GetIdentity implements txn.Transaction. It returns the identity that emitted
// the transaction.
func (t *Transaction) GetIdentity() access.Identity {
	return t.identity
}

// GetArgs returns the sorted list of arguments available.
func (t *Transaction) GetArgs() []string {
	args := make([]string, 0, len(t.args))
	for key := range t.args {
		args = append(args, key)
	}

	sort.Strings(args)

	return args
}

// GetArg implements txn.Transaction. It returns the value of the argument if it
// is set, otherwise nil.
func (t *Transaction) GetArg(key string) []byte {
	return t.args[key]
}

// Fingerprint implements txn.Transaction. It writes a deterministic binary
// representation of the transaction.
func (t *Transaction) Fingerprint(w io.Writer) error {
	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, t.nonce)

	_, err := w.Write(buffer)
	if err != nil {
		return xerrors.Errorf("couldn't write nonce: %v", err)
	}

	for _, key := range t.GetArgs() {
		err = writeChunk(w, []byte(key))
		if err != nil {
			return xerrors.Errorf("couldn't write arg: %v", err)
		}

		err = writeChunk(w, t.args[key])
		if err != nil {
			return xerrors.Errorf("couldn't write arg: %v", err)
		}
	}

	text, err := t.identity.MarshalText()
	if err != nil {
		return xerrors.Errorf("failed to marshal identity: %v", err)
	}

	err = writeChunk(w, text)
	if err != nil {
		return xerrors.Errorf("couldn't write identity: %v", err)
	}

	return nil
}

// writeChunk writes the data prefixed with its length so that two different
// lists of chunks never produce the same output.
func writeChunk(w io.Writer, data []byte) error {
	size := make([]byte, 4)
	binary.LittleEndian.PutUint32(size, uint32(len(data)))

	_, err := w.Write(append(size, data...))

	return err
}

// Manager is a transaction manager for a single identity. It keeps track of
// the nonce so that the transactions are created in sequence.
//
// - implements txn.Manager
type Manager struct {
	identity access.Identity
	nonce    uint64
	client   Client
}

// Client is the interface the manager is using to learn the next nonce of an
// identity.
type Client interface {
	GetNonce(access.Identity) (uint64, error)
}

// NewManager creates a new transaction manager.
func NewManager(ident access.Identity, client Client) *Manager {
	return &Manager{
		identity: ident,
		client:   client,
	}
}

// Make implements txn.Manager. It creates a transaction with the given
// arguments and increments the nonce.
func (mgr *Manager) Make(args ...txn.Arg) (txn.Transaction, error) {
	opts := make([]TransactionOption, len(args))
	for i, arg := range args {
		opts[i] = WithArg(arg.Key, arg.Value)
	}

	tx, err := NewTransaction(mgr.nonce, mgr.identity, opts...)
	if err != nil {
		return nil, xerrors.Errorf("failed to create tx: %v", err)
	}

	mgr.nonce++

	return tx, nil
}

// Sync implements txn.Manager. It fetches the latest nonce of the identity.
func (mgr *Manager) Sync() error {
	nonce, err := mgr.client.GetNonce(mgr.identity)
	if err != nil {
		return xerrors.Errorf("client: %v", err)
	}

	mgr.nonce = nonce

	return nil
}
