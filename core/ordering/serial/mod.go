// Package serial implements an ordering service that processes the
// transactions of a single node one after each other.
//
// Every transaction is executed inside a stage of the store so that its
// writes are applied only if it is accepted. A transaction must use the nonce
// expected for its identity, which is incremented every time one of its
// transactions is accepted.
package serial

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/rs/zerolog"
	"go.dedis.ch/dela-pool"
	"go.dedis.ch/dela-pool/core"
	"go.dedis.ch/dela-pool/core/access"
	"go.dedis.ch/dela-pool/core/execution"
	"go.dedis.ch/dela-pool/core/ordering"
	"go.dedis.ch/dela-pool/core/store"
	"go.dedis.ch/dela-pool/core/txn"
	"golang.org/x/xerrors"
)

var errRejected = xerrors.New("transaction rejected")

const (
	nonceKeyPrefix = "ordering:nonce:"
	indexKey       = "ordering:index"
)

// Service is an ordering service that executes the transactions in the order
// they are submitted.
//
// - implements ordering.Service
type Service struct {
	sync.Mutex

	store   store.Store
	exec    execution.Service
	watcher *core.Watcher
	logger  zerolog.Logger
}

// NewService creates a new service that applies the transactions to the store
// using the execution service.
func NewService(st store.Store, exec execution.Service) *Service {
	return &Service{
		store:   st,
		exec:    exec,
		watcher: core.NewWatcher(),
		logger:  dela.Logger.With().Str("service", "ordering").Logger(),
	}
}

// Submit implements ordering.Service. The context is only checked before the
// transaction is admitted. It returns an error when the transaction cannot be
// admitted, for instance with an unexpected nonce, and otherwise the result of
// the execution.
func (s *Service) Submit(ctx context.Context, tx txn.Transaction) (execution.Result, error) {
	err := ctx.Err()
	if err != nil {
		return execution.Result{}, xerrors.Errorf("transaction not admitted: %w", err)
	}

	addr, err := access.AddressOf(tx.GetIdentity())
	if err != nil {
		return execution.Result{}, xerrors.Errorf("invalid identity: %v", err)
	}

	s.Lock()
	defer s.Unlock()

	var res execution.Result
	var index uint64
	rejected := false

	err = s.store.Stage(func(snap store.Snapshot) error {
		nonce, err := readUint(snap, nonceKey(addr))
		if err != nil {
			return xerrors.Errorf("failed to read nonce: %v", err)
		}

		if nonce != tx.GetNonce() {
			return xerrors.Errorf("invalid nonce %d for '%s', expected %d",
				tx.GetNonce(), addr, nonce)
		}

		index, err = readUint(snap, []byte(indexKey))
		if err != nil {
			return xerrors.Errorf("failed to read index: %v", err)
		}

		res, err = s.exec.Execute(snap, execution.Step{Current: tx})
		if err != nil {
			return xerrors.Errorf("failed to execute tx: %v", err)
		}

		if !res.Accepted {
			rejected = true
			return errRejected
		}

		index++

		err = writeUint(snap, nonceKey(addr), nonce+1)
		if err != nil {
			return xerrors.Errorf("failed to write nonce: %v", err)
		}

		err = writeUint(snap, []byte(indexKey), index)
		if err != nil {
			return xerrors.Errorf("failed to write index: %v", err)
		}

		return nil
	})

	if err != nil && !rejected {
		return execution.Result{}, xerrors.Errorf("failed to stage tx: %v", err)
	}

	if rejected {
		s.logger.Debug().
			Hex("tx", tx.GetID()).
			Str("reason", res.Message).
			Msg("transaction rejected")
	} else {
		s.logger.Debug().
			Hex("tx", tx.GetID()).
			Uint64("index", index).
			Msg("transaction accepted")
	}

	s.watcher.Notify(ordering.Event{
		Index:    index,
		TxID:     tx.GetID(),
		Accepted: res.Accepted,
		Message:  res.Message,
	})

	return res, nil
}

// Read implements ordering.Service. The function is never called while a
// transaction is being processed.
func (s *Service) Read(fn func(store.Readable) error) error {
	s.Lock()
	defer s.Unlock()

	return fn(s.store)
}

// GetNonce implements ordering.Service.
func (s *Service) GetNonce(ident access.Identity) (uint64, error) {
	addr, err := access.AddressOf(ident)
	if err != nil {
		return 0, xerrors.Errorf("invalid identity: %v", err)
	}

	s.Lock()
	defer s.Unlock()

	nonce, err := readUint(s.store, nonceKey(addr))
	if err != nil {
		return 0, xerrors.Errorf("failed to read nonce: %v", err)
	}

	return nonce, nil
}

// GetIndex returns the number of accepted transactions so far.
func (s *Service) GetIndex() (uint64, error) {
	s.Lock()
	defer s.Unlock()

	index, err := readUint(s.store, []byte(indexKey))
	if err != nil {
		return 0, xerrors.Errorf("failed to read index: %v", err)
	}

	return index, nil
}

// Watch implements ordering.Service. The events are delivered in order and a
// slow reader delays the next transactions. The channel is closed when the
// context is done.
func (s *Service) Watch(ctx context.Context) <-chan ordering.Event {
	ch := make(chan ordering.Event, 10)

	obs := observer{ctx: ctx, ch: ch}
	s.watcher.Add(obs)

	go func() {
		<-ctx.Done()

		// Events are notified while holding the lock.
		s.Lock()
		s.watcher.Remove(obs)
		close(ch)
		s.Unlock()
	}()

	return ch
}

func nonceKey(addr access.Address) []byte {
	return []byte(nonceKeyPrefix + string(addr))
}

func readUint(snap store.Readable, key []byte) (uint64, error) {
	value, err := snap.Get(key)
	if err != nil {
		return 0, err
	}

	if value == nil {
		return 0, nil
	}

	if len(value) != 8 {
		return 0, xerrors.Errorf("invalid value of %d bytes", len(value))
	}

	return binary.LittleEndian.Uint64(value), nil
}

func writeUint(snap store.Writable, key []byte, value uint64) error {
	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, value)

	return snap.Set(key, buffer)
}
