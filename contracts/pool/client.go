package pool

import (
	"bytes"
	"context"
	"strconv"
	"sync"

	"go.dedis.ch/dela-pool/core/access"
	"go.dedis.ch/dela-pool/core/bank"
	"go.dedis.ch/dela-pool/core/execution/native"
	"go.dedis.ch/dela-pool/core/ordering"
	"go.dedis.ch/dela-pool/core/store"
	"go.dedis.ch/dela-pool/core/txn"
	"go.dedis.ch/dela-pool/core/txn/basic"
	"golang.org/x/xerrors"
)

// Client deploys pools and drives them by submitting transactions of the pool
// contract to an ordering service.
type Client struct {
	srvc   ordering.Service
	ledger Ledger
	locks  *identityLocks
}

// NewClient returns a client using the ordering service to submit the
// transactions, and the ledger to read the state of the pools.
func NewClient(srvc ordering.Service, ledger Ledger) Client {
	return Client{
		srvc:   srvc,
		ledger: ledger,
		locks:  &identityLocks{locks: make(map[access.Address]*sync.Mutex)},
	}
}

// Deploy creates a new pool administrated by the given identity and returns
// its handle.
func (c Client) Deploy(ctx context.Context, admin access.Identity) (Handle, error) {
	id := NewID()

	_, err := c.submit(ctx, admin, CmdDeploy, id)
	if err != nil {
		return Handle{}, xerrors.Errorf("failed to deploy: %w", err)
	}

	return c.Open(id), nil
}

// Open returns the handle of an existing pool.
func (c Client) Open(id ID) Handle {
	return Handle{
		client: c,
		id:     id,
	}
}

func (c Client) submit(ctx context.Context, caller access.Identity, cmd Command,
	id ID, args ...txn.Arg) (txn.Transaction, error) {

	// The nonce of an identity is read and consumed under its lock, so that
	// concurrent calls of the same caller get consecutive nonces.
	addr, err := access.AddressOf(caller)
	if err == nil {
		lock := c.locks.get(addr)
		lock.Lock()
		defer lock.Unlock()
	}

	mgr := basic.NewManager(caller, c.srvc)

	err = mgr.Sync()
	if err != nil {
		return nil, xerrors.Errorf("failed to get nonce: %v", err)
	}

	args = append([]txn.Arg{
		{Key: native.ContractArg, Value: []byte(ContractName)},
		{Key: CmdArg, Value: []byte(cmd)},
		{Key: IDArg, Value: []byte(id)},
	}, args...)

	tx, err := mgr.Make(args...)
	if err != nil {
		return nil, xerrors.Errorf("failed to make tx: %v", err)
	}

	res, err := c.srvc.Submit(ctx, tx)
	if err != nil {
		return nil, xerrors.Errorf("failed to submit tx: %w", err)
	}

	if !res.Accepted {
		if res.Err != nil {
			return nil, xerrors.Errorf("transaction rejected: %w", res.Err)
		}

		return nil, xerrors.Errorf("transaction rejected: %s", res.Message)
	}

	return tx, nil
}

// identityLocks holds one lock per identity submitting through the client.
type identityLocks struct {
	sync.Mutex

	locks map[access.Address]*sync.Mutex
}

func (l *identityLocks) get(addr access.Address) *sync.Mutex {
	l.Lock()
	defer l.Unlock()

	lock, found := l.locks[addr]
	if !found {
		lock = new(sync.Mutex)
		l.locks[addr] = lock
	}

	return lock
}

// Handle is the handle of a deployed pool. The errors of the calls wrap the
// error kinds of the pool, that can be checked with xerrors.Is.
type Handle struct {
	client Client
	id     ID
}

// GetID returns the identifier of the pool.
func (h Handle) GetID() ID {
	return h.id
}

// Join adds the caller to the current round with the given stake, that is
// taken from the account of the caller.
func (h Handle) Join(ctx context.Context, caller access.Identity, stake bank.Amount) error {
	value := []byte(strconv.FormatUint(uint64(stake), 10))

	_, err := h.client.submit(ctx, caller, CmdJoin, h.id, txn.Arg{Key: StakeArg, Value: value})
	if err != nil {
		return xerrors.Errorf("failed to join: %w", err)
	}

	return nil
}

// Finalize ends the current round and returns the winner.
func (h Handle) Finalize(ctx context.Context, caller access.Identity, seed []byte) (access.Address, error) {
	tx, err := h.client.submit(ctx, caller, CmdFinalize, h.id, txn.Arg{Key: SeedArg, Value: seed})
	if err != nil {
		return "", xerrors.Errorf("failed to finalize: %w", err)
	}

	var winner access.Address

	err = h.client.srvc.Read(func(snap store.Readable) error {
		state, err := h.client.ledger.State(snap, h.id)
		if err != nil {
			return err
		}

		// Rounds are looked up from the latest as the transaction has just
		// been accepted.
		for n := state.Round; n > 0; n-- {
			round, err := h.client.ledger.History(snap, h.id, n)
			if err != nil {
				return err
			}

			if bytes.Equal(round.TxID, tx.GetID()) {
				winner = round.Winner
				return nil
			}
		}

		return xerrors.Errorf("no round finalized by tx %x", tx.GetID())
	})

	if err != nil {
		return "", xerrors.Errorf("failed to read winner: %v", err)
	}

	return winner, nil
}

// Participants returns the roster of the current round in join order.
func (h Handle) Participants() ([]access.Address, error) {
	var participants []access.Address

	err := h.client.srvc.Read(func(snap store.Readable) error {
		var err error
		participants, err = h.client.ledger.Participants(snap, h.id)

		return err
	})

	if err != nil {
		return nil, xerrors.Errorf("failed to read participants: %w", err)
	}

	return participants, nil
}

// Info returns the current state of the pool.
func (h Handle) Info() (State, error) {
	var state State

	err := h.client.srvc.Read(func(snap store.Readable) error {
		var err error
		state, err = h.client.ledger.State(snap, h.id)

		return err
	})

	if err != nil {
		return State{}, xerrors.Errorf("failed to read state: %w", err)
	}

	return state, nil
}

// History returns the record of a finalized round, numbered from 1.
func (h Handle) History(number uint64) (Round, error) {
	var round Round

	err := h.client.srvc.Read(func(snap store.Readable) error {
		var err error
		round, err = h.client.ledger.History(snap, h.id, number)

		return err
	})

	if err != nil {
		return Round{}, xerrors.Errorf("failed to read round: %w", err)
	}

	return round, nil
}
