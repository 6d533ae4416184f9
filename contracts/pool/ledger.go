package pool

import (
	"encoding/json"
	"fmt"

	"github.com/rs/xid"
	"go.dedis.ch/dela-pool/core/access"
	"go.dedis.ch/dela-pool/core/bank"
	"go.dedis.ch/dela-pool/core/store"
	"golang.org/x/xerrors"
)

// DefaultMinStake is the minimum stake of a join when none is configured. It
// is 0.01 coin.
const DefaultMinStake bank.Amount = 10_000_000

const keyPrefix = "pool:"

var (
	// ErrInsufficientStake is returned when a join is below the minimum stake.
	ErrInsufficientStake = xerrors.New("insufficient stake")

	// ErrUnauthorized is returned when a round is finalized by someone else
	// than the administrator.
	ErrUnauthorized = xerrors.New("unauthorized")

	// ErrNoParticipants is returned when a round without participant is
	// finalized.
	ErrNoParticipants = xerrors.New("no participants")

	// ErrTransferFailed is returned when the payout of the winner cannot be
	// completed. The round is left open and can be finalized again.
	ErrTransferFailed = xerrors.New("transfer failed")

	// ErrUnknownPool is returned when the pool has never been created.
	ErrUnknownPool = xerrors.New("unknown pool")
)

// ID is the unique identifier of a pool.
type ID string

// NewID returns a new globally unique pool identifier.
func NewID() ID {
	return ID(xid.New().String())
}

// Custody returns the address of the account holding the funds of the pool.
func Custody(id ID) access.Address {
	return access.Address(keyPrefix + string(id))
}

// State is the state of a pool stored in the snapshot.
type State struct {
	Admin        access.Address   `json:"admin"`
	Participants []access.Address `json:"participants"`
	Balance      bank.Amount      `json:"balance"`

	// Round is the number of rounds finalized so far.
	Round      uint64         `json:"round"`
	LastWinner access.Address `json:"last_winner,omitempty"`
	LastPrize  bank.Amount    `json:"last_prize,omitempty"`
}

// Round is the record of a finalized round.
type Round struct {
	Number  uint64         `json:"number"`
	Winner  access.Address `json:"winner"`
	Prize   bank.Amount    `json:"prize"`
	Entries int            `json:"entries"`
	TxID    []byte         `json:"tx_id,omitempty"`
}

// Payer is the transfer primitive of the environment that moves funds out of
// the custody of a pool.
type Payer interface {
	Pay(snap store.Snapshot, id ID, to access.Address, amount bank.Amount) error
}

// LedgerOption is the type of option to create a ledger.
type LedgerOption func(*Ledger)

// WithMinStake sets the minimum stake of a join.
func WithMinStake(amount bank.Amount) LedgerOption {
	return func(l *Ledger) {
		l.minStake = amount
	}
}

// WithRandomSource sets the source used to select the winners.
func WithRandomSource(src RandomSource) LedgerOption {
	return func(l *Ledger) {
		l.random = src
	}
}

// WithPayer sets the primitive used to pay the winners.
func WithPayer(p Payer) LedgerOption {
	return func(l *Ledger) {
		l.payer = p
	}
}

// Ledger implements the state machine of the pools. Every operation reads and
// writes the state of a pool in the given snapshot, which means the host is
// responsible for serializing the calls and for discarding the writes of a
// failed call.
type Ledger struct {
	minStake bank.Amount
	random   RandomSource
	payer    Payer
}

// NewLedger creates a new ledger. By default the winners are selected with a
// Keccak-256 hash source and paid by the bank.
func NewLedger(opts ...LedgerOption) Ledger {
	l := Ledger{
		minStake: DefaultMinStake,
		random:   NewHashSource(),
		payer:    NewBankPayer(bank.NewBank()),
	}

	for _, opt := range opts {
		opt(&l)
	}

	return l
}

// GetMinStake returns the minimum stake of a join.
func (l Ledger) GetMinStake() bank.Amount {
	return l.minStake
}

// Create initializes a pool with the given administrator, an empty roster and
// a zero balance.
func (l Ledger) Create(snap store.Snapshot, id ID, admin access.Address) error {
	if id == "" {
		return xerrors.New("empty pool id")
	}

	if admin == "" {
		return xerrors.New("empty administrator")
	}

	value, err := snap.Get(stateKey(id))
	if err != nil {
		return xerrors.Errorf("failed to read state: %v", err)
	}

	if value != nil {
		return xerrors.Errorf("pool '%s' already exists", id)
	}

	state := State{
		Admin:        admin,
		Participants: []access.Address{},
	}

	return l.write(snap, id, state)
}

// Join appends the caller to the roster and adds the stake to the balance of
// the pool. It returns ErrInsufficientStake when the stake is zero or below
// the minimum.
func (l Ledger) Join(snap store.Snapshot, id ID, caller access.Address, stake bank.Amount) error {
	if stake == 0 {
		return xerrors.Errorf("empty stake: %w", ErrInsufficientStake)
	}

	if stake < l.minStake {
		return xerrors.Errorf("stake %s is below %s: %w", stake, l.minStake, ErrInsufficientStake)
	}

	state, err := l.State(snap, id)
	if err != nil {
		return err
	}

	balance, err := state.Balance.Add(stake)
	if err != nil {
		return xerrors.Errorf("failed to add stake: %v", err)
	}

	state.Participants = append(state.Participants, caller)
	state.Balance = balance

	return l.write(snap, id, state)
}

// Finalize selects a winner among the participants, pays the balance of the
// pool and resets the roster for the next round. The transaction ID is kept
// in the record of the round.
func (l Ledger) Finalize(snap store.Snapshot, id ID, caller access.Address,
	seed, txID []byte) (Round, error) {

	state, err := l.State(snap, id)
	if err != nil {
		return Round{}, err
	}

	if caller != state.Admin {
		return Round{}, xerrors.Errorf("'%s' is not the administrator: %w", caller, ErrUnauthorized)
	}

	n := len(state.Participants)
	if n == 0 {
		return Round{}, xerrors.Errorf("round %d is empty: %w", state.Round+1, ErrNoParticipants)
	}

	entropy := Entropy{
		Seed:         seed,
		Pool:         id,
		Round:        state.Round,
		Balance:      state.Balance,
		Caller:       caller,
		Participants: state.Participants,
	}

	index, err := l.random.Index(entropy, n)
	if err != nil {
		return Round{}, xerrors.Errorf("failed to select winner: %v", err)
	}

	if index < 0 || index >= n {
		return Round{}, xerrors.Errorf("index %d out of range [0, %d)", index, n)
	}

	winner := state.Participants[index]

	err = l.payer.Pay(snap, id, winner, state.Balance)
	if err != nil {
		return Round{}, xerrors.Errorf("failed to pay %s to '%s' (%v): %w",
			state.Balance, winner, err, ErrTransferFailed)
	}

	round := Round{
		Number:  state.Round + 1,
		Winner:  winner,
		Prize:   state.Balance,
		Entries: n,
		TxID:    txID,
	}

	state.Participants = []access.Address{}
	state.Balance = 0
	state.Round = round.Number
	state.LastWinner = winner
	state.LastPrize = round.Prize

	err = l.write(snap, id, state)
	if err != nil {
		return Round{}, err
	}

	data, err := json.Marshal(round)
	if err != nil {
		return Round{}, xerrors.Errorf("failed to encode round: %v", err)
	}

	err = snap.Set(roundKey(id, round.Number), data)
	if err != nil {
		return Round{}, xerrors.Errorf("failed to write round: %v", err)
	}

	return round, nil
}

// Participants returns the roster of the current round in join order.
func (l Ledger) Participants(snap store.Readable, id ID) ([]access.Address, error) {
	state, err := l.State(snap, id)
	if err != nil {
		return nil, err
	}

	return state.Participants, nil
}

// State returns the state of the pool, or ErrUnknownPool if it does not exist.
func (l Ledger) State(snap store.Readable, id ID) (State, error) {
	value, err := snap.Get(stateKey(id))
	if err != nil {
		return State{}, xerrors.Errorf("failed to read state: %v", err)
	}

	if value == nil {
		return State{}, xerrors.Errorf("pool '%s': %w", id, ErrUnknownPool)
	}

	var state State

	err = json.Unmarshal(value, &state)
	if err != nil {
		return State{}, xerrors.Errorf("failed to decode state: %v", err)
	}

	if state.Participants == nil {
		state.Participants = []access.Address{}
	}

	return state, nil
}

// History returns the record of a finalized round, numbered from 1.
func (l Ledger) History(snap store.Readable, id ID, number uint64) (Round, error) {
	value, err := snap.Get(roundKey(id, number))
	if err != nil {
		return Round{}, xerrors.Errorf("failed to read round: %v", err)
	}

	if value == nil {
		return Round{}, xerrors.Errorf("round %d of pool '%s' not found", number, id)
	}

	var round Round

	err = json.Unmarshal(value, &round)
	if err != nil {
		return Round{}, xerrors.Errorf("failed to decode round: %v", err)
	}

	return round, nil
}

func (l Ledger) write(snap store.Snapshot, id ID, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return xerrors.Errorf("failed to encode state: %v", err)
	}

	err = snap.Set(stateKey(id), data)
	if err != nil {
		return xerrors.Errorf("failed to write state: %v", err)
	}

	return nil
}

// bankPayer is a payer that transfers the funds from the custody account of
// the pool in the bank.
//
// - implements pool.Payer
type bankPayer struct {
	bank bank.Bank
}

// NewBankPayer returns a payer that transfers from the custody account of the
// pool.
func NewBankPayer(b bank.Bank) Payer {
	return bankPayer{bank: b}
}

// Pay implements pool.Payer.
func (p bankPayer) Pay(snap store.Snapshot, id ID, to access.Address, amount bank.Amount) error {
	return p.bank.Transfer(snap, Custody(id), to, amount)
}

func stateKey(id ID) []byte {
	return []byte(keyPrefix + string(id) + ":state")
}

func roundKey(id ID, number uint64) []byte {
	return []byte(fmt.Sprintf("%s%s:round:%d", keyPrefix, id, number))
}
