// Package pool implements a native contract for pooled wagers. Participants
// join a pool with a stake, and the administrator of the pool finalizes the
// round by paying the whole balance to a winner selected among the
// participants. The pool is then empty for the next round.
//
// The stakes are escrowed in the custody account of the pool in the bank, and
// the payout is a transfer out of this account.
package pool

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.dedis.ch/dela-pool"
	"go.dedis.ch/dela-pool/core/access"
	"go.dedis.ch/dela-pool/core/bank"
	"go.dedis.ch/dela-pool/core/execution"
	"go.dedis.ch/dela-pool/core/execution/native"
	"go.dedis.ch/dela-pool/core/store"
	"golang.org/x/xerrors"
)

// commands defines the commands of the pool contract. This interface helps in
// testing the contract.
type commands interface {
	deploy(snap store.Snapshot, step execution.Step) error
	join(snap store.Snapshot, step execution.Step) error
	finalize(snap store.Snapshot, step execution.Step) error
}

const (
	// ContractName is the name of the contract.
	ContractName = "go.dedis.ch/dela.Pool"

	// ContractUID is the unique 4-bytes identifier of the contract.
	ContractUID = "POOL"

	// CmdArg is the argument's name to indicate the kind of command we want to
	// run on the contract. Should be one of the Command type.
	CmdArg = "pool:command"

	// IDArg is the argument's name in the transaction that contains the
	// identifier of the pool.
	IDArg = "pool:id"

	// StakeArg is the argument's name in the transaction that contains the
	// stake of a join, in base units.
	StakeArg = "pool:stake"

	// SeedArg is the argument's name in the transaction that contains the
	// seed of a finalization.
	SeedArg = "pool:seed"
)

// Command defines a type of command for the pool contract.
type Command string

const (
	// CmdDeploy defines the command to create a pool administrated by the
	// caller.
	CmdDeploy Command = "DEPLOY"

	// CmdJoin defines the command to join the current round of a pool.
	CmdJoin Command = "JOIN"

	// CmdFinalize defines the command to select the winner of a round.
	CmdFinalize Command = "FINALIZE"
)

var (
	promJoins = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dela_pool_joins_total",
		Help: "total number of accepted joins",
	})

	promRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dela_pool_rejected_total",
		Help: "total number of rejected commands",
	}, []string{"command"})

	promRounds = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dela_pool_rounds_total",
		Help: "total number of finalized rounds",
	})

	promPayouts = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dela_pool_payout_coins",
		Help:    "prize of the finalized rounds in coins",
		Buckets: []float64{0.01, 0.1, 1, 10, 100, 1000, 10000},
	})

	// The gauge starts at zero with the process and only follows the
	// commands it executes. The balances of the pools are read from the
	// custody accounts.
	promPooled = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dela_pool_pooled_coins",
		Help: "change of the pooled coins since the process started",
	})
)

func init() {
	dela.PromCollectors = append(dela.PromCollectors, promJoins, promRejected,
		promRounds, promPayouts, promPooled)
}

// RegisterContract registers the pool contract to the given execution service.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(ContractName, c)
}

// Contract is the native contract of the pools.
//
// - implements native.Contract
type Contract struct {
	ledger Ledger

	bank bank.Bank

	// cmd provides the commands executions
	cmd commands
}

// NewContract creates a new pool contract using the ledger for the rounds and
// the bank to escrow the stakes.
func NewContract(ledger Ledger, b bank.Bank) Contract {
	contract := Contract{
		ledger: ledger,
		bank:   b,
	}

	contract.cmd = poolCommand{Contract: &contract}

	return contract
}

// UID implements native.Contract.
func (c Contract) UID() string {
	return ContractUID
}

// Execute implements native.Contract. It runs the appropriate command.
func (c Contract) Execute(snap store.Snapshot, step execution.Step) error {
	cmd := step.Current.GetArg(CmdArg)
	if len(cmd) == 0 {
		return xerrors.Errorf("'%s' not found in tx arg", CmdArg)
	}

	var err error

	switch Command(cmd) {
	case CmdDeploy:
		err = c.cmd.deploy(snap, step)
	case CmdJoin:
		err = c.cmd.join(snap, step)
	case CmdFinalize:
		err = c.cmd.finalize(snap, step)
	default:
		return xerrors.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		promRejected.WithLabelValues(string(cmd)).Inc()

		return xerrors.Errorf("failed to %s: %w", cmd, err)
	}

	return nil
}

// poolCommand implements the commands of the pool contract
//
// - implements commands
type poolCommand struct {
	*Contract
}

// deploy implements commands. It performs the DEPLOY command. The caller
// becomes the administrator of the pool.
func (c poolCommand) deploy(snap store.Snapshot, step execution.Step) error {
	id, caller, err := readCall(step)
	if err != nil {
		return err
	}

	err = c.ledger.Create(snap, id, caller)
	if err != nil {
		return err
	}

	dela.Logger.Info().Str("contract", "pool").Msgf("pool %s created by %s", id, caller)

	return nil
}

// join implements commands. It performs the JOIN command. The stake is moved
// from the caller to the custody of the pool.
func (c poolCommand) join(snap store.Snapshot, step execution.Step) error {
	id, caller, err := readCall(step)
	if err != nil {
		return err
	}

	stake, err := readStake(step)
	if err != nil {
		return err
	}

	err = c.ledger.Join(snap, id, caller, stake)
	if err != nil {
		return err
	}

	err = c.bank.Transfer(snap, caller, Custody(id), stake)
	if err != nil {
		return xerrors.Errorf("failed to escrow stake: %w", err)
	}

	promJoins.Inc()
	promPooled.Add(stake.Coins().InexactFloat64())

	dela.Logger.Info().Str("contract", "pool").Msgf("%s joined %s with %s", caller, id, stake)

	return nil
}

// finalize implements commands. It performs the FINALIZE command.
func (c poolCommand) finalize(snap store.Snapshot, step execution.Step) error {
	id, caller, err := readCall(step)
	if err != nil {
		return err
	}

	seed := step.Current.GetArg(SeedArg)

	round, err := c.ledger.Finalize(snap, id, caller, seed, step.Current.GetID())
	if err != nil {
		return err
	}

	promRounds.Inc()
	promPayouts.Observe(round.Prize.Coins().InexactFloat64())
	promPooled.Sub(round.Prize.Coins().InexactFloat64())

	dela.Logger.Info().Str("contract", "pool").Msgf("round %d of %s won by %s: %s",
		round.Number, id, round.Winner, round.Prize)

	return nil
}

func readID(step execution.Step) (ID, error) {
	id := step.Current.GetArg(IDArg)
	if len(id) == 0 {
		return "", xerrors.Errorf("'%s' not found in tx arg", IDArg)
	}

	return ID(id), nil
}

func readCall(step execution.Step) (ID, access.Address, error) {
	id, err := readID(step)
	if err != nil {
		return "", "", err
	}

	caller, err := access.AddressOf(step.Current.GetIdentity())
	if err != nil {
		return "", "", xerrors.Errorf("invalid caller: %v", err)
	}

	return id, caller, nil
}

func readStake(step execution.Step) (bank.Amount, error) {
	value := step.Current.GetArg(StakeArg)
	if len(value) == 0 {
		return 0, xerrors.Errorf("'%s' not found in tx arg", StakeArg)
	}

	stake, err := strconv.ParseUint(string(value), 10, 64)
	if err != nil {
		return 0, xerrors.Errorf("invalid stake '%s': %v", value, err)
	}

	return bank.Amount(stake), nil
}
