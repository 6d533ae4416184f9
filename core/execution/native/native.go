// Package native implements an execution service to run native smart contracts.
//
// A native smart contract is written in Go and packaged with the application.
// It is registered under a name, and a transaction selects it with the
// contract argument.
package native

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.dedis.ch/dela-pool"
	"go.dedis.ch/dela-pool/core/execution"
	"go.dedis.ch/dela-pool/core/store"
	"golang.org/x/xerrors"
)

const (
	// ContractArg is the argument key in the transaction to look up a contract.
	ContractArg = "go.dedis.ch/dela.ContractArg"

	// UIDSize is the size in bytes of the unique identifier of a contract.
	UIDSize = 4
)

var promExecutions = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "dela_native_executions_total",
	Help: "total number of executions of the native contracts",
}, []string{"contract", "accepted"})

func init() {
	dela.PromCollectors = append(dela.PromCollectors, promExecutions)
}

// Contract is the interface to implement to register a smart contract that will
// be executed natively.
type Contract interface {
	Execute(store.Snapshot, execution.Step) error
	UID() string
}

// Service is an execution service for packaged applications. Those
// applications have complete access to the snapshot and can directly update
// it. A rejected contract call is reported in the result, while an error is
// returned only when the transaction cannot be dispatched.
//
// - implements execution.Service
type Service struct {
	logger zerolog.Logger

	// contracts maps the names to the contracts, and uids the UIDs to the
	// names.
	contracts map[string]Contract
	uids      map[string]string
}

// NewExecution returns a new native execution without any contract.
func NewExecution() *Service {
	return &Service{
		logger:    dela.Logger.With().Str("execution", "native").Logger(),
		contracts: make(map[string]Contract),
		uids:      make(map[string]string),
	}
}

// Set stores the contract using the name as the key. A transaction can trigger
// this contract by using the same name as the contract argument. It panics if
// the name or the UID is already taken, or if the UID is malformed, as it is
// a programming error.
func (ns *Service) Set(name string, contract Contract) {
	_, found := ns.contracts[name]
	if found {
		panic(xerrors.Errorf("contract '%s' already registered", name))
	}

	uid := contract.UID()

	if len(uid) != UIDSize {
		panic(xerrors.Errorf("contract UID '%x' for '%s' is not %d bytes long",
			uid, name, UIDSize))
	}

	_, found = ns.uids[uid]
	if found {
		panic(xerrors.Errorf("contract UID '%x' for '%s' already registered", uid, name))
	}

	ns.contracts[name] = contract
	ns.uids[uid] = name
}

// Execute implements execution.Service. It dispatches the transaction to the
// contract of its argument and reports whether the contract accepted it.
func (ns *Service) Execute(snap store.Snapshot, step execution.Step) (execution.Result, error) {
	name := string(step.Current.GetArg(ContractArg))

	contract, found := ns.contracts[name]
	if !found {
		return execution.Result{}, xerrors.Errorf("unknown contract '%s'", name)
	}

	err := contract.Execute(snap, step)
	if err != nil {
		promExecutions.WithLabelValues(contract.UID(), "false").Inc()

		ns.logger.Debug().Str("contract", name).Err(err).Msg("transaction rejected")

		return execution.Result{Message: err.Error(), Err: err}, nil
	}

	promExecutions.WithLabelValues(contract.UID(), "true").Inc()

	return execution.Result{Accepted: true}, nil
}
