// Package controller implements the controller of the pools. It registers the
// pool contract to the execution service of the node, and it provides the
// commands to deploy and drive the pools with the accounts of the node.
package controller

import (
	"go.dedis.ch/dela-pool"
	"go.dedis.ch/dela-pool/cli"
	"go.dedis.ch/dela-pool/cli/node"
	"go.dedis.ch/dela-pool/contracts/pool"
	"go.dedis.ch/dela-pool/core/bank"
	"go.dedis.ch/dela-pool/core/execution/native"
	"go.dedis.ch/dela-pool/core/ordering"
	"golang.org/x/xerrors"
)

const defaultPath = "/pool/"

// MinStakeFlag is the start flag that overrides the minimum stake of the
// configuration file.
const MinStakeFlag = "minstake"

type controller struct{}

// NewController returns the initializer of the pools.
func NewController() node.Initializer {
	return controller{}
}

// SetCommands implements node.Initializer.
func (controller) SetCommands(builder node.Builder) {
	builder.SetStartFlags(cli.StringFlag{
		Name:  MinStakeFlag,
		Usage: "minimum stake of a join in coins, overrides " + ConfigName,
	})

	accountFlag := cli.StringFlag{
		Name:     "account",
		Usage:    "name of the account sending the transaction",
		Required: true,
	}

	timeoutFlag := cli.DurationFlag{
		Name:  "timeout",
		Usage: "maximum time to wait for the transaction",
		Value: defaultTimeout,
	}

	poolFlag := cli.StringFlag{
		Name:     "pool",
		Usage:    "identifier of the pool",
		Required: true,
	}

	cmd := builder.SetCommand("pool")
	cmd.SetDescription("deploy and interact with pools")

	sub := cmd.SetSubCommand("deploy")
	sub.SetDescription("create a new pool administrated by the account")
	sub.SetFlags(accountFlag, timeoutFlag)
	sub.SetAction(builder.MakeAction(deployAction{}))

	sub = cmd.SetSubCommand("join")
	sub.SetDescription("join the current round of a pool")
	sub.SetFlags(accountFlag, poolFlag, timeoutFlag, cli.StringFlag{
		Name:     "stake",
		Usage:    "stake in coins, for instance 0.01",
		Required: true,
	})
	sub.SetAction(builder.MakeAction(joinAction{}))

	sub = cmd.SetSubCommand("finalize")
	sub.SetDescription("pay the balance of the pool to a winner")
	sub.SetFlags(accountFlag, poolFlag, timeoutFlag, cli.StringFlag{
		Name:  "seed",
		Usage: "seed of the selection, random if empty",
	})
	sub.SetAction(builder.MakeAction(finalizeAction{}))

	sub = cmd.SetSubCommand("list")
	sub.SetDescription("print the participants of the current round")
	sub.SetFlags(poolFlag)
	sub.SetAction(builder.MakeAction(listAction{}))

	sub = cmd.SetSubCommand("info")
	sub.SetDescription("print the state of a pool")
	sub.SetFlags(poolFlag, cli.BoolFlag{
		Name:  "json",
		Usage: "print the state as JSON",
	})
	sub.SetAction(builder.MakeAction(infoAction{}))

	sub = cmd.SetSubCommand("history")
	sub.SetDescription("print a finalized round of a pool")
	sub.SetFlags(poolFlag, cli.IntFlag{
		Name:     "round",
		Usage:    "number of the round, starting at 1",
		Required: true,
	})
	sub.SetAction(builder.MakeAction(historyAction{}))

	sub = cmd.SetSubCommand("http")
	sub.SetDescription("serve the JSON view of the pools on the proxy")
	sub.SetFlags(cli.StringFlag{
		Name:  "path",
		Usage: "the handler path",
		Value: defaultPath,
	})
	sub.SetAction(builder.MakeAction(httpAction{}))
}

// OnStart implements node.Initializer. It registers the contract and injects
// the client of the pools.
func (controller) OnStart(flags cli.Flags, inj node.Injector) error {
	var exec *native.Service
	err := inj.Resolve(&exec)
	if err != nil {
		return xerrors.Errorf("failed to resolve native service: %v", err)
	}

	var srvc ordering.Service
	err = inj.Resolve(&srvc)
	if err != nil {
		return xerrors.Errorf("failed to resolve ordering service: %v", err)
	}

	cfg, err := LoadConfig(flags.String(node.ConfigFlag))
	if err != nil {
		return xerrors.Errorf("config: %v", err)
	}

	if flags.String(MinStakeFlag) != "" {
		cfg.MinStake = flags.String(MinStakeFlag)
	}

	minStake, err := cfg.GetMinStake(pool.DefaultMinStake)
	if err != nil {
		return xerrors.Errorf("config: %v", err)
	}

	ledger := pool.NewLedger(pool.WithMinStake(minStake))

	pool.RegisterContract(exec, pool.NewContract(ledger, bank.NewBank()))

	inj.Inject(pool.NewClient(srvc, ledger))

	dela.Logger.Info().Str("contract", "pool").Msgf("minimum stake is %s", minStake)

	return nil
}

// OnStop implements node.Initializer.
func (controller) OnStop(node.Injector) error {
	return nil
}
