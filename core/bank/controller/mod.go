// Package controller implements the controller of the bank, which credits the
// accounts with the faucet and displays the balances.
package controller

import (
	"go.dedis.ch/dela-pool/cli"
	"go.dedis.ch/dela-pool/cli/node"
	"go.dedis.ch/dela-pool/core/bank"
)

type controller struct{}

// NewController returns the initializer of the bank.
func NewController() node.Initializer {
	return controller{}
}

// SetCommands implements node.Initializer.
func (controller) SetCommands(builder node.Builder) {
	accountFlag := cli.StringFlag{
		Name:     "account",
		Usage:    "name of an account of the node, or an address",
		Required: true,
	}

	cmd := builder.SetCommand("bank")
	cmd.SetDescription("manage the balances")

	sub := cmd.SetSubCommand("mint")
	sub.SetDescription("credit an account with new coins")
	sub.SetFlags(accountFlag, cli.StringFlag{
		Name:     "amount",
		Usage:    "number of coins, for instance 0.5",
		Required: true,
	})
	sub.SetAction(builder.MakeAction(mintAction{}))

	sub = cmd.SetSubCommand("balance")
	sub.SetDescription("print the balance of an account in coins")
	sub.SetFlags(accountFlag)
	sub.SetAction(builder.MakeAction(balanceAction{}))
}

// OnStart implements node.Initializer. It injects the bank.
func (controller) OnStart(flags cli.Flags, inj node.Injector) error {
	inj.Inject(bank.NewBank())

	return nil
}

// OnStop implements node.Initializer.
func (controller) OnStop(node.Injector) error {
	return nil
}
