// Package controller implements the controller of the wallet, which creates
// and displays the accounts of the node.
package controller

import (
	"path/filepath"

	"go.dedis.ch/dela-pool/cli"
	"go.dedis.ch/dela-pool/cli/node"
	"go.dedis.ch/dela-pool/core/access/wallet"
)

// AccountsDir is the folder of the account keys inside the configuration
// folder.
const AccountsDir = "accounts"

type controller struct{}

// NewController returns the initializer of the wallet.
func NewController() node.Initializer {
	return controller{}
}

// SetCommands implements node.Initializer.
func (controller) SetCommands(builder node.Builder) {
	nameFlag := cli.StringFlag{
		Name:     "name",
		Usage:    "name of the account",
		Required: true,
	}

	cmd := builder.SetCommand("account")
	cmd.SetDescription("manage the accounts of the node")

	sub := cmd.SetSubCommand("new")
	sub.SetDescription("create a new account and print its address")
	sub.SetFlags(nameFlag)
	sub.SetAction(builder.MakeAction(newAction{}))

	sub = cmd.SetSubCommand("show")
	sub.SetDescription("print the address of an account")
	sub.SetFlags(nameFlag)
	sub.SetAction(builder.MakeAction(showAction{}))

	sub = cmd.SetSubCommand("list")
	sub.SetDescription("print the accounts of the node")
	sub.SetAction(builder.MakeAction(listAction{}))
}

// OnStart implements node.Initializer. It injects the wallet of the accounts
// folder.
func (controller) OnStart(flags cli.Flags, inj node.Injector) error {
	inj.Inject(wallet.NewWallet(filepath.Join(flags.String(node.ConfigFlag), AccountsDir)))

	return nil
}

// OnStop implements node.Initializer.
func (controller) OnStop(node.Injector) error {
	return nil
}
