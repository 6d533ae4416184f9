package controller

import (
	"fmt"

	"go.dedis.ch/dela-pool/cli/node"
	"go.dedis.ch/dela-pool/core/access/wallet"
	"golang.org/x/xerrors"
)

type newAction struct{}

// Execute implements node.ActionTemplate. It creates an account.
func (newAction) Execute(ctx node.Context) error {
	var w wallet.Wallet
	err := ctx.Injector.Resolve(&w)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	account, err := w.Create(ctx.Flags.String("name"))
	if err != nil {
		return xerrors.Errorf("failed to create account: %v", err)
	}

	return printAccount(ctx, account)
}

type showAction struct{}

// Execute implements node.ActionTemplate. It prints an account.
func (showAction) Execute(ctx node.Context) error {
	var w wallet.Wallet
	err := ctx.Injector.Resolve(&w)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	account, err := w.Get(ctx.Flags.String("name"))
	if err != nil {
		return xerrors.Errorf("failed to get account: %v", err)
	}

	return printAccount(ctx, account)
}

type listAction struct{}

// Execute implements node.ActionTemplate. It prints every account, one per
// line.
func (listAction) Execute(ctx node.Context) error {
	var w wallet.Wallet
	err := ctx.Injector.Resolve(&w)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	accounts, err := w.List()
	if err != nil {
		return xerrors.Errorf("failed to list accounts: %v", err)
	}

	for _, account := range accounts {
		err = printAccount(ctx, account)
		if err != nil {
			return err
		}

		fmt.Fprintln(ctx.Out)
	}

	return nil
}

func printAccount(ctx node.Context, account wallet.Account) error {
	addr, err := account.GetAddress()
	if err != nil {
		return xerrors.Errorf("failed to get address: %v", err)
	}

	fmt.Fprintf(ctx.Out, "%s\t%s", account.Name, addr)

	return nil
}
