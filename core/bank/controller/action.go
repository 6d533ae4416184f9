package controller

import (
	"fmt"

	"go.dedis.ch/dela-pool"
	"go.dedis.ch/dela-pool/cli/node"
	"go.dedis.ch/dela-pool/core/access"
	"go.dedis.ch/dela-pool/core/access/wallet"
	"go.dedis.ch/dela-pool/core/bank"
	"go.dedis.ch/dela-pool/core/store"
	"golang.org/x/xerrors"
)

type mintAction struct{}

// Execute implements node.ActionTemplate. It credits the account in a stage of
// the store.
func (mintAction) Execute(ctx node.Context) error {
	deps, err := resolve(ctx)
	if err != nil {
		return err
	}

	amount, err := bank.ParseAmount(ctx.Flags.String("amount"))
	if err != nil {
		return xerrors.Errorf("failed to parse amount: %v", err)
	}

	err = deps.store.Stage(func(snap store.Snapshot) error {
		return deps.bank.Mint(snap, deps.addr, amount)
	})
	if err != nil {
		return xerrors.Errorf("failed to mint: %v", err)
	}

	dela.Logger.Info().Str("role", "bank").Msgf("minted %s for %s", amount, deps.addr)

	fmt.Fprintf(ctx.Out, "minted %s for %s", amount, deps.addr)

	return nil
}

type balanceAction struct{}

// Execute implements node.ActionTemplate. It prints the balance of the
// account.
func (balanceAction) Execute(ctx node.Context) error {
	deps, err := resolve(ctx)
	if err != nil {
		return err
	}

	balance, err := deps.bank.BalanceOf(deps.store, deps.addr)
	if err != nil {
		return xerrors.Errorf("failed to read balance: %v", err)
	}

	fmt.Fprint(ctx.Out, balance)

	return nil
}

type dependencies struct {
	store store.Store
	bank  bank.Bank
	addr  access.Address
}

func resolve(ctx node.Context) (dependencies, error) {
	var deps dependencies

	err := ctx.Injector.Resolve(&deps.store)
	if err != nil {
		return deps, xerrors.Errorf("injector: %v", err)
	}

	err = ctx.Injector.Resolve(&deps.bank)
	if err != nil {
		return deps, xerrors.Errorf("injector: %v", err)
	}

	var w wallet.Wallet
	err = ctx.Injector.Resolve(&w)
	if err != nil {
		return deps, xerrors.Errorf("injector: %v", err)
	}

	deps.addr, err = w.Resolve(ctx.Flags.String("account"))
	if err != nil {
		return deps, xerrors.Errorf("failed to resolve account: %v", err)
	}

	return deps, nil
}
