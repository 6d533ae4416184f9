package controller

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/dela-pool/cli"
	"go.dedis.ch/dela-pool/cli/node"
	"go.dedis.ch/dela-pool/core/access/wallet"
	"go.dedis.ch/dela-pool/core/bank"
	"go.dedis.ch/dela-pool/core/store/mem"
	"go.dedis.ch/dela-pool/internal/testing/fake"
)

func TestController_SetCommands(t *testing.T) {
	builder := &fakeBuilder{}

	NewController().SetCommands(builder)

	require.Equal(t, []string{"bank"}, builder.names)
	require.Equal(t, []string{"mint", "balance"}, builder.cmd.subs)
	require.Len(t, builder.cmd.flags, 3)
}

func TestController_OnStart(t *testing.T) {
	inj := node.NewInjector()

	require.NoError(t, NewController().OnStart(node.FlagSet{}, inj))

	var b bank.Bank
	require.NoError(t, inj.Resolve(&b))

	require.NoError(t, NewController().OnStop(inj))
}

func TestActions(t *testing.T) {
	out := new(bytes.Buffer)
	inj := node.NewInjector()

	ctx := node.Context{
		Injector: inj,
		Flags:    node.FlagSet{"account": "alice", "amount": "1.5"},
		Out:      out,
	}

	err := mintAction{}.Execute(ctx)
	require.EqualError(t, err, "injector: couldn't find dependency for 'store.Store'")

	inj.Inject(mem.NewStore())

	err = balanceAction{}.Execute(ctx)
	require.EqualError(t, err, "injector: couldn't find dependency for 'bank.Bank'")

	inj.Inject(bank.NewBank())

	err = balanceAction{}.Execute(ctx)
	require.EqualError(t, err, "injector: couldn't find dependency for 'wallet.Wallet'")

	w := wallet.NewWallet(t.TempDir())
	inj.Inject(w)

	err = mintAction{}.Execute(ctx)
	require.EqualError(t, err, "failed to resolve account: account 'alice' not found")

	alice, err := w.Create("alice")
	require.NoError(t, err)

	addr, err := alice.GetAddress()
	require.NoError(t, err)

	err = mintAction{}.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, "minted 1.5 for "+string(addr), out.String())

	out.Reset()
	ctx.Flags = node.FlagSet{"account": string(addr)}

	err = balanceAction{}.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.5", out.String())

	ctx.Flags = node.FlagSet{"account": "alice", "amount": "-1"}

	err = mintAction{}.Execute(ctx)
	require.EqualError(t, err, "failed to parse amount: negative amount '-1'")
}

func TestActions_BadStore(t *testing.T) {
	inj := node.NewInjector()
	inj.Inject(fake.NewBadStore())
	inj.Inject(bank.NewBank())

	w := wallet.NewWallet(t.TempDir())
	inj.Inject(w)

	_, err := w.Create("alice")
	require.NoError(t, err)

	ctx := node.Context{
		Injector: inj,
		Flags:    node.FlagSet{"account": "alice", "amount": "1"},
		Out:      new(bytes.Buffer),
	}

	err = mintAction{}.Execute(ctx)
	require.EqualError(t, err, fake.Err("failed to mint"))

	inj.Inject(&fake.Store{Snapshot: fake.NewBadSnapshot()})

	err = balanceAction{}.Execute(ctx)
	require.Error(t, err)
	require.Regexp(t, "^failed to read balance: failed to read balance of", err.Error())
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeCommandBuilder struct {
	subs  []string
	flags []cli.Flag
}

func (b *fakeCommandBuilder) SetDescription(value string) {}

func (b *fakeCommandBuilder) SetFlags(flags ...cli.Flag) {
	b.flags = append(b.flags, flags...)
}

func (b *fakeCommandBuilder) SetAction(cli.Action) {}

func (b *fakeCommandBuilder) SetSubCommand(name string) cli.CommandBuilder {
	b.subs = append(b.subs, name)
	return b
}

type fakeBuilder struct {
	names []string
	cmd   *fakeCommandBuilder
}

func (b *fakeBuilder) SetCommand(name string) cli.CommandBuilder {
	b.names = append(b.names, name)
	b.cmd = &fakeCommandBuilder{}

	return b.cmd
}

func (b *fakeBuilder) SetStartFlags(...cli.Flag) {}

func (b *fakeBuilder) MakeAction(node.ActionTemplate) cli.Action {
	return nil
}
