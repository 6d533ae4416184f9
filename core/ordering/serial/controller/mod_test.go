package controller

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/dela-pool/cli"
	"go.dedis.ch/dela-pool/cli/node"
	"go.dedis.ch/dela-pool/core/execution/native"
	"go.dedis.ch/dela-pool/core/ordering"
	"go.dedis.ch/dela-pool/core/ordering/serial"
	"go.dedis.ch/dela-pool/core/store/mem"
	"go.dedis.ch/dela-pool/internal/testing/fake"
)

func TestController_SetCommands(t *testing.T) {
	builder := &fakeBuilder{}

	NewController().SetCommands(builder)

	require.Equal(t, []string{"ordering"}, builder.names)
	require.Equal(t, []string{"index"}, builder.cmd.subs)
}

func TestController_OnStart(t *testing.T) {
	ctrl := NewController()
	inj := node.NewInjector()

	err := ctrl.OnStart(node.FlagSet{}, inj)
	require.EqualError(t, err,
		"failed to resolve store: couldn't find dependency for 'store.Store'")

	inj.Inject(mem.NewStore())

	err = ctrl.OnStart(node.FlagSet{}, inj)
	require.NoError(t, err)

	var exec *native.Service
	require.NoError(t, inj.Resolve(&exec))

	var srvc ordering.Service
	require.NoError(t, inj.Resolve(&srvc))
	require.IsType(t, &serial.Service{}, srvc)

	require.NoError(t, ctrl.OnStop(inj))
	require.NoError(t, ctrl.OnStop(inj))
}

func TestIndexAction_Execute(t *testing.T) {
	out := new(bytes.Buffer)
	inj := node.NewInjector()

	ctx := node.Context{
		Injector: inj,
		Flags:    node.FlagSet{},
		Out:      out,
	}

	err := indexAction{}.Execute(ctx)
	require.EqualError(t, err, "injector: couldn't find dependency for '*serial.Service'")

	srvc := serial.NewService(mem.NewStore(), native.NewExecution())
	inj.Inject(srvc)

	err = indexAction{}.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, "0", out.String())

	inj.Inject(serial.NewService(&fake.Store{Snapshot: fake.NewBadSnapshot()}, native.NewExecution()))

	err = indexAction{}.Execute(ctx)
	require.EqualError(t, err, fake.Err("failed to read index: failed to read index"))
}

func TestLogEvents(t *testing.T) {
	events := make(chan ordering.Event, 2)
	events <- ordering.Event{Index: 1, TxID: []byte{1}, Accepted: true}
	events <- ordering.Event{TxID: []byte{2}, Message: "oops"}
	close(events)

	done := make(chan struct{})
	logEvents(events, done)

	_, more := <-done
	require.False(t, more)
}

func TestController_StopClosesWatch(t *testing.T) {
	inj := node.NewInjector()
	inj.Inject(mem.NewStore())

	ctrl := NewController().(*controller)
	require.NoError(t, ctrl.OnStart(node.FlagSet{}, inj))

	done := ctrl.done

	require.NoError(t, ctrl.OnStop(inj))

	_, more := <-done
	require.False(t, more)
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeCommandBuilder struct {
	subs []string
}

func (b *fakeCommandBuilder) SetDescription(value string) {}

func (b *fakeCommandBuilder) SetFlags(flags ...cli.Flag) {}

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
