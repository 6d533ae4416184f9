package node

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	urfave "github.com/urfave/cli/v2"
	"go.dedis.ch/dela-pool/cli"
	"go.dedis.ch/dela-pool/internal/testing/fake"
	"golang.org/x/xerrors"
)

func TestCLIBuilder_SetStartFlags(t *testing.T) {
	builder := NewBuilder("test")

	builder.SetStartFlags(cli.StringFlag{}, cli.IntFlag{})
	require.Len(t, builder.startFlags, 2)
}

func TestCLIBuilder_Start(t *testing.T) {
	dir := t.TempDir()
	flags := FlagSet{ConfigFlag: filepath.Join(dir, "node")}

	builder := newTestBuilder(fakeInitializer{})
	builder.sigs <- syscall.SIGTERM

	err := builder.start(flags)
	require.NoError(t, err)
	require.DirExists(t, filepath.Join(dir, "node"))

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0600))

	err = builder.start(FlagSet{ConfigFlag: filepath.Join(file, "node")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't make path: ")

	builder.daemonFactory = fakeFactory{err: xerrors.New("oops")}
	err = builder.start(flags)
	require.EqualError(t, err, "couldn't make daemon: oops")

	builder.daemonFactory = fakeFactory{errDaemon: xerrors.New("oops")}
	err = builder.start(flags)
	require.EqualError(t, err, "couldn't start the daemon: oops")

	builder = newTestBuilder(fakeInitializer{err: xerrors.New("oops")})
	err = builder.start(flags)
	require.EqualError(t, err, "couldn't run the controller: oops")

	builder = newTestBuilder(fakeInitializer{errStop: xerrors.New("oops")})
	builder.sigs <- syscall.SIGTERM

	err = builder.start(flags)
	require.EqualError(t, err, "couldn't stop controller: oops")
}

func TestCLIBuilder_MakeAction(t *testing.T) {
	calls := fake.NewCall()

	builder := newTestBuilder()
	builder.daemonFactory = fakeFactory{calls: calls}

	fset := flag.NewFlagSet("", 0)
	fset.Duration("flag-1", time.Second, "")
	fset.Int("flag-2", 20, "")

	ctx := urfave.NewContext(makeApp(), fset, nil)

	err := builder.MakeAction(fakeAction{})(ctx)
	require.NoError(t, err)

	data := string(calls.Get(0, 0).([]byte))
	require.Equal(t, "\x00\x00"+`{"flag-1":1000000000,"flag-2":20}`, data)

	err = builder.MakeAction(fakeAction{})(FlagSet{})
	require.NoError(t, err)

	data = string(calls.Get(1, 0).([]byte))
	require.Equal(t, "\x01\x00{}", data)

	builder.daemonFactory = fakeFactory{err: xerrors.New("oops")}
	err = builder.MakeAction(fakeAction{})(ctx)
	require.EqualError(t, err, "couldn't make client: oops")

	builder.daemonFactory = fakeFactory{calls: calls, errClient: xerrors.New("oops")}
	err = builder.MakeAction(fakeAction{})(ctx)
	require.EqualError(t, err, "oops")
}

func TestCLIBuilder_Build(t *testing.T) {
	builder := newTestBuilder(fakeInitializer{})
	builder.daemonFactory = fakeFactory{}

	cb := builder.SetCommand("test")
	cb.SetDescription("test description")
	cb.SetAction(builder.MakeAction(fakeAction{}))
	cb.SetFlags(cli.StringFlag{Name: "string-flag"})

	sub := cb.SetSubCommand("subtest")
	sub.SetDescription("subtest description")
	sub.SetFlags(cli.DurationFlag{Name: "a"}, cli.IntFlag{Name: "b"}, cli.BoolFlag{Name: "c"})

	cb = builder.SetCommand("another")
	cb.SetAction(func(cli.Flags) error {
		return nil
	})

	app := builder.Build().(*urfave.App)
	require.Equal(t, "test", app.Name)
	require.NotNil(t, app.Command("test"))
	require.NotNil(t, app.Command("another"))
	require.NotNil(t, app.Command("start"))
	require.Equal(t, ".test", app.Flags[0].(*urfave.StringFlag).Value)
}

// -----------------------------------------------------------------------------
// Utility functions

func newTestBuilder(inits ...Initializer) *CLIBuilder {
	return NewBuilderWithCfg("test", make(chan os.Signal, 1), io.Discard, inits...)
}

func makeApp() *urfave.App {
	return &urfave.App{
		Flags: []urfave.Flag{
			&urfave.DurationFlag{Name: "flag-1"},
			&urfave.IntFlag{Name: "flag-2"},
		},
	}
}
