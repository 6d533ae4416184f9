// This file contains the implementation of a CLI builder.

package node

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	urfave "github.com/urfave/cli/v2"
	"go.dedis.ch/dela-pool"
	"go.dedis.ch/dela-pool/cli"
	"go.dedis.ch/dela-pool/cli/ucli"
	"golang.org/x/xerrors"
)

// ConfigFlag is the name of the global flag with the path to the folder of the
// node. The folder holds the daemon socket and the files of the components.
const ConfigFlag = "config"

// CLIBuilder is an application builder that will build a CLI to start and
// control a node.
//
// - implements node.Builder
// - implements cli.Builder
type CLIBuilder struct {
	cli.Builder

	daemonFactory DaemonFactory
	injector      Injector
	actions       *actionMap
	startFlags    []cli.Flag
	inits         []Initializer

	// In production, the daemon is stopped via SIGTERM. In case of testing, the
	// channel will be closed instead, because of instability.
	enableSignal bool
	sigs         chan os.Signal
}

// NewBuilder returns a new empty builder for an application with the given
// name. The default config folder is the hidden folder of the name.
func NewBuilder(name string, inits ...Initializer) *CLIBuilder {
	return NewBuilderWithCfg(name, nil, nil, inits...)
}

// NewBuilderWithCfg returns a new empty builder with specific configurations.
// A nil channel means the daemon listens for the termination signals, and a
// nil writer means the standard output.
func NewBuilderWithCfg(name string, sigs chan os.Signal, out io.Writer,
	inits ...Initializer) *CLIBuilder {

	if out == nil {
		out = os.Stdout
	}

	enabled := false

	if sigs == nil {
		sigs = make(chan os.Signal, 1)
		enabled = true
	}

	injector := NewInjector()

	actions := &actionMap{}

	factory := socketFactory{
		injector: injector,
		actions:  actions,
		out:      out,
	}

	builder := ucli.NewBuilder(name, nil, cli.StringFlag{
		Name:  ConfigFlag,
		Usage: "path to the config folder",
		Value: "." + name,
	})

	return &CLIBuilder{
		Builder:       builder,
		injector:      injector,
		actions:       actions,
		daemonFactory: factory,
		enableSignal:  enabled,
		sigs:          sigs,
		inits:         inits,
	}
}

// SetStartFlags implements node.Builder. It appends the given flags to the list
// of flags that will be used to create the start command.
func (b *CLIBuilder) SetStartFlags(flags ...cli.Flag) {
	b.startFlags = append(b.startFlags, flags...)
}

// MakeAction implements node.Builder. It creates a CLI action from the
// template. The action sends the identifier of the template and the flags of
// the command to the daemon.
func (b *CLIBuilder) MakeAction(tmpl ActionTemplate) cli.Action {
	index := b.actions.Set(tmpl)

	return func(c cli.Flags) error {
		client, err := b.daemonFactory.ClientFromContext(c)
		if err != nil {
			return xerrors.Errorf("couldn't make client: %v", err)
		}

		// The action ID is encoded over 2 bytes.
		id := make([]byte, 2)
		binary.LittleEndian.PutUint16(id, index)

		fset := make(FlagSet)

		ctx, ok := c.(*urfave.Context)
		if ok {
			lookupFlags(fset, ctx)
		}

		buf, err := json.Marshal(fset)
		if err != nil {
			return xerrors.Errorf("failed to marshal flag set: %v", err)
		}

		err = client.Send(append(id, buf...))
		if err != nil {
			return xerrors.Opaque(err)
		}

		return nil
	}
}

// lookupFlags collects the flags of the command and of its ancestors.
func lookupFlags(fset FlagSet, ctx *urfave.Context) {
	for _, ancestor := range ctx.Lineage() {
		if ancestor.Command != nil {
			fill(fset, ancestor.Command.Flags, ancestor)
		}

		if ancestor.App != nil {
			fill(fset, ancestor.App.Flags, ancestor)
		}
	}
}

func fill(fset FlagSet, flags []urfave.Flag, ctx *urfave.Context) {
	for _, flag := range flags {
		names := flag.Names()
		if len(names) == 0 {
			continue
		}

		// The closest command wins when a flag is defined twice.
		_, found := fset[names[0]]
		if !found {
			fset[names[0]] = ctx.Value(names[0])
		}
	}
}

// Build implements cli.Builder. It returns the application.
func (b *CLIBuilder) Build() cli.Application {
	for _, controller := range b.inits {
		controller.SetCommands(b)
	}

	cmd := b.SetCommand("start")
	cmd.SetDescription("start the daemon")
	cmd.SetFlags(b.startFlags...)
	cmd.SetAction(b.start)

	return b.Builder.Build()
}

func (b *CLIBuilder) start(flags cli.Flags) error {
	if b.enableSignal {
		signal.Notify(b.sigs, syscall.SIGINT, syscall.SIGTERM)

		defer signal.Stop(b.sigs)
	}

	dir := flags.Path(ConfigFlag)
	if dir != "" {
		err := os.MkdirAll(dir, 0700)
		if err != nil {
			return xerrors.Errorf("couldn't make path: %v", err)
		}
	}

	daemon, err := b.daemonFactory.DaemonFromContext(flags)
	if err != nil {
		return xerrors.Errorf("couldn't make daemon: %v", err)
	}

	for _, controller := range b.inits {
		err = controller.OnStart(flags, b.injector)
		if err != nil {
			return xerrors.Errorf("couldn't run the controller: %v", err)
		}
	}

	// Daemon is started after the controllers so that everything has started
	// when the daemon is available.
	err = daemon.Listen()
	if err != nil {
		return xerrors.Errorf("couldn't start the daemon: %v", err)
	}

	defer daemon.Close()

	dela.Logger.Info().Str("config", dir).Msg("daemon has started")

	<-b.sigs

	// Controllers are stopped in reverse order so that high level components
	// are stopped before lower level ones (i.e. stop a service before the
	// database to avoid errors).
	for i := len(b.inits) - 1; i >= 0; i-- {
		err = b.inits[i].OnStop(b.injector)
		if err != nil {
			return xerrors.Errorf("couldn't stop controller: %v", err)
		}
	}

	dela.Logger.Info().Msg("daemon has been stopped")

	return nil
}

// actionMap stores actions and assigns a unique index to each.
type actionMap struct {
	list []ActionTemplate
}

func (m *actionMap) Set(a ActionTemplate) uint16 {
	m.list = append(m.list, a)
	return uint16(len(m.list) - 1)
}

func (m *actionMap) Get(index uint16) ActionTemplate {
	if int(index) >= len(m.list) {
		return nil
	}

	return m.list[index]
}
