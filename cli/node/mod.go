// Package node builds the command line of a node from its initializers.
//
// The "start" command runs the daemon, which starts every initializer and
// keeps the components they inject. The other commands are either executed
// by the command line process itself, or sent through a socket to the
// running daemon where they can resolve the components.
package node

import (
	"io"

	"go.dedis.ch/dela-pool/cli"
)

// Builder is given to the initializers to set their commands.
type Builder interface {
	// SetCommand creates a new command and returns its builder.
	SetCommand(name string) cli.CommandBuilder

	// SetStartFlags appends a list of flags that will be used to create the
	// start command.
	SetStartFlags(...cli.Flag)

	// MakeAction returns an action that sends the flags to the daemon, where
	// the template is executed.
	MakeAction(ActionTemplate) cli.Action
}

// ActionTemplate is the part of an action executed by the daemon.
type ActionTemplate interface {
	// Execute runs the command with the flags received from the CLI.
	Execute(Context) error
}

// Context gives an action template the components of the daemon, the flags of
// the command and the output sent back to the CLI.
type Context struct {
	Injector Injector
	Flags    cli.Flags
	Out      io.Writer
}

// Injector stores the components of the daemon.
type Injector interface {
	// Resolve sets the pointer to a stored component of a compatible type.
	Resolve(interface{}) error

	// Inject stores the component.
	Inject(interface{})
}

// Initializer is implemented by the controller of each module of the node.
type Initializer interface {
	// SetCommands sets the commands and start flags of the module.
	SetCommands(Builder)

	// OnStart creates the components of the module and injects them. The
	// components of the initializers started before are available.
	OnStart(cli.Flags, Injector) error

	// OnStop releases the components, in the reverse order of the start.
	OnStop(Injector) error
}

// Client sends a command to the daemon and prints its output.
type Client interface {
	Send([]byte) error
}

// Daemon listens for the commands of the CLI.
type Daemon interface {
	Listen() error
	Close() error
}

// DaemonFactory is an interface to create a daemon and clients to connect to
// it.
type DaemonFactory interface {
	ClientFromContext(cli.Flags) (Client, error)
	DaemonFromContext(cli.Flags) (Daemon, error)
}
