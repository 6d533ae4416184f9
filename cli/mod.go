// Package cli defines the abstraction to build the command line of an
// application from independent modules. Each module sets its own commands and
// flags on the builder, and the implementation turns them into an application.
//
// 	builder := ucli.NewBuilder("poold", nil)
//
// 	cmd := builder.SetCommand("version")
// 	cmd.SetDescription("print the version")
// 	cmd.SetAction(func(flags Flags) error {
// 		fmt.Println("v1")
// 		return nil
// 	})
//
// 	builder.Build().Run(os.Args)
package cli

import (
	"time"
)

// Builder collects the commands of an application before building it.
type Builder interface {
	// SetCommand creates a new command with the given name and returns its
	// builder.
	SetCommand(name string) CommandBuilder

	// Build returns the application.
	Build() Application
}

// Application runs the command line arguments.
type Application interface {
	Run(arguments []string) error
}

// CommandBuilder defines a command, its flags and what it does when invoked.
type CommandBuilder interface {
	// SetDescription sets the value of the description for this command.
	SetDescription(value string)

	// SetFlags sets the flags for this command.
	SetFlags(...Flag)

	// SetAction sets the action for this command.
	SetAction(Action)

	// SetSubCommand creates a subcommand for this command.
	SetSubCommand(name string) CommandBuilder
}

// Action is executed when a command is invoked.
type Action func(Flags) error

// Flag is the definition of a flag. The name of a flag is unique among the
// flags of a command and the global flags.
type Flag interface {
	GetName() string
}

// Flags gives the values of the flags to an action. A flag that is not set
// returns the zero value of its type.
type Flags interface {
	String(name string) string

	Duration(name string) time.Duration

	Path(name string) string

	Int(name string) int

	Bool(name string) bool
}
