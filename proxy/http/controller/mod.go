// Package controller implements the controller of the http proxy, which adds
// the commands to start the server and to serve the metrics.
package controller

import (
	"go.dedis.ch/dela-pool/cli"
	"go.dedis.ch/dela-pool/cli/node"
	"go.dedis.ch/dela-pool/proxy"
)

const defaultAddr = "127.0.0.1:8080"

const defaultProm = "/metrics"

// NewController returns a new initializer of the proxy.
func NewController() node.Initializer {
	return controller{}
}

// controller is an initializer with the commands of the proxy. The server is
// created and injected by the start command.
//
// - implements node.Initializer
type controller struct{}

// SetCommands implements node.Initializer.
func (controller) SetCommands(builder node.Builder) {
	cmd := builder.SetCommand("proxy")
	sub := cmd.SetSubCommand("start")

	sub.SetDescription("start the proxy http server")
	sub.SetFlags(cli.StringFlag{
		Name:     "clientaddr",
		Required: false,
		Usage:    "the address of the http client",
		Value:    defaultAddr,
	})
	sub.SetAction(builder.MakeAction(startAction{}))

	sub = cmd.SetSubCommand("prom")

	sub.SetDescription("registers the collectors and starts a prometheus handler. " +
		"Will fail if the path is used more than once.")
	sub.SetFlags(cli.StringFlag{
		Name:     "path",
		Required: false,
		Usage:    "the handler path",
		Value:    defaultProm,
	})
	sub.SetAction(builder.MakeAction(promAction{}))
}

// OnStart implements node.Initializer. The proxy is started by a command.
func (controller) OnStart(cli.Flags, node.Injector) error {
	return nil
}

// OnStop implements node.Initializer. It stops the http server if it has been
// started.
func (controller) OnStop(inj node.Injector) error {
	var srv proxy.Proxy

	err := inj.Resolve(&srv)
	if err == nil {
		srv.Stop()
	}

	return nil
}
