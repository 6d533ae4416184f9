// Package main implements the daemon of the pools. It runs a node that orders
// the transactions of the pool contract on a persistent store, and it provides
// the commands to drive the pools with the accounts of the node.
//
// Unix example:
//
//	# Start the daemon in the background.
//	poold --config /tmp/node1 start --minstake 0.01 &
//
//	# Create two accounts and fund them.
//	poold --config /tmp/node1 account new --name alice
//	poold --config /tmp/node1 account new --name bob
//	poold --config /tmp/node1 bank mint --account alice --amount 1
//	poold --config /tmp/node1 bank mint --account bob --amount 1
//
//	# Deploy a pool, join it and finalize the round.
//	ID=$(poold --config /tmp/node1 pool deploy --account alice)
//	poold --config /tmp/node1 pool join --account alice --pool $ID --stake 0.1
//	poold --config /tmp/node1 pool join --account bob --pool $ID --stake 0.1
//	poold --config /tmp/node1 pool finalize --account alice --pool $ID
//
//	# Serve the pools and the metrics over HTTP.
//	poold --config /tmp/node1 proxy start --clientaddr 127.0.0.1:8080
//	poold --config /tmp/node1 pool http
//	poold --config /tmp/node1 proxy prom
package main

import (
	"fmt"
	"io"
	"os"

	"go.dedis.ch/dela-pool/cli/node"
	pool "go.dedis.ch/dela-pool/contracts/pool/controller"
	wallet "go.dedis.ch/dela-pool/core/access/wallet/controller"
	bank "go.dedis.ch/dela-pool/core/bank/controller"
	ordering "go.dedis.ch/dela-pool/core/ordering/serial/controller"
	db "go.dedis.ch/dela-pool/core/store/kv/controller"
	proxy "go.dedis.ch/dela-pool/proxy/http/controller"
)

func main() {
	err := run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	return runWithCfg(args, config{})
}

// config allows the tests to stop the daemon and to capture the output.
type config struct {
	Channel chan os.Signal
	Writer  io.Writer
}

func runWithCfg(args []string, cfg config) error {
	builder := node.NewBuilderWithCfg(
		"poold",
		cfg.Channel,
		cfg.Writer,
		db.NewController(),
		wallet.NewController(),
		bank.NewController(),
		ordering.NewController(),
		pool.NewController(),
		proxy.NewController(),
	)

	app := builder.Build()

	return app.Run(args)
}
