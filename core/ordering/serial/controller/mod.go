// Package controller implements the controller of the serial ordering
// service. It creates the execution service and the ordering service on top of
// the store of the node.
package controller

import (
	"context"
	"sync"

	"go.dedis.ch/dela-pool"
	"go.dedis.ch/dela-pool/cli"
	"go.dedis.ch/dela-pool/cli/node"
	"go.dedis.ch/dela-pool/core/execution/native"
	"go.dedis.ch/dela-pool/core/ordering"
	"go.dedis.ch/dela-pool/core/ordering/serial"
	"go.dedis.ch/dela-pool/core/store"
	"golang.org/x/xerrors"
)

// controller is the initializer of the ordering service.
//
// - implements node.Initializer
type controller struct {
	sync.Mutex

	cancel context.CancelFunc
	done   chan struct{}
}

// NewController returns a new initializer of the serial ordering service.
func NewController() node.Initializer {
	return &controller{}
}

// SetCommands implements node.Initializer.
func (m *controller) SetCommands(builder node.Builder) {
	cmd := builder.SetCommand("ordering")
	cmd.SetDescription("inspect the ordering service")

	sub := cmd.SetSubCommand("index")
	sub.SetDescription("print the number of accepted transactions")
	sub.SetAction(builder.MakeAction(indexAction{}))
}

// OnStart implements node.Initializer. It resolves the store and injects the
// native execution service and the ordering service. The accepted transactions
// are logged until the node stops.
func (m *controller) OnStart(flags cli.Flags, inj node.Injector) error {
	var st store.Store
	err := inj.Resolve(&st)
	if err != nil {
		return xerrors.Errorf("failed to resolve store: %v", err)
	}

	exec := native.NewExecution()
	srvc := serial.NewService(st, exec)

	inj.Inject(exec)
	inj.Inject(srvc)

	ctx, cancel := context.WithCancel(context.Background())

	m.Lock()
	m.cancel = cancel
	m.done = make(chan struct{})
	done := m.done
	m.Unlock()

	go logEvents(srvc.Watch(ctx), done)

	return nil
}

// OnStop implements node.Initializer. It stops watching the service.
func (m *controller) OnStop(node.Injector) error {
	m.Lock()
	defer m.Unlock()

	if m.cancel != nil {
		m.cancel()
		<-m.done

		m.cancel = nil
	}

	return nil
}

func logEvents(events <-chan ordering.Event, done chan struct{}) {
	defer close(done)

	logger := dela.Logger.With().Str("role", "ordering").Logger()

	for evt := range events {
		if evt.Accepted {
			logger.Info().Uint64("index", evt.Index).Hex("tx", evt.TxID).Msg("accepted")
		} else {
			logger.Warn().Hex("tx", evt.TxID).Str("reason", evt.Message).Msg("rejected")
		}
	}
}
