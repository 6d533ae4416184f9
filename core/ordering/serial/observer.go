package serial

import (
	"context"

	"go.dedis.ch/dela-pool/core/ordering"
)

// observer forwards the events to a channel until the context is done.
//
// - implements core.Observer
type observer struct {
	ctx context.Context
	ch  chan ordering.Event
}

// NotifyCallback implements core.Observer.
func (o observer) NotifyCallback(event interface{}) {
	select {
	case o.ch <- event.(ordering.Event):
	case <-o.ctx.Done():
	}
}
