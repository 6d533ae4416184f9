package controller

import (
	"fmt"

	"go.dedis.ch/dela-pool/cli/node"
	"go.dedis.ch/dela-pool/core/ordering/serial"
	"golang.org/x/xerrors"
)

type indexAction struct{}

// Execute implements node.ActionTemplate. It prints the number of transactions
// accepted by the ordering service.
func (indexAction) Execute(ctx node.Context) error {
	var srvc *serial.Service
	err := ctx.Injector.Resolve(&srvc)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	index, err := srvc.GetIndex()
	if err != nil {
		return xerrors.Errorf("failed to read index: %v", err)
	}

	fmt.Fprintf(ctx.Out, "%d", index)

	return nil
}
