// Package controller implements the controller of the database, which opens
// the persistent store of the node.
package controller

import (
	"path/filepath"
	"time"

	"go.dedis.ch/dela-pool/cli"
	"go.dedis.ch/dela-pool/cli/node"
	"go.dedis.ch/dela-pool/core/store/kv"
	"golang.org/x/xerrors"
)

// DBName is the name of the database file in the configuration folder.
const DBName = "pool.db"

// openTimeout is the time to wait for the database file when another node is
// using the same configuration folder.
const openTimeout = 2 * time.Second

var bucket = []byte("state")

type controller struct{}

// NewController returns an initializer that injects the database and the
// store of the state.
func NewController() node.Initializer {
	return controller{}
}

// SetCommands implements node.Initializer. The database has no command.
func (m controller) SetCommands(builder node.Builder) {}

// OnStart implements node.Initializer. It opens the database and injects it
// alongside the store using its state bucket.
func (m controller) OnStart(flags cli.Flags, inj node.Injector) error {
	db, err := kv.New(filepath.Join(flags.String(node.ConfigFlag), DBName),
		kv.WithTimeout(openTimeout))
	if err != nil {
		return xerrors.Errorf("db: %v", err)
	}

	st, err := kv.NewStore(db, bucket)
	if err != nil {
		db.Close()
		return xerrors.Errorf("store: %v", err)
	}

	inj.Inject(db)
	inj.Inject(st)

	return nil
}

// OnStop implements node.Initializer. It closes the database.
func (m controller) OnStop(inj node.Injector) error {
	var db kv.DB
	err := inj.Resolve(&db)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	err = db.Close()
	if err != nil {
		return xerrors.Errorf("while closing db: %v", err)
	}

	return nil
}
