package integration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/dela-pool/contracts/pool"
	"go.dedis.ch/dela-pool/core/access"
	"go.dedis.ch/dela-pool/core/access/wallet"
	"go.dedis.ch/dela-pool/core/bank"
	"go.dedis.ch/dela-pool/core/execution/native"
	"go.dedis.ch/dela-pool/core/ordering/serial"
	"go.dedis.ch/dela-pool/core/store"
	"go.dedis.ch/dela-pool/core/store/kv"
)

// poolNode is a node running the pool contract on a database in a folder.
type poolNode struct {
	t      *testing.T
	db     kv.DB
	store  *kv.Store
	srvc   *serial.Service
	client pool.Client
	bank   bank.Bank
	wallet wallet.Wallet
}

func newPoolNode(t *testing.T, dir string, opts ...pool.LedgerOption) *poolNode {
	db, err := kv.New(filepath.Join(dir, "pool.db"))
	require.NoError(t, err)

	st, err := kv.NewStore(db, []byte("state"))
	require.NoError(t, err)

	ledger := pool.NewLedger(opts...)

	exec := native.NewExecution()
	pool.RegisterContract(exec, pool.NewContract(ledger, bank.NewBank()))

	srvc := serial.NewService(st, exec)

	return &poolNode{
		t:      t,
		db:     db,
		store:  st,
		srvc:   srvc,
		client: pool.NewClient(srvc, ledger),
		bank:   bank.NewBank(),
		wallet: wallet.NewWallet(filepath.Join(dir, "accounts")),
	}
}

// fund creates the accounts if necessary and mints the amount for each of
// them.
func (n *poolNode) fund(amount bank.Amount, names ...string) []wallet.Account {
	accounts := make([]wallet.Account, len(names))

	for i, name := range names {
		account, err := n.wallet.Get(name)
		if err != nil {
			account, err = n.wallet.Create(name)
			require.NoError(n.t, err)
		}

		accounts[i] = account
	}

	err := n.store.Stage(func(snap store.Snapshot) error {
		for _, account := range accounts {
			addr, err := account.GetAddress()
			if err != nil {
				return err
			}

			err = n.bank.Mint(snap, addr, amount)
			if err != nil {
				return err
			}
		}

		return nil
	})
	require.NoError(n.t, err)

	return accounts
}

func (n *poolNode) balanceOf(addr access.Address) bank.Amount {
	var balance bank.Amount

	err := n.srvc.Read(func(snap store.Readable) error {
		var err error
		balance, err = n.bank.BalanceOf(snap, addr)

		return err
	})
	require.NoError(n.t, err)

	return balance
}

func (n *poolNode) addressOf(account wallet.Account) access.Address {
	addr, err := account.GetAddress()
	require.NoError(n.t, err)

	return addr
}

// total returns the sum of the balances of the accounts and of the custody of
// the pools.
func (n *poolNode) total(accounts []wallet.Account, pools ...pool.ID) bank.Amount {
	var sum bank.Amount

	for _, account := range accounts {
		sum += n.balanceOf(n.addressOf(account))
	}

	for _, id := range pools {
		sum += n.balanceOf(pool.Custody(id))
	}

	return sum
}

func (n *poolNode) close() {
	require.NoError(n.t, n.db.Close())
}
