package controller

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.dedis.ch/dela-pool/cli/node"
	"go.dedis.ch/dela-pool/contracts/pool"
	"go.dedis.ch/dela-pool/core/access/wallet"
	"go.dedis.ch/dela-pool/core/bank"
	"go.dedis.ch/dela-pool/crypto"
	"go.dedis.ch/dela-pool/proxy"
	"golang.org/x/xerrors"
)

const defaultTimeout = 30 * time.Second

var randGen crypto.RandGenerator = crypto.CryptographicRandomGenerator{}

type deployAction struct{}

// Execute implements node.ActionTemplate. It deploys a pool and prints its
// identifier.
func (deployAction) Execute(ctx node.Context) error {
	client, account, err := resolveAccount(ctx)
	if err != nil {
		return err
	}

	c, cancel := submitContext(ctx)
	defer cancel()

	handle, err := client.Deploy(c, account.GetIdentity())
	if err != nil {
		return err
	}

	fmt.Fprint(ctx.Out, handle.GetID())

	return nil
}

type joinAction struct{}

// Execute implements node.ActionTemplate. It joins the current round of a pool
// with the stake of the account.
func (joinAction) Execute(ctx node.Context) error {
	client, account, err := resolveAccount(ctx)
	if err != nil {
		return err
	}

	stake, err := bank.ParseAmount(ctx.Flags.String("stake"))
	if err != nil {
		return xerrors.Errorf("failed to parse stake: %v", err)
	}

	c, cancel := submitContext(ctx)
	defer cancel()

	handle := client.Open(pool.ID(ctx.Flags.String("pool")))

	err = handle.Join(c, account.GetIdentity(), stake)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "%s joined %s with %s", account.Name, handle.GetID(), stake)

	return nil
}

type finalizeAction struct{}

// Execute implements node.ActionTemplate. It finalizes the current round of a
// pool and prints the winner.
func (finalizeAction) Execute(ctx node.Context) error {
	client, account, err := resolveAccount(ctx)
	if err != nil {
		return err
	}

	seed := []byte(ctx.Flags.String("seed"))
	if len(seed) == 0 {
		seed, err = crypto.NewSeed(randGen, crypto.SeedSize)
		if err != nil {
			return xerrors.Errorf("failed to generate seed: %v", err)
		}
	}

	c, cancel := submitContext(ctx)
	defer cancel()

	handle := client.Open(pool.ID(ctx.Flags.String("pool")))

	winner, err := handle.Finalize(c, account.GetIdentity(), seed)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "winner of %s is %s (seed %s)", handle.GetID(), winner,
		hex.EncodeToString(seed))

	return nil
}

type listAction struct{}

// Execute implements node.ActionTemplate. It prints the participants of the
// current round in join order, one per line.
func (listAction) Execute(ctx node.Context) error {
	client, err := resolveClient(ctx)
	if err != nil {
		return err
	}

	participants, err := client.Open(pool.ID(ctx.Flags.String("pool"))).Participants()
	if err != nil {
		return err
	}

	for _, p := range participants {
		fmt.Fprintln(ctx.Out, p)
	}

	return nil
}

type infoAction struct{}

// Execute implements node.ActionTemplate. It prints the state of a pool.
func (infoAction) Execute(ctx node.Context) error {
	client, err := resolveClient(ctx)
	if err != nil {
		return err
	}

	id := pool.ID(ctx.Flags.String("pool"))

	state, err := client.Open(id).Info()
	if err != nil {
		return err
	}

	if ctx.Flags.Bool("json") {
		data, err := json.Marshal(newPoolView(id, state))
		if err != nil {
			return xerrors.Errorf("failed to encode state: %v", err)
		}

		fmt.Fprint(ctx.Out, string(data))

		return nil
	}

	lines := []string{
		fmt.Sprintf("admin: %s", state.Admin),
		fmt.Sprintf("participants: %d", len(state.Participants)),
		fmt.Sprintf("balance: %s", state.Balance),
		fmt.Sprintf("round: %d", state.Round),
	}

	if state.Round > 0 {
		lines = append(lines,
			fmt.Sprintf("last winner: %s", state.LastWinner),
			fmt.Sprintf("last prize: %s", state.LastPrize))
	}

	fmt.Fprint(ctx.Out, strings.Join(lines, "\n"))

	return nil
}

type historyAction struct{}

// Execute implements node.ActionTemplate. It prints a finalized round.
func (historyAction) Execute(ctx node.Context) error {
	client, err := resolveClient(ctx)
	if err != nil {
		return err
	}

	number := ctx.Flags.Int("round")
	if number <= 0 {
		return xerrors.Errorf("invalid round %d", number)
	}

	round, err := client.Open(pool.ID(ctx.Flags.String("pool"))).History(uint64(number))
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "round %d won by %s: %s for %d entries",
		round.Number, round.Winner, round.Prize, round.Entries)

	return nil
}

type httpAction struct{}

// Execute implements node.ActionTemplate. It registers the handler of the
// pools on the proxy.
func (httpAction) Execute(ctx node.Context) error {
	client, err := resolveClient(ctx)
	if err != nil {
		return err
	}

	var srv proxy.Proxy
	err = ctx.Injector.Resolve(&srv)
	if err != nil {
		return xerrors.Errorf("failed to resolve the proxy: %v", err)
	}

	path := ctx.Flags.String("path")
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	srv.RegisterHandler(path, newHandler(client, path).ServeHTTP)

	fmt.Fprintf(ctx.Out, "registered pool service on %q", path)

	return nil
}

// submitContext returns the context of a transaction, that expires after the
// timeout of the flags.
func submitContext(ctx node.Context) (context.Context, context.CancelFunc) {
	timeout := ctx.Flags.Duration("timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return context.WithTimeout(context.Background(), timeout)
}

func resolveClient(ctx node.Context) (pool.Client, error) {
	var client pool.Client
	err := ctx.Injector.Resolve(&client)
	if err != nil {
		return client, xerrors.Errorf("injector: %v", err)
	}

	return client, nil
}

func resolveAccount(ctx node.Context) (pool.Client, wallet.Account, error) {
	client, err := resolveClient(ctx)
	if err != nil {
		return client, wallet.Account{}, err
	}

	var w wallet.Wallet
	err = ctx.Injector.Resolve(&w)
	if err != nil {
		return client, wallet.Account{}, xerrors.Errorf("injector: %v", err)
	}

	account, err := w.Get(ctx.Flags.String("account"))
	if err != nil {
		return client, wallet.Account{}, xerrors.Errorf("failed to get account: %v", err)
	}

	return client, account, nil
}
