package controller

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.dedis.ch/dela-pool"
	"go.dedis.ch/dela-pool/contracts/pool"
	"go.dedis.ch/dela-pool/core/access"
	"golang.org/x/xerrors"
)

// PoolView is the JSON representation of a pool served by the proxy. The
// amounts are in coins.
type PoolView struct {
	ID           pool.ID          `json:"id"`
	Admin        access.Address   `json:"admin"`
	Participants []access.Address `json:"participants"`
	Balance      string           `json:"balance"`
	Round        uint64           `json:"round"`
	LastWinner   access.Address   `json:"last_winner,omitempty"`
	LastPrize    string           `json:"last_prize,omitempty"`
}

func newPoolView(id pool.ID, state pool.State) PoolView {
	view := PoolView{
		ID:           id,
		Admin:        state.Admin,
		Participants: state.Participants,
		Balance:      state.Balance.String(),
		Round:        state.Round,
		LastWinner:   state.LastWinner,
	}

	if view.Participants == nil {
		view.Participants = []access.Address{}
	}

	if state.Round > 0 {
		view.LastPrize = state.LastPrize.String()
	}

	return view
}

// handler serves the view of the pool identified by the last element of the
// path.
type handler struct {
	client pool.Client
	prefix string
}

func newHandler(client pool.Client, prefix string) handler {
	return handler{
		client: client,
		prefix: prefix,
	}
}

// ServeHTTP implements http.Handler.
func (h handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "only GET is allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, h.prefix)
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "invalid pool identifier", http.StatusBadRequest)
		return
	}

	state, err := h.client.Open(pool.ID(id)).Info()
	if xerrors.Is(err, pool.ErrUnknownPool) {
		http.Error(w, "pool not found", http.StatusNotFound)
		return
	}
	if err != nil {
		dela.Logger.Err(err).Str("pool", id).Msg("failed to read pool")
		http.Error(w, "failed to read pool", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	err = json.NewEncoder(w).Encode(newPoolView(pool.ID(id), state))
	if err != nil {
		dela.Logger.Err(err).Msg("failed to encode pool")
	}
}
