package txbuilder

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/lover33/elixir-omg/tx"
)

// Source is the "UTXO lookup" external collaborator named in spec §6,
// scoped down to what the builder needs: the set of UTXOs a given owner
// can currently spend. The operator's real state actor, or this repo's
// own utxo package, implement it; CreateFromUTXOs itself never calls it
// directly, keeping the pure algorithm free of I/O.
type Source interface {
	UTXOsByOwner(ctx context.Context, owner tx.Owner) ([]UTXO, error)
}

// BuildFromOwner resolves owner's spendable UTXOs through src, then
// delegates to CreateFromUTXOs. It takes at most tx.InputCount of the
// returned UTXOs (in the order src returns them) — callers that need a
// particular selection strategy (largest-first, exact-match, …) should
// call CreateFromUTXOs directly with a pre-selected slice instead.
func BuildFromOwner(ctx context.Context, src Source, owner tx.Owner, changeAddress tx.Owner, receiver Receiver, fee *uint256.Int) (tx.RawTx, error) {
	utxos, err := src.UTXOsByOwner(ctx, owner)
	if err != nil {
		return tx.RawTx{}, fmt.Errorf("looking up UTXOs for %s: %w", owner, err)
	}
	if len(utxos) > tx.InputCount {
		utxos = utxos[:tx.InputCount]
	}
	return CreateFromUTXOs(utxos, changeAddress, receiver, fee)
}
