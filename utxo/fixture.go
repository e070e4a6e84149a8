package utxo

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/holiman/uint256"

	"github.com/lover33/elixir-omg/tx"
	"github.com/lover33/elixir-omg/txbuilder"
)

// fixtureEntry is the human/test-fixture-friendly shape: addresses and
// amounts as plain hex/decimal strings rather than wire types, so fixture
// files stay readable.
type fixtureEntry struct {
	Blknum   uint64 `cbor:"blknum"`
	Txindex  uint64 `cbor:"txindex"`
	Oindex   uint8  `cbor:"oindex"`
	Owner    string `cbor:"owner"`
	Currency string `cbor:"currency"`
	Amount   string `cbor:"amount"`
}

// LoadFixture reads a CBOR-encoded list of fixture entries from path and
// loads them into store, whether that's an in-memory Store or a BoltStore.
// Used by tests and by cmd/omgtx's devnet seeding.
func LoadFixture(path string, store EntryStore) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading fixture %s: %w", path, err)
	}

	var entries []fixtureEntry
	if err := cbor.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decoding fixture %s: %w", path, err)
	}

	for i, fe := range entries {
		entry, err := fe.toEntry()
		if err != nil {
			return fmt.Errorf("fixture entry %d: %w", i, err)
		}
		if err := store.Put(entry); err != nil {
			return fmt.Errorf("fixture entry %d: storing: %w", i, err)
		}
	}
	return nil
}

func (fe fixtureEntry) toEntry() (Entry, error) {
	owner, err := parseAddress(fe.Owner)
	if err != nil {
		return Entry{}, fmt.Errorf("owner: %w", err)
	}
	currency, err := parseAddress(fe.Currency)
	if err != nil {
		return Entry{}, fmt.Errorf("currency: %w", err)
	}
	amount := new(uint256.Int)
	if err := amount.SetFromDecimal(fe.Amount); err != nil {
		return Entry{}, fmt.Errorf("amount %q: %w", fe.Amount, err)
	}

	return Entry{
		Owner: tx.Owner(owner),
		UTXO: txbuilder.UTXO{
			Blknum:   fe.Blknum,
			Txindex:  fe.Txindex,
			Oindex:   fe.Oindex,
			Amount:   amount,
			Currency: tx.Currency(currency),
		},
	}, nil
}

func parseAddress(hexAddr string) ([20]byte, error) {
	var out [20]byte
	b, err := hex.DecodeString(strings.TrimPrefix(hexAddr, "0x"))
	if err != nil {
		return out, fmt.Errorf("invalid hex address %q: %w", hexAddr, err)
	}
	if len(b) != 20 {
		return out, fmt.Errorf("address %q is %d bytes, want 20", hexAddr, len(b))
	}
	copy(out[:], b)
	return out, nil
}
