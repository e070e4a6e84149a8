package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/lover33/elixir-omg/crypto"
	"github.com/lover33/elixir-omg/keystore"
	"github.com/lover33/elixir-omg/logger"
	"github.com/lover33/elixir-omg/tx"
	"github.com/lover33/elixir-omg/txbuilder"
	"github.com/lover33/elixir-omg/utxo"
)

type buildFlags struct {
	keystorePath string
	passphrase   string
	fixturePath  string
	boltPath     string
	to           string
	amount       string
	fee          string
}

func newBuildCmd(root *rootConfiguration) *cobra.Command {
	flags := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build and sign a transaction spending the owner's UTXOs from a fixture file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, root, flags)
		},
	}
	cmd.Flags().StringVar(&flags.keystorePath, "keystore", "", "path to the spender's encrypted keystore file (required)")
	cmd.Flags().StringVar(&flags.passphrase, "passphrase", "", "keystore passphrase; prompted interactively if empty")
	cmd.Flags().StringVar(&flags.fixturePath, "utxo-fixture", "", "CBOR UTXO fixture file to load as available outputs (required)")
	cmd.Flags().StringVar(&flags.boltPath, "bolt", "", "bbolt file to load/persist the UTXO set in, instead of an in-memory store")
	cmd.Flags().StringVar(&flags.to, "to", "", "receiver address, 0x-prefixed hex (required)")
	cmd.Flags().StringVar(&flags.amount, "amount", "", "amount to send, decimal (required)")
	cmd.Flags().StringVar(&flags.fee, "fee", "0", "flat fee, decimal")
	for _, name := range []string{"keystore", "utxo-fixture", "to", "amount"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runBuild(cmd *cobra.Command, root *rootConfiguration, flags *buildFlags) error {
	log := newLogger(root)

	passphrase := flags.passphrase
	var err error
	if passphrase == "" {
		passphrase, err = promptPassphrase("Keystore passphrase: ")
		if err != nil {
			return fmt.Errorf("reading passphrase: %w", err)
		}
	}
	keys, err := keystore.Load(flags.keystorePath, passphrase)
	if err != nil {
		return fmt.Errorf("loading keystore: %w", err)
	}

	store, closeStore, err := openUTXOStore(flags.boltPath)
	if err != nil {
		return fmt.Errorf("opening utxo store: %w", err)
	}
	defer closeStore()
	if err := utxo.LoadFixture(flags.fixturePath, store); err != nil {
		return fmt.Errorf("loading utxo fixture: %w", err)
	}

	receiverAddr, err := parseHexAddress(flags.to)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}
	amount := new(uint256.Int)
	if err := amount.SetFromDecimal(flags.amount); err != nil {
		return fmt.Errorf("--amount: %w", err)
	}
	fee := new(uint256.Int)
	if err := fee.SetFromDecimal(flags.fee); err != nil {
		return fmt.Errorf("--fee: %w", err)
	}

	owner := tx.Owner(keys.AccountKey.Address)
	raw, err := txbuilder.BuildFromOwner(context.Background(), store, owner, owner,
		txbuilder.Receiver{Address: tx.Owner(receiverAddr), Amount: amount}, fee)
	if err != nil {
		return fmt.Errorf("building transaction: %w", err)
	}

	// Every non-padding input is this wallet's own, so both slots sign
	// with the same key; a padding slot (fewer than two spendable UTXOs)
	// gets the null signature tx.RecoverSpenders expects for it.
	signerFor := func(in tx.InputRef) crypto.SignerKey {
		if in.IsPadding() {
			return crypto.NoKey()
		}
		return keys.AccountKey.SignerKey()
	}
	inputs := raw.Inputs()
	signed, err := tx.Sign(raw, signerFor(inputs[0]), signerFor(inputs[1]))
	if err != nil {
		return fmt.Errorf("signing transaction: %w", err)
	}
	wire, err := signed.Encode()
	if err != nil {
		return fmt.Errorf("encoding signed transaction: %w", err)
	}

	hash := tx.Hash(raw)
	log.Info("transaction built", logger.TxHash(hash), logger.Address("spender", keys.AccountKey.Address))
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(wire))
	return nil
}

// utxoStore is what runBuild needs from a UTXO set: loadable via
// utxo.LoadFixture and queryable via txbuilder.Source. Both utxo.Store and
// utxo.BoltStore satisfy it.
type utxoStore interface {
	utxo.EntryStore
	txbuilder.Source
}

// openUTXOStore returns an in-memory store, or a BoltStore backed by
// boltPath if one is given, along with the func to release it.
func openUTXOStore(boltPath string) (utxoStore, func(), error) {
	if boltPath == "" {
		return utxo.NewStore(), func() {}, nil
	}
	bolt, err := utxo.OpenBoltStore(boltPath)
	if err != nil {
		return nil, nil, err
	}
	return bolt, func() { _ = bolt.Close() }, nil
}

func parseHexAddress(s string) (crypto.Address, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return crypto.Address{}, err
	}
	if len(b) != crypto.AddressLength {
		return crypto.Address{}, fmt.Errorf("address %q is %d bytes, want %d", s, len(b), crypto.AddressLength)
	}
	return crypto.BytesToAddress(b), nil
}
