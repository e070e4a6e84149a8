package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lover33/elixir-omg/tx"
)

type decodeFlags struct {
	hexBlob string
}

func newDecodeCmd(root *rootConfiguration) *cobra.Command {
	flags := &decodeFlags{}
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a hex-encoded signed transaction and print its fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.hexBlob, "hex", "", "hex-encoded signed transaction (required)")
	_ = cmd.MarkFlagRequired("hex")
	return cmd
}

func runDecode(cmd *cobra.Command, flags *decodeFlags) error {
	raw, err := hex.DecodeString(strings.TrimPrefix(flags.hexBlob, "0x"))
	if err != nil {
		return fmt.Errorf("decoding hex: %w", err)
	}

	signed, err := tx.Decode(raw)
	if err != nil {
		return fmt.Errorf("decoding transaction: %w", err)
	}

	out := cmd.OutOrStdout()
	rawTx := signed.RawTx()
	hash := tx.Hash(rawTx)
	fmt.Fprintf(out, "hash:     %x\n", hash)
	fmt.Fprintf(out, "currency: %s\n", rawTx.Currency())
	for i, in := range rawTx.Inputs() {
		fmt.Fprintf(out, "input[%d]:  blknum=%d txindex=%d oindex=%d padding=%v\n", i, in.Blknum, in.Txindex, in.Oindex, in.IsPadding())
	}
	for i, o := range rawTx.Outputs() {
		fmt.Fprintf(out, "output[%d]: owner=%s amount=%s padding=%v\n", i, o.Owner, o.Amount, o.IsPadding())
	}
	fmt.Fprintf(out, "fee:      %s\n", rawTx.Fee())

	spender1, spender2, err := tx.RecoverSpenders(signed)
	if err != nil {
		return fmt.Errorf("recovering spenders: %w", err)
	}
	if spender1 != nil {
		fmt.Fprintf(out, "spender1: %s\n", spender1)
	}
	if spender2 != nil {
		fmt.Fprintf(out, "spender2: %s\n", spender2)
	}
	return nil
}
