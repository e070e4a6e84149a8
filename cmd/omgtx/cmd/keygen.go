package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lover33/elixir-omg/account"
	"github.com/lover33/elixir-omg/keystore"
	"github.com/lover33/elixir-omg/logger"
)

type keygenFlags struct {
	mnemonic     string
	keystorePath string
	passphrase   string
}

func newKeygenCmd(root *rootConfiguration) *cobra.Command {
	flags := &keygenFlags{}
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate (or restore) a wallet key and write it to an encrypted keystore file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeygen(cmd, root, flags)
		},
	}
	cmd.Flags().StringVar(&flags.mnemonic, "mnemonic", "", "restore from this BIP-39 mnemonic instead of generating a new one")
	cmd.Flags().StringVar(&flags.keystorePath, "keystore", "", "path to write the encrypted keystore file (required)")
	cmd.Flags().StringVar(&flags.passphrase, "passphrase", "", "keystore passphrase; prompted interactively if empty")
	_ = cmd.MarkFlagRequired("keystore")
	return cmd
}

func runKeygen(cmd *cobra.Command, root *rootConfiguration, flags *keygenFlags) error {
	log := newLogger(root)

	keys, err := account.NewKeys(flags.mnemonic)
	if err != nil {
		return fmt.Errorf("deriving keys: %w", err)
	}

	passphrase := flags.passphrase
	if passphrase == "" {
		passphrase, err = promptPassphrase("Keystore passphrase: ")
		if err != nil {
			return fmt.Errorf("reading passphrase: %w", err)
		}
	}

	if err := keystore.Save(flags.keystorePath, keys, passphrase); err != nil {
		return fmt.Errorf("saving keystore: %w", err)
	}

	log.Info("wallet key generated", logger.Address("address", keys.AccountKey.Address))
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "address:    %s\n", keys.AccountKey.Address)
	fmt.Fprintf(out, "mnemonic:   %s\n", keys.Mnemonic)
	fmt.Fprintf(out, "keystore:   %s\n", flags.keystorePath)
	return nil
}

func promptPassphrase(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
