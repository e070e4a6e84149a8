package keystore

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/lover33/elixir-omg/account"
	"github.com/lover33/elixir-omg/crypto"
)

// record is the plaintext JSON document encrypted to disk. Mnemonic is
// kept so a restored keystore can still derive further accounts.
type record struct {
	Mnemonic       string `json:"mnemonic"`
	DerivationPath string `json:"derivationPath"`
	PrivateKeyHex  string `json:"privateKeyHex"`
}

// Save encrypts keys under passphrase and writes the envelope to path.
func Save(path string, keys *account.Keys, passphrase string) error {
	rec := record{
		Mnemonic:       keys.Mnemonic,
		DerivationPath: keys.AccountKey.DerivationPath,
		PrivateKeyHex:  hex.EncodeToString(ethcrypto.FromECDSA(keys.AccountKey.PrivateKey)),
	}
	plaintext, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling keystore record: %w", err)
	}
	envelope, err := Encrypt(passphrase, plaintext)
	if err != nil {
		return fmt.Errorf("encrypting keystore: %w", err)
	}
	if err := os.WriteFile(path, []byte(envelope), 0o600); err != nil {
		return fmt.Errorf("writing keystore file %s: %w", path, err)
	}
	return nil
}

// Load decrypts the keystore file at path under passphrase and reconstructs
// its account key.
func Load(path string, passphrase string) (*account.Keys, error) {
	envelope, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keystore file %s: %w", path, err)
	}
	plaintext, err := Decrypt(passphrase, string(envelope))
	if err != nil {
		return nil, fmt.Errorf("decrypting keystore: %w", err)
	}

	var rec record
	if err := json.Unmarshal(plaintext, &rec); err != nil {
		return nil, fmt.Errorf("unmarshalling keystore record: %w", err)
	}

	priv, err := ethcrypto.HexToECDSA(rec.PrivateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("parsing stored private key: %w", err)
	}

	return &account.Keys{
		Mnemonic: rec.Mnemonic,
		AccountKey: &account.AccountKey{
			PrivateKey:     priv,
			Address:        crypto.PublicKeyToAddress(&priv.PublicKey),
			DerivationPath: rec.DerivationPath,
		},
	}, nil
}
