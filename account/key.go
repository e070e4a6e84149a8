// Package account derives signing keys for a child-chain wallet: a BIP-39
// mnemonic, BIP-32 HD derivation down to a secp256k1 account key, the
// shape spec §4.1's SignerKey wraps. None of this is part of the
// transaction core (spec §1 names wallet key management an external
// concern) — it exists so cmd/omgtx has somewhere to get keys from other
// than a raw hex string on the command line.
package account

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	ethaccounts "github.com/ethereum/go-ethereum/accounts"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/lover33/elixir-omg/crypto"
)

const mnemonicEntropyBitSize = 128

// Keys holds the mnemonic a wallet was derived from and its first account
// key. Only AccountKey is needed for signing; Mnemonic/MasterKey let the
// caller derive further accounts or display a backup phrase.
type Keys struct {
	Mnemonic   string
	MasterKey  *hdkeychain.ExtendedKey
	AccountKey *AccountKey
}

// AccountKey is a single derived secp256k1 signing key.
type AccountKey struct {
	PrivateKey     *ecdsa.PrivateKey
	Address        crypto.Address
	DerivationPath string
}

// SignerKey adapts k for use with tx.Sign / tx.Sign's SignerKey parameter.
func (k *AccountKey) SignerKey() crypto.SignerKey {
	return crypto.RealKey(k.PrivateKey)
}

// NewKeys derives wallet keys from mnemonic, or generates a fresh mnemonic
// first if mnemonic is empty.
func NewKeys(mnemonic string) (*Keys, error) {
	if mnemonic == "" {
		var err error
		mnemonic, err = generateMnemonic()
		if err != nil {
			return nil, err
		}
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid mnemonic")
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, err
	}

	// Only HDPrivateKeyID is used from chaincfg.MainNetParams: it is the
	// version bytes tagging the extended key's type, nothing more.
	masterKey, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}
	ac, err := NewAccountKey(masterKey, DerivationPath(0))
	if err != nil {
		return nil, err
	}
	return &Keys{Mnemonic: mnemonic, MasterKey: masterKey, AccountKey: ac}, nil
}

// NewAccountKey derives an account key at path from masterKey.
func NewAccountKey(masterKey *hdkeychain.ExtendedKey, path string) (*AccountKey, error) {
	derivation, err := ethaccounts.ParseDerivationPath(path)
	if err != nil {
		return nil, fmt.Errorf("parsing derivation path %q: %w", path, err)
	}
	priv, err := derivePrivateKey(derivation, masterKey)
	if err != nil {
		return nil, fmt.Errorf("deriving private key: %w", err)
	}
	return &AccountKey{
		PrivateKey:     priv,
		Address:        crypto.PublicKeyToAddress(&priv.PublicKey),
		DerivationPath: path,
	}, nil
}

// DerivationPath returns the BIP-44-shaped path for the given account
// index: m / 44' / 9999' / account' / 0 / 0. 9999 is this chain's
// registered SLIP-44 coin type placeholder — one account, one address,
// matching the teacher's Ethereum-like account model.
func DerivationPath(accountIndex uint64) string {
	return fmt.Sprintf("m/44'/9999'/%d'/0/0", accountIndex)
}

func generateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBitSize)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

func derivePrivateKey(path ethaccounts.DerivationPath, masterKey *hdkeychain.ExtendedKey) (*ecdsa.PrivateKey, error) {
	derived := masterKey
	var err error
	for _, n := range path {
		derived, err = derived.Derive(n)
		if err != nil {
			return nil, err
		}
	}
	ecKey, err := derived.ECPrivKey()
	if err != nil {
		return nil, err
	}
	// Round-trip through go-ethereum's byte representation so the key is
	// the same *ecdsa.PrivateKey shape crypto.Sign expects.
	return ethcrypto.ToECDSA(ethcrypto.FromECDSA(ecKey.ToECDSA()))
}
