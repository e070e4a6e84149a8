// Package crypto wraps the secp256k1 primitives the transaction core needs:
// Keccak-256 hashing, ECDSA sign/recover and address derivation. It is a
// thin layer over github.com/ethereum/go-ethereum/crypto — the core never
// talks to the curve directly.
package crypto

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// AddressLength is the size, in bytes, of an Address.
const AddressLength = 20

// SignatureLength is the size, in bytes, of a signature (r || s || v).
const SignatureLength = 65

// HashLength is the size, in bytes, of a Keccak-256 digest.
const HashLength = 32

// recoveryIDOffset is added to the raw 0/1 recovery id go-ethereum produces
// to get the Ethereum-style 27/28 encoding the wire format requires.
const recoveryIDOffset = 27

var ErrSignatureCorrupt = errors.New("signature_corrupt")

// SignerKey is the tagged "maybe a private key" the signer takes for each
// input slot, per the REDESIGN FLAG in the source spec: the empty-byte-
// string sentinel for "don't sign" is replaced by an explicit variant so
// that a zero-length key can never be confused with a malformed one.
type SignerKey struct {
	priv *ecdsa.PrivateKey
}

// RealKey wraps an actual private key.
func RealKey(priv *ecdsa.PrivateKey) SignerKey {
	return SignerKey{priv: priv}
}

// NoKey is the "this input slot has no signer" sentinel.
func NoKey() SignerKey {
	return SignerKey{}
}

// IsNone reports whether k carries no private key.
func (k SignerKey) IsNone() bool {
	return k.priv == nil
}

// GenerateKey generates a fresh secp256k1 private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return ethcrypto.GenerateKey()
}

// Hash computes the Keccak-256 digest of data.
func Hash(data []byte) [HashLength]byte {
	var out [HashLength]byte
	copy(out[:], ethcrypto.Keccak256(data))
	return out
}

// Sign produces a 65-byte r‖s‖v signature over msgHash using k.
//
// If k carries no private key, Sign returns the null signature without
// invoking ECDSA at all — this is the "no signer for this input slot" case,
// not an error.
func Sign(msgHash [HashLength]byte, k SignerKey) ([SignatureLength]byte, error) {
	var sig [SignatureLength]byte
	if k.IsNone() {
		return sig, nil
	}
	raw, err := ethcrypto.Sign(msgHash[:], k.priv)
	if err != nil {
		return sig, fmt.Errorf("signing transaction hash: %w", err)
	}
	copy(sig[:], raw)
	sig[64] += recoveryIDOffset
	return sig, nil
}

// Recover recovers the 20-byte address that produced sig over msgHash.
func Recover(msgHash [HashLength]byte, sig [SignatureLength]byte) (Address, error) {
	normalized := sig
	if normalized[64] >= recoveryIDOffset {
		normalized[64] -= recoveryIDOffset
	}
	pub, err := ethcrypto.Ecrecover(msgHash[:], normalized[:])
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrSignatureCorrupt, err)
	}
	return publicKeyBytesToAddress(pub), nil
}

// PublicKeyToAddress derives the 20-byte address for an ECDSA public key,
// used when deriving the address of a freshly generated key (as opposed to
// one recovered from a signature).
func PublicKeyToAddress(pub *ecdsa.PublicKey) Address {
	return Address(ethcrypto.PubkeyToAddress(*pub))
}

// publicKeyBytesToAddress hashes the uncompressed public key (without its
// leading 0x04 prefix byte) and takes the last 20 bytes, per spec §4.1.
func publicKeyBytesToAddress(uncompressedPub []byte) Address {
	h := ethcrypto.Keccak256(uncompressedPub[1:])
	var addr Address
	copy(addr[:], h[len(h)-AddressLength:])
	return addr
}
