package tx

import (
	"errors"
	"fmt"

	"github.com/lover33/elixir-omg/crypto"
	txrlp "github.com/lover33/elixir-omg/rlp"
)

// ErrInputMissingForSignature is returned by RecoverSpenders when a
// non-padding input carries a null signature, or a padding input carries
// a non-null one — the two are required to agree per spec §4.4.
var ErrInputMissingForSignature = errors.New("input_missing_for_signature")

// SignedTx wraps a RawTx with its two signatures. A raw transaction is
// immutable once built; a SignedTx never mutates it either — re-signing
// produces a new value, it does not alter an existing one.
//
// Two concrete states implement this interface, per the REDESIGN FLAG in
// spec §9: Sign produces a value that has never been serialized (its
// Encode call computes fresh bytes on every call), Decode produces one that
// remembers the exact bytes it was parsed from (its Encode call is a pure
// lookup). Encode is a total function either way.
type SignedTx interface {
	RawTx() RawTx
	Signatures() (sig1, sig2 [crypto.SignatureLength]byte)
	Encode() ([]byte, error)
}

// Sign computes h = Hash(raw) and signs it with k1 and k2, one signature
// per input slot. A SignerKey with no private key (crypto.NoKey()) yields
// the null signature for that slot without invoking ECDSA — used for a
// padding input, or the second slot of a single-input transaction.
func Sign(raw RawTx, k1, k2 crypto.SignerKey) (SignedTx, error) {
	h := Hash(raw)
	sig1, err := crypto.Sign(h, k1)
	if err != nil {
		return nil, fmt.Errorf("signing input 1: %w", err)
	}
	sig2, err := crypto.Sign(h, k2)
	if err != nil {
		return nil, fmt.Errorf("signing input 2: %w", err)
	}
	return &unsignedBytes{raw: raw, sig1: sig1, sig2: sig2}, nil
}

// Decode parses bytes as a signed transaction: the 3-item outer list
// [raw, sig1, sig2], with raw itself the 12-item inner list. Any
// structural fault — wrong outer or inner arity, a field of the wrong
// shape, trailing bytes — is reported as ErrMalformedTransaction.
func Decode(data []byte) (SignedTx, error) {
	fields, sig1, sig2, err := txrlp.DecodeSigned(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTransaction, err)
	}
	raw, err := fromWireFields(fields)
	if err != nil {
		return nil, err // already wrapped in ErrMalformedTransaction
	}
	wire := make([]byte, len(data))
	copy(wire, data)
	return &decodedTx{raw: raw, sig1: sig1, sig2: sig2, wire: wire}, nil
}

// RecoverSpenders recovers, for each of the two input slots, the address
// that signed the transaction hash — or reports that the slot is padding
// (nil, nil error) if both the input and its signature are the null
// sentinel. Any mismatch between "is this slot padding" and "is this
// signature null" fails with ErrInputMissingForSignature; a non-null
// signature that does not recover at all fails with
// crypto.ErrSignatureCorrupt.
func RecoverSpenders(s SignedTx) (spender1, spender2 *crypto.Address, err error) {
	raw := s.RawTx()
	sig1, sig2 := s.Signatures()
	h := Hash(raw)
	in := raw.Inputs()

	spender1, err = recoverSpender(h, in[0], sig1)
	if err != nil {
		return nil, nil, fmt.Errorf("input 1: %w", err)
	}
	spender2, err = recoverSpender(h, in[1], sig2)
	if err != nil {
		return nil, nil, fmt.Errorf("input 2: %w", err)
	}
	return spender1, spender2, nil
}

func recoverSpender(h [crypto.HashLength]byte, in InputRef, sig [crypto.SignatureLength]byte) (*crypto.Address, error) {
	padding := in.IsPadding()
	null := crypto.IsNullSignature(sig)

	switch {
	case padding && null:
		return nil, nil
	case padding && !null:
		return nil, fmt.Errorf("%w: padding input carries a non-null signature", ErrInputMissingForSignature)
	case !padding && null:
		return nil, fmt.Errorf("%w: non-padding input carries a null signature", ErrInputMissingForSignature)
	}

	addr, err := crypto.Recover(h, sig)
	if err != nil {
		return nil, err // crypto.ErrSignatureCorrupt, already wrapped
	}
	return &addr, nil
}

// unsignedBytes is the SignedTx state produced by Sign: no bytes have
// been computed yet.
type unsignedBytes struct {
	raw        RawTx
	sig1, sig2 [crypto.SignatureLength]byte
}

func (u *unsignedBytes) RawTx() RawTx { return u.raw }

func (u *unsignedBytes) Signatures() ([crypto.SignatureLength]byte, [crypto.SignatureLength]byte) {
	return u.sig1, u.sig2
}

func (u *unsignedBytes) Encode() ([]byte, error) {
	b, err := txrlp.EncodeSigned(toWireFields(u.raw), u.sig1, u.sig2)
	if err != nil {
		return nil, fmt.Errorf("encoding signed transaction: %w", err)
	}
	return b, nil
}

// decodedTx is the SignedTx state produced by Decode: it remembers the
// exact bytes it was parsed from, so re-encoding is a lookup, not a
// second pass through RLP.
type decodedTx struct {
	raw        RawTx
	sig1, sig2 [crypto.SignatureLength]byte
	wire       []byte
}

func (d *decodedTx) RawTx() RawTx { return d.raw }

func (d *decodedTx) Signatures() ([crypto.SignatureLength]byte, [crypto.SignatureLength]byte) {
	return d.sig1, d.sig2
}

func (d *decodedTx) Encode() ([]byte, error) {
	return d.wire, nil
}
