// Package rlp implements the fixed-shape Recursive Length Prefix codec the
// transaction wire format is built on: a flat 12-field list for a raw
// transaction, and a 3-item list ([raw, sig1, sig2]) for a signed one. It
// knows nothing about transaction semantics — just the byte shapes — so
// that arity and field-type faults can be tested independently of the
// higher-level tx package.
//
// Built on github.com/ethereum/go-ethereum/rlp. The stock decoder already
// enforces minimal-length integers and exact-length fixed arrays; this
// package adds the arity and trailing-byte checks the wire format needs
// that a plain struct decode does not give for free.
package rlp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"

	ethrlp "github.com/ethereum/go-ethereum/rlp"
)

// Field-count constants for the two list shapes on the wire.
const (
	TxFieldCount     = 12
	SignedFieldCount = 3
)

// Sentinel error kinds, per spec §7.
var (
	ErrMalformedRLP = errors.New("malformed_rlp")
	ErrBadArity     = errors.New("bad_arity")
	ErrBadFieldType = errors.New("bad_field_type")
	ErrTrailingData = errors.New("trailing_bytes")
)

// TxFields is the canonical 12-field list, in wire order, with no
// transaction-domain semantics attached (addresses and amounts are plain
// bytes / big.Int, not the domain's Address / Amount types).
type TxFields struct {
	Blknum1, Txindex1, Oindex1 uint64
	Blknum2, Txindex2, Oindex2 uint64
	Cur12                      [20]byte
	Owner1                     [20]byte
	Amount1                    *big.Int
	Owner2                     [20]byte
	Amount2                    *big.Int
	Fee                        *big.Int
}

// wireTx is the struct go-ethereum's rlp package encodes field-by-field as
// a list; its field order defines the wire order.
type wireTx struct {
	Blknum1, Txindex1, Oindex1 uint64
	Blknum2, Txindex2, Oindex2 uint64
	Cur12                      [20]byte
	Owner1                     [20]byte
	Amount1                    *big.Int
	Owner2                     [20]byte
	Amount2                    *big.Int
	Fee                        *big.Int
}

// EncodeTx renders f as the canonical 12-item RLP list.
func EncodeTx(f TxFields) ([]byte, error) {
	w := wireTx{
		Blknum1: f.Blknum1, Txindex1: f.Txindex1, Oindex1: f.Oindex1,
		Blknum2: f.Blknum2, Txindex2: f.Txindex2, Oindex2: f.Oindex2,
		Cur12: f.Cur12, Owner1: f.Owner1, Amount1: nonNilBig(f.Amount1),
		Owner2: f.Owner2, Amount2: nonNilBig(f.Amount2), Fee: nonNilBig(f.Fee),
	}
	b, err := ethrlp.EncodeToBytes(&w)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFieldType, err)
	}
	return b, nil
}

// DecodeTx parses a 12-item RLP list. It fails with ErrBadArity if the list
// does not have exactly 12 items, ErrBadFieldType if a field's bytes don't
// match its expected shape, ErrTrailingData if data carries bytes beyond
// the list, and ErrMalformedRLP for anything not well-formed RLP at all.
func DecodeTx(data []byte) (TxFields, error) {
	if content, _, err := ethrlp.SplitList(data); err == nil {
		if n, err := ethrlp.CountValues(content); err == nil && n != TxFieldCount {
			return TxFields{}, fmt.Errorf("%w: expected %d fields, got %d", ErrBadArity, TxFieldCount, n)
		}
	}
	s := ethrlp.NewStream(bytes.NewReader(data), uint64(len(data)))
	if _, err := s.List(); err != nil {
		return TxFields{}, fmt.Errorf("%w: %v", ErrMalformedRLP, err)
	}
	f, err := decodeTxFields(s)
	if err != nil {
		return TxFields{}, err
	}
	if err := s.ListEnd(); err != nil {
		return TxFields{}, fmt.Errorf("%w: raw transaction list has more than %d fields", ErrBadArity, TxFieldCount)
	}
	if err := expectEOF(s); err != nil {
		return TxFields{}, err
	}
	return f, nil
}

// decodeTxFields reads exactly TxFieldCount items from a list the caller
// has already entered with s.List(), but does not call s.ListEnd().
func decodeTxFields(s *ethrlp.Stream) (TxFields, error) {
	var f TxFields
	var amount1, amount2, fee big.Int
	targets := []any{
		&f.Blknum1, &f.Txindex1, &f.Oindex1,
		&f.Blknum2, &f.Txindex2, &f.Oindex2,
		&f.Cur12, &f.Owner1, &amount1, &f.Owner2, &amount2, &fee,
	}
	for i, t := range targets {
		if err := s.Decode(t); err != nil {
			if errors.Is(err, ethrlp.EOL) || errors.Is(err, io.EOF) {
				return TxFields{}, fmt.Errorf("%w: expected %d fields, list ended after %d", ErrBadArity, TxFieldCount, i)
			}
			return TxFields{}, fmt.Errorf("%w: field %d: %v", ErrBadFieldType, i, err)
		}
	}
	f.Amount1, f.Amount2, f.Fee = &amount1, &amount2, &fee
	return f, nil
}

// EncodeSigned renders [raw, sig1, sig2] as the 3-item outer RLP list.
func EncodeSigned(f TxFields, sig1, sig2 [65]byte) ([]byte, error) {
	w := struct {
		Raw  wireTx
		Sig1 [65]byte
		Sig2 [65]byte
	}{
		Raw: wireTx{
			Blknum1: f.Blknum1, Txindex1: f.Txindex1, Oindex1: f.Oindex1,
			Blknum2: f.Blknum2, Txindex2: f.Txindex2, Oindex2: f.Oindex2,
			Cur12: f.Cur12, Owner1: f.Owner1, Amount1: nonNilBig(f.Amount1),
			Owner2: f.Owner2, Amount2: nonNilBig(f.Amount2), Fee: nonNilBig(f.Fee),
		},
		Sig1: sig1,
		Sig2: sig2,
	}
	b, err := ethrlp.EncodeToBytes(&w)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFieldType, err)
	}
	return b, nil
}

// DecodeSigned parses the outer [raw, sig1, sig2] list, enforcing the
// 3-item outer arity, the 12-item inner arity, and no trailing bytes.
func DecodeSigned(data []byte) (TxFields, [65]byte, [65]byte, error) {
	var sig1, sig2 [65]byte
	if content, _, err := ethrlp.SplitList(data); err == nil {
		if n, err := ethrlp.CountValues(content); err == nil && n != SignedFieldCount {
			return TxFields{}, sig1, sig2, fmt.Errorf("%w: expected %d items, got %d", ErrBadArity, SignedFieldCount, n)
		}
	}
	s := ethrlp.NewStream(bytes.NewReader(data), uint64(len(data)))
	if _, err := s.List(); err != nil {
		return TxFields{}, sig1, sig2, fmt.Errorf("%w: %v", ErrMalformedRLP, err)
	}
	if _, err := s.List(); err != nil {
		return TxFields{}, sig1, sig2, fmt.Errorf("%w: expected raw transaction as first item: %v", ErrBadFieldType, err)
	}
	f, err := decodeTxFields(s)
	if err != nil {
		return TxFields{}, sig1, sig2, err
	}
	if err := s.ListEnd(); err != nil {
		return TxFields{}, sig1, sig2, fmt.Errorf("%w: raw transaction list has more than %d fields", ErrBadArity, TxFieldCount)
	}
	if err := s.Decode(&sig1); err != nil {
		if errors.Is(err, ethrlp.EOL) || errors.Is(err, io.EOF) {
			return TxFields{}, sig1, sig2, fmt.Errorf("%w: missing sig1", ErrBadArity)
		}
		return TxFields{}, sig1, sig2, fmt.Errorf("%w: sig1: %v", ErrBadFieldType, err)
	}
	if err := s.Decode(&sig2); err != nil {
		if errors.Is(err, ethrlp.EOL) || errors.Is(err, io.EOF) {
			return TxFields{}, sig1, sig2, fmt.Errorf("%w: missing sig2", ErrBadArity)
		}
		return TxFields{}, sig1, sig2, fmt.Errorf("%w: sig2: %v", ErrBadFieldType, err)
	}
	if err := s.ListEnd(); err != nil {
		return TxFields{}, sig1, sig2, fmt.Errorf("%w: signed transaction list has more than %d items", ErrBadArity, SignedFieldCount)
	}
	if err := expectEOF(s); err != nil {
		return TxFields{}, sig1, sig2, err
	}
	return f, sig1, sig2, nil
}

// expectEOF reports ErrTrailingData if s has bytes left beyond the value
// already decoded from it.
func expectEOF(s *ethrlp.Stream) error {
	if _, _, err := s.Kind(); err != io.EOF {
		return fmt.Errorf("%w", ErrTrailingData)
	}
	return nil
}

func nonNilBig(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
