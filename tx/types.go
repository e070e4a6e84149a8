// Package tx implements the child-chain transaction primitive: the raw
// transaction data model, its canonical RLP encoding and hash, and the
// signed transaction that wraps a raw transaction with two ECDSA
// signatures. Every value here is immutable once constructed; nothing in
// this package performs I/O.
package tx

import (
	"github.com/holiman/uint256"

	"github.com/lover33/elixir-omg/crypto"
)

// InputCount and OutputCount fix the transaction's arity: exactly two
// input slots and two output slots, always. Absent slots are padded with
// the zero sentinel, never omitted.
const (
	InputCount  = 2
	OutputCount = 2
)

// Currency identifies the asset a transaction moves. The zero value is the
// native-asset tag, not "no currency" — a transaction always has exactly
// one currency, and cur12 is filled even for the parent chain's own asset.
// Distinct from Owner at the type level (both are 20 bytes on the wire, by
// design) so a caller cannot pass one where the other is expected.
type Currency crypto.Address

// NativeCurrency is the parent chain's native asset tag: the null address.
func NativeCurrency() Currency {
	return Currency(crypto.ZeroAddress())
}

func (c Currency) address() crypto.Address { return crypto.Address(c) }

func (c Currency) String() string { return crypto.Address(c).String() }

// Owner identifies who controls an output, or "no output" for a padding
// slot when set to the zero value.
type Owner crypto.Address

// NoOwner is the padding-slot sentinel for an output owner.
func NoOwner() Owner {
	return Owner(crypto.ZeroAddress())
}

func (o Owner) address() crypto.Address { return crypto.Address(o) }

func (o Owner) String() string { return crypto.Address(o).String() }

// InputRef identifies the output a transaction spends: the block, the
// transaction's index in that block, and the output slot within that
// transaction. The all-zero triple is the "no input" padding sentinel.
type InputRef struct {
	Blknum  uint64
	Txindex uint64
	Oindex  uint8
}

// NoInput is the padding-slot sentinel for an unused input.
func NoInput() InputRef {
	return InputRef{}
}

// IsPadding reports whether i is the all-zero "no input" sentinel.
func (i InputRef) IsPadding() bool {
	return i == InputRef{}
}

// Output is a single (owner, amount) pair. The pair (zero address, 0) is
// the "no output" padding sentinel.
type Output struct {
	Owner  Owner
	Amount *uint256.Int
}

// IsPadding reports whether o is the all-zero "no output" sentinel.
func (o Output) IsPadding() bool {
	return o.Owner == NoOwner() && (o.Amount == nil || o.Amount.IsZero())
}

func amountOrZero(a *uint256.Int) *uint256.Int {
	if a == nil {
		return uint256.NewInt(0)
	}
	return a
}
