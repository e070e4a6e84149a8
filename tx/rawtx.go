package tx

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/lover33/elixir-omg/crypto"
	txrlp "github.com/lover33/elixir-omg/rlp"
)

// Sentinel errors from spec §7 that this package can return.
var (
	ErrAmountNegative       = errors.New("amount_negative_value")
	ErrFeeNegative          = errors.New("fee_negative_value")
	ErrMalformedTransaction = errors.New("malformed_transaction")
	ErrOindexOutOfRange     = errors.New("oindex_out_of_range")
)

// maxOindex is the highest output slot index spec §3 allows an input to
// reference: a transaction has exactly two output slots, so oindex is
// always 0 or 1.
const maxOindex = OutputCount - 1

// RawTx is the fixed-arity, 12-field transaction record from spec §3. It
// always carries exactly two input slots and two output slots; unused
// slots hold the zero sentinel rather than being omitted.
type RawTx struct {
	inputs   [InputCount]InputRef
	currency Currency
	outputs  [OutputCount]Output
	fee      *uint256.Int
}

// New builds a RawTx from up to two inputs and up to two outputs, padding
// the rest with the zero sentinels. It does not validate amounts — call
// Validate for that — but it always returns a value satisfying the fixed
// 2-in/2-out shape.
func New(inputs []InputRef, currency Currency, outputs []Output, fee *uint256.Int) (RawTx, error) {
	if len(inputs) > InputCount {
		return RawTx{}, fmt.Errorf("raw transaction accepts at most %d inputs, got %d", InputCount, len(inputs))
	}
	if len(outputs) > OutputCount {
		return RawTx{}, fmt.Errorf("raw transaction accepts at most %d outputs, got %d", OutputCount, len(outputs))
	}

	raw := RawTx{currency: currency, fee: amountOrZero(fee)}
	for i := 0; i < InputCount; i++ {
		if i < len(inputs) {
			raw.inputs[i] = inputs[i]
		} else {
			raw.inputs[i] = NoInput()
		}
	}
	for i := 0; i < OutputCount; i++ {
		if i < len(outputs) {
			out := outputs[i]
			out.Amount = amountOrZero(out.Amount)
			raw.outputs[i] = out
		} else {
			raw.outputs[i] = Output{Owner: NoOwner(), Amount: uint256.NewInt(0)}
		}
	}
	return raw, nil
}

// Inputs returns the two input slots, in canonical order.
func (t RawTx) Inputs() [InputCount]InputRef { return t.inputs }

// Outputs returns the two output slots, in canonical order.
func (t RawTx) Outputs() [OutputCount]Output { return t.outputs }

// Currency returns the transaction's single currency.
func (t RawTx) Currency() Currency { return t.currency }

// Fee returns the transaction's flat, sender-declared fee.
func (t RawTx) Fee() *uint256.Int { return amountOrZero(t.fee) }

// Validate checks the invariants from spec §3/§4.3 that the field types do
// not enforce on their own: each input's oindex names one of the two output
// slots (ErrOindexOutOfRange), and no output amount (ErrAmountNegative) or
// fee (ErrFeeNegative) is negative. A nil amount or fee counts as zero.
// The sign test is uint256.Int.Sign, which reads the 256-bit value as two's
// complement, so an amount or fee of 2^255 or more is reported as negative.
func Validate(t RawTx) error {
	for i, in := range t.inputs {
		if in.Oindex > maxOindex {
			return fmt.Errorf("%w: input %d: oindex %d", ErrOindexOutOfRange, i, in.Oindex)
		}
	}
	for i, out := range t.outputs {
		if out.Amount != nil && out.Amount.Sign() < 0 {
			return fmt.Errorf("%w: output %d", ErrAmountNegative, i)
		}
	}
	if t.fee != nil && t.fee.Sign() < 0 {
		return ErrFeeNegative
	}
	return nil
}

// Encode renders t as the canonical 12-item RLP list. Two RawTx values
// with equal fields always produce byte-identical output.
func Encode(t RawTx) ([]byte, error) {
	return txrlp.EncodeTx(toWireFields(t))
}

// Hash returns keccak256(Encode(t)).
func Hash(t RawTx) [crypto.HashLength]byte {
	b, err := Encode(t)
	if err != nil {
		// Encode only fails if amounts overflow uint256, which New and the
		// builder never produce; a failure here means a caller hand-built
		// a RawTx bypassing New, which is a programming error.
		panic(fmt.Sprintf("tx: encoding well-formed raw transaction: %v", err))
	}
	return crypto.Hash(b)
}

// DecodeRawTx parses a standalone 12-item RLP list back into a RawTx. Used
// by tests and by anything that persists raw transactions outside of a
// signed envelope; the signed-transaction wire format (spec §6) always
// nests this inside the 3-item outer list, see Decode.
func DecodeRawTx(data []byte) (RawTx, error) {
	fields, err := txrlp.DecodeTx(data)
	if err != nil {
		return RawTx{}, fmt.Errorf("%w: %v", ErrMalformedTransaction, err)
	}
	return fromWireFields(fields)
}

func toWireFields(t RawTx) txrlp.TxFields {
	in := t.inputs
	out := t.outputs
	return txrlp.TxFields{
		Blknum1: in[0].Blknum, Txindex1: in[0].Txindex, Oindex1: uint64(in[0].Oindex),
		Blknum2: in[1].Blknum, Txindex2: in[1].Txindex, Oindex2: uint64(in[1].Oindex),
		Cur12:   t.currency.address(),
		Owner1:  out[0].Owner.address(),
		Amount1: amountOrZero(out[0].Amount).ToBig(),
		Owner2:  out[1].Owner.address(),
		Amount2: amountOrZero(out[1].Amount).ToBig(),
		Fee:     amountOrZero(t.fee).ToBig(),
	}
}

func fromWireFields(f txrlp.TxFields) (RawTx, error) {
	amount1, err := uint256FromBig(f.Amount1)
	if err != nil {
		return RawTx{}, fmt.Errorf("%w: %w: amount1: %v", ErrMalformedTransaction, ErrAmountNegative, err)
	}
	amount2, err := uint256FromBig(f.Amount2)
	if err != nil {
		return RawTx{}, fmt.Errorf("%w: %w: amount2: %v", ErrMalformedTransaction, ErrAmountNegative, err)
	}
	fee, err := uint256FromBig(f.Fee)
	if err != nil {
		return RawTx{}, fmt.Errorf("%w: %w: fee: %v", ErrMalformedTransaction, ErrFeeNegative, err)
	}
	if f.Oindex1 > maxOindex || f.Oindex2 > maxOindex {
		return RawTx{}, fmt.Errorf("%w: %w", ErrMalformedTransaction, ErrOindexOutOfRange)
	}
	return RawTx{
		inputs: [InputCount]InputRef{
			{Blknum: f.Blknum1, Txindex: f.Txindex1, Oindex: uint8(f.Oindex1)},
			{Blknum: f.Blknum2, Txindex: f.Txindex2, Oindex: uint8(f.Oindex2)},
		},
		currency: Currency(f.Cur12),
		outputs: [OutputCount]Output{
			{Owner: Owner(f.Owner1), Amount: amount1},
			{Owner: Owner(f.Owner2), Amount: amount2},
		},
		fee: fee,
	}, nil
}

func uint256FromBig(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return uint256.NewInt(0), nil
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s", v)
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("value %s overflows 256 bits", v)
	}
	return u, nil
}
