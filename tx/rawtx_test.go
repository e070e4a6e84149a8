package tx

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	txrlp "github.com/lover33/elixir-omg/rlp"
)

func addr(b byte) Owner {
	var a [20]byte
	a[19] = b
	return Owner(a)
}

func cur(b byte) Currency {
	var a [20]byte
	a[19] = b
	return Currency(a)
}

func TestNewPadsToFixedArity(t *testing.T) {
	raw, err := New(
		[]InputRef{{Blknum: 1000, Txindex: 0, Oindex: 0}},
		NativeCurrency(),
		[]Output{{Owner: addr(7), Amount: uint256.NewInt(7)}},
		uint256.NewInt(0),
	)
	require.NoError(t, err)
	require.Equal(t, InputRef{Blknum: 1000}, raw.Inputs()[0])
	require.True(t, raw.Inputs()[1].IsPadding())
	require.True(t, raw.Outputs()[1].IsPadding())
}

func TestNewRejectsTooManyInputsOrOutputs(t *testing.T) {
	_, err := New(make([]InputRef, 3), NativeCurrency(), nil, uint256.NewInt(0))
	require.Error(t, err)

	_, err = New(nil, NativeCurrency(), make([]Output, 3), uint256.NewInt(0))
	require.Error(t, err)
}

func TestEncodeIsDeterministic(t *testing.T) {
	a, _ := New([]InputRef{{Blknum: 1, Oindex: 1}}, NativeCurrency(),
		[]Output{{Owner: addr(1), Amount: uint256.NewInt(5)}}, uint256.NewInt(1))
	b, _ := New([]InputRef{{Blknum: 1, Oindex: 1}}, NativeCurrency(),
		[]Output{{Owner: addr(1), Amount: uint256.NewInt(5)}}, uint256.NewInt(1))

	ea, err := Encode(a)
	require.NoError(t, err)
	eb, err := Encode(b)
	require.NoError(t, err)
	require.Equal(t, ea, eb)
	require.Equal(t, Hash(a), Hash(b))
}

func TestEncodeDecodeRawTxRoundTrip(t *testing.T) {
	raw, err := New(
		[]InputRef{{Blknum: 1000, Txindex: 0, Oindex: 0}, {Blknum: 1000, Txindex: 0, Oindex: 1}},
		cur(0xAB),
		[]Output{{Owner: addr(1), Amount: uint256.NewInt(5)}, {Owner: addr(2), Amount: uint256.NewInt(5)}},
		uint256.NewInt(2),
	)
	require.NoError(t, err)

	b, err := Encode(raw)
	require.NoError(t, err)
	got, err := DecodeRawTx(b)
	require.NoError(t, err)
	require.Equal(t, raw.Inputs(), got.Inputs())
	require.Equal(t, raw.Currency(), got.Currency())
	require.Equal(t, raw.Outputs()[0].Owner, got.Outputs()[0].Owner)
	require.True(t, raw.Outputs()[0].Amount.Eq(got.Outputs()[0].Amount))
	require.True(t, raw.Fee().Eq(got.Fee()))
}

func TestValidateAcceptsWellFormedAmounts(t *testing.T) {
	// uint256.Int is unsigned, so Validate's non-negativity checks only trip
	// for values of 2^255 and above, which Sign reads as negative: this
	// confirms ordinary amounts never trip them. The failure paths (amount_negative_value
	// from insufficient funds) are exercised at the txbuilder layer, which
	// detects the underflow before a RawTx is ever constructed.
	raw, _ := New(nil, NativeCurrency(), []Output{{Owner: addr(1), Amount: uint256.NewInt(5)}}, uint256.NewInt(0))
	require.NoError(t, Validate(raw))
}

func TestValidateRejectsOindexOutOfRange(t *testing.T) {
	raw, err := New(
		[]InputRef{{Blknum: 1000, Txindex: 0, Oindex: 2}},
		NativeCurrency(),
		[]Output{{Owner: addr(1), Amount: uint256.NewInt(5)}},
		uint256.NewInt(0),
	)
	require.NoError(t, err) // New only fixes arity, Validate checks the invariant
	require.ErrorIs(t, Validate(raw), ErrOindexOutOfRange)
}

func TestDecodeRawTxRejectsOindexOutOfRange(t *testing.T) {
	raw, err := New(
		[]InputRef{{Blknum: 1000, Txindex: 0, Oindex: 1}},
		NativeCurrency(),
		[]Output{{Owner: addr(1), Amount: uint256.NewInt(5)}},
		uint256.NewInt(0),
	)
	require.NoError(t, err)
	fields := toWireFields(raw)
	fields.Oindex1 = 200
	b, err := txrlp.EncodeTx(fields)
	require.NoError(t, err)

	_, err = DecodeRawTx(b)
	require.ErrorIs(t, err, ErrMalformedTransaction)
	require.ErrorIs(t, err, ErrOindexOutOfRange)
}

func TestZeroAmountOutputIsAccepted(t *testing.T) {
	// Open question from the source spec: receiver.amount = 0 is accepted,
	// not rejected. See DESIGN.md.
	raw, err := New(nil, NativeCurrency(), []Output{{Owner: addr(9), Amount: uint256.NewInt(0)}}, uint256.NewInt(0))
	require.NoError(t, err)
	require.NoError(t, Validate(raw))
}
