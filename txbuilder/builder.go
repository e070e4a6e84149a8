// Package txbuilder assembles a raw transaction from a set of available
// UTXOs, a receiver intent and a flat fee — the "UTXO-driven builder" from
// spec §4.5. Like the tx package it wraps, it is pure: CreateFromUTXOs
// never looks anything up, it only arranges values the caller already
// has in hand.
package txbuilder

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/lover33/elixir-omg/tx"
)

// Sentinel errors from spec §7 specific to the builder.
var (
	ErrTooManyUTXO    = errors.New("too_many_utxo")
	ErrCurrencyMixing = errors.New("currency_mixing_not_possible")
)

// UTXO is the shape the builder consumes for each spendable output: the
// coordinate that identifies it plus the value and currency it carries.
// This mirrors the "UTXO lookup" external collaborator from spec §6
// (owner is not needed here — the caller already knows it owns these).
type UTXO struct {
	Blknum   uint64
	Txindex  uint64
	Oindex   uint8
	Amount   *uint256.Int
	Currency tx.Currency
}

// Receiver is the payment intent: pay this address this amount.
type Receiver struct {
	Address tx.Owner
	Amount  *uint256.Int
}

// CreateFromUTXOs runs the algorithm from spec §4.5: map up to two UTXOs
// positionally onto the two input slots, reject more than two or UTXOs
// that mix currencies, then build two outputs — the receiver's, and the
// change returned to changeAddress — such that
// sum(utxo amounts) == receiver.Amount + fee + change.
//
// A change amount that would be negative (insufficient funds, including
// fee) is reported as tx.ErrAmountNegative — via uint256's checked
// subtraction, never via an unsigned wraparound.
func CreateFromUTXOs(utxos []UTXO, changeAddress tx.Owner, receiver Receiver, fee *uint256.Int) (tx.RawTx, error) {
	if len(utxos) > tx.InputCount {
		return tx.RawTx{}, fmt.Errorf("%w: got %d, max %d", ErrTooManyUTXO, len(utxos), tx.InputCount)
	}
	if fee == nil {
		fee = uint256.NewInt(0)
	}

	currency, err := singleCurrency(utxos)
	if err != nil {
		return tx.RawTx{}, err
	}

	inputs := make([]tx.InputRef, 0, len(utxos))
	total := uint256.NewInt(0)
	for _, u := range utxos {
		inputs = append(inputs, tx.InputRef{Blknum: u.Blknum, Txindex: u.Txindex, Oindex: u.Oindex})
		amt := u.Amount
		if amt == nil {
			amt = uint256.NewInt(0)
		}
		var overflow bool
		total, overflow = new(uint256.Int).AddOverflow(total, amt)
		if overflow {
			return tx.RawTx{}, fmt.Errorf("sum of input amounts overflows 256 bits")
		}
	}

	receiverAmount := receiver.Amount
	if receiverAmount == nil {
		receiverAmount = uint256.NewInt(0)
	}

	spent, overflow := new(uint256.Int).AddOverflow(receiverAmount, fee)
	if overflow {
		return tx.RawTx{}, fmt.Errorf("%w: receiver amount plus fee overflows 256 bits", tx.ErrAmountNegative)
	}
	change, underflow := new(uint256.Int).SubOverflow(total, spent)
	if underflow {
		return tx.RawTx{}, fmt.Errorf("%w: insufficient funds: have %s, need %s", tx.ErrAmountNegative, total, spent)
	}

	outputs := []tx.Output{
		{Owner: receiver.Address, Amount: receiverAmount},
		{Owner: changeAddress, Amount: change},
	}

	raw, err := tx.New(inputs, currency, outputs, fee)
	if err != nil {
		return tx.RawTx{}, err
	}
	return raw, tx.Validate(raw)
}

// singleCurrency returns the one currency shared by all utxos, or the
// native currency if utxos is empty, failing with ErrCurrencyMixing if two
// UTXOs name different currencies.
func singleCurrency(utxos []UTXO) (tx.Currency, error) {
	if len(utxos) == 0 {
		return tx.NativeCurrency(), nil
	}
	cur := utxos[0].Currency
	for _, u := range utxos[1:] {
		if u.Currency != cur {
			return tx.Currency{}, fmt.Errorf("%w: %v and %v", ErrCurrencyMixing, cur, u.Currency)
		}
	}
	return cur, nil
}
