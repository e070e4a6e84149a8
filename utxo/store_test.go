package utxo

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/lover33/elixir-omg/tx"
	"github.com/lover33/elixir-omg/txbuilder"
)

func owner(b byte) tx.Owner {
	var a [20]byte
	a[19] = b
	return tx.Owner(a)
}

func TestStorePutAndUTXOsByOwner(t *testing.T) {
	s := NewStore()
	alice, bob := owner(1), owner(2)

	s.Put(Entry{Owner: alice, UTXO: txbuilder.UTXO{Blknum: 1, Amount: uint256.NewInt(10), Currency: tx.NativeCurrency()}})
	s.Put(Entry{Owner: bob, UTXO: txbuilder.UTXO{Blknum: 2, Amount: uint256.NewInt(5), Currency: tx.NativeCurrency()}})

	got, err := s.UTXOsByOwner(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, uint64(1), got[0].Blknum)
}

func TestStoreSpendRemovesEntry(t *testing.T) {
	s := NewStore()
	alice := owner(1)
	entry := Entry{Owner: alice, UTXO: txbuilder.UTXO{Blknum: 1, Amount: uint256.NewInt(10), Currency: tx.NativeCurrency()}}
	s.Put(entry)

	require.True(t, s.Spend(keyOf(entry)))
	require.False(t, s.Spend(keyOf(entry)))

	got, err := s.UTXOsByOwner(context.Background(), alice)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestStoreUsableAsTxBuilderSource(t *testing.T) {
	s := NewStore()
	alice, bob := owner(1), owner(2)
	s.Put(Entry{Owner: alice, UTXO: txbuilder.UTXO{Blknum: 1, Amount: uint256.NewInt(10), Currency: tx.NativeCurrency()}})

	raw, err := txbuilder.BuildFromOwner(context.Background(), s, alice, alice, txbuilder.Receiver{Address: bob, Amount: uint256.NewInt(4)}, uint256.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, bob, raw.Outputs()[0].Owner)
}
