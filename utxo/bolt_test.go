package utxo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/lover33/elixir-omg/tx"
	"github.com/lover33/elixir-omg/txbuilder"
)

func TestBoltStorePutAndUTXOsByOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utxo.db")
	s, err := OpenBoltStore(path)
	require.NoError(t, err)
	defer s.Close()

	alice, bob := owner(1), owner(2)
	require.NoError(t, s.Put(Entry{Owner: alice, UTXO: txbuilder.UTXO{Blknum: 1, Amount: uint256.NewInt(10), Currency: tx.NativeCurrency()}}))
	require.NoError(t, s.Put(Entry{Owner: bob, UTXO: txbuilder.UTXO{Blknum: 2, Amount: uint256.NewInt(5), Currency: tx.NativeCurrency()}}))

	got, err := s.UTXOsByOwner(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].Amount.Eq(uint256.NewInt(10)))
}

func TestBoltStoreSpendRemovesEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utxo.db")
	s, err := OpenBoltStore(path)
	require.NoError(t, err)
	defer s.Close()

	alice := owner(1)
	entry := Entry{Owner: alice, UTXO: txbuilder.UTXO{Blknum: 1, Amount: uint256.NewInt(10), Currency: tx.NativeCurrency()}}
	require.NoError(t, s.Put(entry))

	found, err := s.Spend(keyOf(entry))
	require.NoError(t, err)
	require.True(t, found)

	got, err := s.UTXOsByOwner(context.Background(), alice)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utxo.db")
	alice := owner(1)

	s, err := OpenBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(Entry{Owner: alice, UTXO: txbuilder.UTXO{Blknum: 1, Amount: uint256.NewInt(10), Currency: tx.NativeCurrency()}}))
	require.NoError(t, s.Close())

	reopened, err := OpenBoltStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.UTXOsByOwner(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
