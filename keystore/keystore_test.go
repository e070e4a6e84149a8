package keystore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lover33/elixir-omg/account"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	keys, err := account.NewKeys("")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "wallet.keystore")
	require.NoError(t, Save(path, keys, "s3cret"))

	loaded, err := Load(path, "s3cret")
	require.NoError(t, err)
	require.Equal(t, keys.AccountKey.Address, loaded.AccountKey.Address)
	require.Equal(t, keys.AccountKey.DerivationPath, loaded.AccountKey.DerivationPath)
	require.Equal(t, keys.Mnemonic, loaded.Mnemonic)
}

func TestLoadWithWrongPassphraseFails(t *testing.T) {
	keys, err := account.NewKeys("")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "wallet.keystore")
	require.NoError(t, Save(path, keys, "s3cret"))

	_, err = Load(path, "wrong")
	require.Error(t, err)
}
