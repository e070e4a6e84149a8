package keystore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataCanBeEncryptedAndDecrypted(t *testing.T) {
	data := []byte("my-secret-message")
	passphrase := "foo"

	envelope, err := Encrypt(passphrase, data)
	require.NoError(t, err)

	plaintext, err := Decrypt(passphrase, envelope)
	require.NoError(t, err)
	require.Equal(t, data, plaintext)
}

func TestEncryptRejectsEmptyPassphrase(t *testing.T) {
	_, err := Encrypt("", []byte("data"))
	require.ErrorIs(t, err, ErrEmptyPassphrase)
}

func TestDecryptWithWrongPassphraseFails(t *testing.T) {
	envelope, err := Encrypt("correct", []byte("data"))
	require.NoError(t, err)

	_, err = Decrypt("incorrect", envelope)
	require.Error(t, err)
}

func TestDecryptRejectsMalformedEnvelope(t *testing.T) {
	_, err := Decrypt("foo", "not-a-valid-envelope")
	require.Error(t, err)
}
