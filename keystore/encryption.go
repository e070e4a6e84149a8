// Package keystore stores a wallet's signing key at rest behind a
// passphrase, so cmd/omgtx never has to take a raw hex private key on the
// command line. The envelope is AES-GCM under a PBKDF2-SHA256 key derived
// from the passphrase, written as hex salt, nonce and ciphertext joined by
// dashes.
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 1000
	cipherKeyLength  = 32
	saltLength       = 8
)

var ErrEmptyPassphrase = errors.New("passphrase cannot be empty")

// Encrypt seals plaintext under passphrase and returns a self-contained,
// hex-and-dash encoded envelope: salt-nonce-ciphertext.
func Encrypt(passphrase string, plaintext []byte) (string, error) {
	if passphrase == "" {
		return "", ErrEmptyPassphrase
	}
	cipherKey, salt, err := deriveCipherKey(passphrase, nil)
	if err != nil {
		return "", fmt.Errorf("generating cipher key: %w", err)
	}

	block, err := aes.NewCipher(cipherKey)
	if err != nil {
		return "", fmt.Errorf("creating AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("creating GCM cipher: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	return strings.Join([]string{
		hex.EncodeToString(salt),
		hex.EncodeToString(nonce),
		hex.EncodeToString(ciphertext),
	}, "-"), nil
}

// Decrypt opens an envelope produced by Encrypt. A wrong passphrase
// surfaces as a GCM authentication failure, not a distinguishable error.
func Decrypt(passphrase string, envelope string) ([]byte, error) {
	parts := strings.Split(envelope, "-")
	if len(parts) != 3 {
		return nil, errors.New("malformed keystore envelope")
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("decoding salt: %w", err)
	}
	nonce, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decoding nonce: %w", err)
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("decoding ciphertext: %w", err)
	}

	cipherKey, _, err := deriveCipherKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("deriving cipher key: %w", err)
	}
	block, err := aes.NewCipher(cipherKey)
	if err != nil {
		return nil, fmt.Errorf("creating AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM cipher: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypting (wrong passphrase?): %w", err)
	}
	return plaintext, nil
}

func deriveCipherKey(passphrase string, salt []byte) (key, usedSalt []byte, err error) {
	if salt == nil {
		salt = make([]byte, saltLength)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, err
		}
	}
	return pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, cipherKeyLength, sha256.New), salt, nil
}
