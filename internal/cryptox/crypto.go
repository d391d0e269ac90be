// Package cryptox seals small secrets (saved passwords) before they are
// written to device storage.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recetario/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the AES-256 key length produced by DeriveKey.
const KeySize = 32

var ErrMalformed = errors.New("malformed sealed value")

// DeriveKey stretches secret with argon2id into a KeySize-byte AES key.
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-GCM under key and returns
// base64(nonce || ciphertext). A fresh nonce is drawn on every call.
func Seal(key, plaintext []byte) (string, error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}

	nonce := common.GenerateRandByteArray(aead.NonceSize())
	out := aead.Seal(nonce, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func Open(key []byte, sealed string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return nil, ErrMalformed
	}

	nonce, ct := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	return plaintext, nil
}
