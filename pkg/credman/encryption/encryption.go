// Package encryption seals small blobs with AES-256-GCM.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// KeySize is the only key length accepted.
const KeySize = 32

// magic prefixes every sealed blob so a file written by something else is
// rejected before decryption is attempted.
const magic = "sgc1"

var (
	ErrKeySize   = fmt.Errorf("encryption: key must be %d bytes", KeySize)
	ErrNotSealed = errors.New("encryption: data is not a sealed blob")
	ErrTooShort  = errors.New("encryption: sealed blob too short")
	randomSource = rand.Reader
)

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext and returns magic || nonce || ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(randomSource, nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(magic)+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, magic...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// Open reverses Seal. A wrong key or tampered data fails authentication.
func Open(sealed, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < len(magic) || string(sealed[:len(magic)]) != magic {
		return nil, ErrNotSealed
	}
	rest := sealed[len(magic):]
	if len(rest) < gcm.NonceSize() {
		return nil, ErrTooShort
	}
	nonce, data := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	return gcm.Open(nil, nonce, data, nil)
}
