// Package keyring keeps the local store key in the operating system keyring,
// with a file based fallback for machines that have none.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"

	"github.com/zalando/go-keyring"
)

const keySize = 32

// Provider hands out the encryption key.
type Provider interface {
	// GetKey returns the existing key.
	GetKey() ([]byte, error)
	// SetKey generates, stores and returns a new key.
	SetKey() ([]byte, error)
	// DeleteKey forgets the key.
	DeleteKey() error
}

// IsNotFound reports whether err means no key has been stored yet, as
// opposed to a key that exists but cannot be read.
func IsNotFound(err error) bool {
	return errors.Is(err, keyring.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// Keyring stores the key hex encoded under AppName/KeyField.
type Keyring struct {
	AppName  string
	KeyField string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

func NewKeyring() *Keyring {
	return &Keyring{
		AppName:  "stadia-galaxy",
		KeyField: "cookies",
	}
}

func (k *Keyring) SetKey() ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := randRead(key); err != nil {
		return nil, err
	}
	if err := keyringSet(k.AppName, k.KeyField, hex.EncodeToString(key)); err != nil {
		return nil, err
	}
	return key, nil
}

func (k *Keyring) GetKey() ([]byte, error) {
	v, err := keyringGet(k.AppName, k.KeyField)
	if err != nil {
		return nil, err
	}
	key, err := hex.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	return key, nil
}

func (k *Keyring) DeleteKey() error {
	return keyringDelete(k.AppName, k.KeyField)
}

// Chain prefers Primary and uses Fallback when Primary fails.
type Chain struct {
	Primary  Provider
	Fallback Provider
}

func (c Chain) GetKey() ([]byte, error) {
	key, err := c.Primary.GetKey()
	if err == nil {
		return key, nil
	}
	return c.Fallback.GetKey()
}

func (c Chain) SetKey() ([]byte, error) {
	key, err := c.Primary.SetKey()
	if err == nil {
		return key, nil
	}
	return c.Fallback.SetKey()
}

// DeleteKey removes the key from both providers. It only fails if neither
// held one; the joined error then matches IsNotFound when either side
// simply had no key.
func (c Chain) DeleteKey() error {
	perr := c.Primary.DeleteKey()
	ferr := c.Fallback.DeleteKey()
	if perr != nil && ferr != nil {
		return errors.Join(perr, ferr)
	}
	return nil
}

var (
	_ Provider = (*Keyring)(nil)
	_ Provider = (*FileKeyStore)(nil)
	_ Provider = Chain{}
)
