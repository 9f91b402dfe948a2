// Package credman keeps the session cookie bundle on disk for command line
// runs, where no host is around to persist it. The bundle is gob encoded and
// sealed with AES-GCM before it touches the filesystem.
package credman

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/warpdl/stadia-galaxy/internal/stadia"
	"github.com/warpdl/stadia-galaxy/pkg/credman/encryption"
	"github.com/warpdl/stadia-galaxy/pkg/credman/keyring"
)

// StoreFileName is the bundle file inside the config directory.
const StoreFileName = "cookies.stadia"

const storeFileMode = 0600

// BundleStore reads and writes one encrypted bundle file.
type BundleStore struct {
	fs   afero.Fs
	path string
	key  []byte
	mu   sync.Mutex
}

// NewBundleStore opens the store at configDir/StoreFileName. Nothing is read
// until Load is called.
func NewBundleStore(fs afero.Fs, configDir string, key []byte) (*BundleStore, error) {
	if len(key) != encryption.KeySize {
		return nil, encryption.ErrKeySize
	}
	return &BundleStore{
		fs:   fs,
		path: filepath.Join(configDir, StoreFileName),
		key:  key,
	}, nil
}

// Path returns the bundle file location.
func (s *BundleStore) Path() string {
	return s.path
}

// Load returns the stored bundle. A missing file yields an empty bundle.
func (s *BundleStore) Load() (stadia.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return stadia.Bundle{}, nil
	}
	if err != nil {
		return nil, err
	}
	plain, err := encryption.Open(sealed, s.key)
	if err != nil {
		return nil, fmt.Errorf("credman: decrypt %s: %w", s.path, err)
	}
	b := stadia.Bundle{}
	if err := gob.NewDecoder(bytes.NewReader(plain)).Decode(&b); err != nil {
		return nil, fmt.Errorf("credman: decode %s: %w", s.path, err)
	}
	return b, nil
}

// Save replaces the stored bundle.
func (s *BundleStore) Save(b stadia.Bundle) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(map[string]string(b)); err != nil {
		return err
	}
	sealed, err := encryption.Seal(buf.Bytes(), s.key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return afero.WriteFile(s.fs, s.path, sealed, storeFileMode)
}

// Clear removes the stored bundle. Clearing an empty store is not an error.
func (s *BundleStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.fs.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// StoreCredentials lets the shim persist logins made from the command line.
func (s *BundleStore) StoreCredentials(_ context.Context, b stadia.Bundle) error {
	return s.Save(b)
}

var _ stadia.CredentialStore = (*BundleStore)(nil)

// ResolveKey picks the store key: a hex key from the environment wins,
// otherwise the provider's key. A new key is generated only when the
// provider has none; an unreadable or malformed key is an error, since
// replacing it would orphan the saved bundle.
func ResolveKey(envHex string, p keyring.Provider) ([]byte, error) {
	if envHex != "" {
		key, err := hex.DecodeString(envHex)
		if err != nil {
			return nil, fmt.Errorf("credman: invalid cookie key: %w", err)
		}
		if len(key) != encryption.KeySize {
			return nil, encryption.ErrKeySize
		}
		return key, nil
	}
	key, err := p.GetKey()
	switch {
	case keyring.IsNotFound(err):
		return p.SetKey()
	case err != nil:
		return nil, fmt.Errorf("credman: read cookie key: %w", err)
	case len(key) != encryption.KeySize:
		return nil, fmt.Errorf("credman: stored cookie key: %w", encryption.ErrKeySize)
	}
	return key, nil
}
