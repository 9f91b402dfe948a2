package keyring

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/zalando/go-keyring"
)

func stubKeyring(t *testing.T) map[string]string {
	t.Helper()
	origSet, origGet, origDelete, origRand := keyringSet, keyringGet, keyringDelete, randRead
	t.Cleanup(func() {
		keyringSet, keyringGet, keyringDelete, randRead = origSet, origGet, origDelete, origRand
	})

	store := map[string]string{}
	keyringSet = func(app, key, value string) error {
		store[app+"/"+key] = value
		return nil
	}
	keyringGet = func(app, key string) (string, error) {
		v, ok := store[app+"/"+key]
		if !ok {
			return "", errors.New("secret not found in keyring")
		}
		return v, nil
	}
	keyringDelete = func(app, key string) error {
		if _, ok := store[app+"/"+key]; !ok {
			return errors.New("secret not found in keyring")
		}
		delete(store, app+"/"+key)
		return nil
	}
	randRead = func(b []byte) (int, error) {
		for i := range b {
			b[i] = 0x01
		}
		return len(b), nil
	}
	return store
}

func TestKeyringSetGetDelete(t *testing.T) {
	store := stubKeyring(t)
	kr := NewKeyring()

	key, err := kr.SetKey()
	if err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("expected 32-byte key, got %d", len(key))
	}
	if got := store["stadia-galaxy/cookies"]; got != hex.EncodeToString(key) {
		t.Fatalf("keyring holds %q, want hex of key", got)
	}

	got, err := kr.GetKey()
	if err != nil {
		t.Fatalf("GetKey: %v", err)
	}
	if !bytes.Equal(got, key) {
		t.Fatalf("GetKey = %x, want %x", got, key)
	}

	if err := kr.DeleteKey(); err != nil {
		t.Fatalf("DeleteKey: %v", err)
	}
	if _, err := kr.GetKey(); err == nil {
		t.Fatal("expected error after delete")
	}
}

func TestKeyringGetInvalidHex(t *testing.T) {
	store := stubKeyring(t)
	store["stadia-galaxy/cookies"] = "not-hex"

	if _, err := NewKeyring().GetKey(); err == nil {
		t.Fatal("expected error for invalid hex")
	}
}

func TestKeyringSetError(t *testing.T) {
	stubKeyring(t)
	keyringSet = func(app, key, value string) error { return errors.New("no dbus") }

	if _, err := NewKeyring().SetKey(); err == nil {
		t.Fatal("expected error from keyring set")
	}
}

type staticProvider struct {
	key []byte
	err error
}

func (s *staticProvider) GetKey() ([]byte, error) { return s.key, s.err }
func (s *staticProvider) SetKey() ([]byte, error) { return s.key, s.err }
func (s *staticProvider) DeleteKey() error        { return s.err }

func TestChain(t *testing.T) {
	primary := &staticProvider{key: []byte("primary")}
	fallback := &staticProvider{key: []byte("fallback")}
	c := Chain{Primary: primary, Fallback: fallback}

	if got, _ := c.GetKey(); string(got) != "primary" {
		t.Errorf("GetKey = %q, want primary", got)
	}

	primary.err = errors.New("unavailable")
	if got, _ := c.GetKey(); string(got) != "fallback" {
		t.Errorf("GetKey = %q, want fallback", got)
	}
	if got, _ := c.SetKey(); string(got) != "fallback" {
		t.Errorf("SetKey = %q, want fallback", got)
	}
	if err := c.DeleteKey(); err != nil {
		t.Errorf("DeleteKey should succeed when one provider does: %v", err)
	}

	fallback.err = errors.New("gone")
	if err := c.DeleteKey(); err == nil {
		t.Error("expected DeleteKey error when both providers fail")
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{keyring.ErrNotFound, true},
		{fmt.Errorf("read key: %w", os.ErrNotExist), true},
		{errors.New("keyring locked"), false},
	}
	for _, tt := range tests {
		if got := IsNotFound(tt.err); got != tt.want {
			t.Errorf("IsNotFound(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestChain_DeleteKeyNothingStored(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := Chain{
		Primary:  &staticProvider{err: keyring.ErrNotFound},
		Fallback: NewFileKeyStore(fs, "/config"),
	}
	err := c.DeleteKey()
	if err == nil || !IsNotFound(err) {
		t.Fatalf("DeleteKey = %v, want a not found error", err)
	}

	c.Primary = &staticProvider{err: errors.New("keyring locked")}
	if _, err := c.Fallback.SetKey(); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteKey(); err != nil {
		t.Fatalf("DeleteKey with a file key: %v", err)
	}
	if _, err := c.Fallback.GetKey(); !IsNotFound(err) {
		t.Errorf("key file should be gone, GetKey err = %v", err)
	}
}
