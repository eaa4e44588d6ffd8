// Package securestore keeps secrets (API keys, OAuth client secrets) sealed
// at rest inside the settings store.
package securestore

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"teachassist/internal/repository"
)

const (
	keyLen  = 32
	saltLen = 16

	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 1
)

// ErrSealedValueCorrupt is returned when a stored value fails to decode or
// authenticate.
var ErrSealedValueCorrupt = errors.New("sealed value corrupt")

// Store seals and unseals named secrets over a settings repository. The
// master key is derived once from the passphrase; each secret gets its own
// subkey via HKDF keyed by the secret name, so a value copied under another
// name will not open.
type Store struct {
	settings repository.SettingsRepository
	master   []byte
}

// New derives the master key from passphrase and salt using Argon2id.
func New(settings repository.SettingsRepository, passphrase, salt []byte) *Store {
	return &Store{
		settings: settings,
		master:   argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, keyLen),
	}
}

// NewSalt returns a fresh random salt for first-time setup.
func NewSalt() ([]byte, error) {
	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Seal encrypts value and stores it under name.
func (s *Store) Seal(ctx context.Context, name, value string) error {
	aead, err := s.aeadFor(name)
	if err != nil {
		return err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	out := make([]byte, 0, len(nonce)+len(value)+aead.Overhead())
	out = append(out, nonce...)
	out = append(out, aead.Seal(nil, nonce, []byte(value), []byte(name))...)
	return s.settings.Set(ctx, name, base64.StdEncoding.EncodeToString(out))
}

// Unseal loads and decrypts the value stored under name. Missing names
// surface the repository's errs.ErrNotFound; undecodable or tampered values
// surface ErrSealedValueCorrupt.
func (s *Store) Unseal(ctx context.Context, name string) (string, error) {
	stored, err := s.settings.Get(ctx, name)
	if err != nil {
		return "", err
	}
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealedValueCorrupt, err)
	}
	if len(raw) < chacha20poly1305.NonceSizeX {
		return "", ErrSealedValueCorrupt
	}
	aead, err := s.aeadFor(name)
	if err != nil {
		return "", err
	}
	nonce := raw[:chacha20poly1305.NonceSizeX]
	ct := raw[chacha20poly1305.NonceSizeX:]
	plain, err := aead.Open(nil, nonce, ct, []byte(name))
	if err != nil {
		return "", ErrSealedValueCorrupt
	}
	return string(plain), nil
}

// Remove deletes the secret; removing an absent name is a no-op.
func (s *Store) Remove(ctx context.Context, name string) error {
	return s.settings.Delete(ctx, name)
}

func (s *Store) aeadFor(name string) (cipher.AEAD, error) {
	key := make([]byte, keyLen)
	r := hkdf.New(sha256.New, s.master, nil, []byte(name))
	if _, err := r.Read(key); err != nil {
		return nil, err
	}
	return chacha20poly1305.NewX(key)
}
