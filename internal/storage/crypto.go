package storage

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
)

// ErrCorrupt is returned when a sealed blob cannot be opened.
var ErrCorrupt = errors.New("sealed blob is corrupt or was written with another key")

// NewAEADFromSecret derives an AES-256-GCM cipher from secret.
func NewAEADFromSecret(secret []byte) (cipher.AEAD, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty secret")
	}
	key := sha256.Sum256(secret)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	return aead, nil
}

// SealedStore encrypts every blob before handing it to the wrapped store.
// Stored value = nonce || ciphertext; the key is bound as additional data.
type SealedStore struct {
	next BlobStore
	aead cipher.AEAD
}

// NewSealedStore wraps next with aead.
func NewSealedStore(next BlobStore, aead cipher.AEAD) *SealedStore {
	return &SealedStore{next: next, aead: aead}
}

// Get implements BlobStore.
func (s *SealedStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	ns := s.aead.NonceSize()
	if len(data) < ns {
		return nil, fmt.Errorf("open %s: %w", key, ErrCorrupt)
	}
	plain, err := s.aead.Open(nil, data[:ns], data[ns:], []byte(key))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, ErrCorrupt)
	}
	return plain, nil
}

// Set implements BlobStore.
func (s *SealedStore) Set(ctx context.Context, key string, value []byte) error {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	return s.next.Set(ctx, key, s.aead.Seal(nonce, nonce, value, []byte(key)))
}

// Delete implements BlobStore.
func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return s.next.Delete(ctx, key)
}
