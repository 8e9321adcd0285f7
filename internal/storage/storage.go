// Package storage provides the persistence adapter used by the data store:
// a key/value store of opaque blobs, plus local implementations of it.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when no blob is stored under the key.
var ErrNotFound = errors.New("blob not found")

// BlobStore persists whole documents under string keys.
type BlobStore interface {
	// Get returns the blob stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous blob.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the blob under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ValidateKey rejects keys that cannot be used as a single file name.
func ValidateKey(key string) error {
	if key == "" {
		return errors.New("empty key")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
