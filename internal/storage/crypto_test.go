package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestNewAEADFromSecret(t *testing.T) {
	aead1, err := NewAEADFromSecret([]byte("s3cret"))
	if err != nil {
		t.Fatalf("derive AEAD failed: %v", err)
	}
	aead2, err := NewAEADFromSecret([]byte("s3cret"))
	if err != nil {
		t.Fatalf("derive AEAD second time: %v", err)
	}

	// same secret => same key, so we can encrypt with aead1 and decrypt with aead2
	nonce := make([]byte, aead1.NonceSize())
	ciphertext := aead1.Seal(nil, nonce, []byte("helloworld"), nil)
	plain, err := aead2.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if !bytes.Equal(plain, []byte("helloworld")) {
		t.Errorf("unexpected plaintext: got %q, want %q", plain, "helloworld")
	}

	if _, err := NewAEADFromSecret(nil); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestSealedStore_RoundTrip(t *testing.T) {
	aead, err := NewAEADFromSecret([]byte("key"))
	if err != nil {
		t.Fatalf("derive AEAD failed: %v", err)
	}
	inner := NewMemoryStore()
	sealed := NewSealedStore(inner, aead)
	ctx := context.Background()

	if err := sealed.Set(ctx, "impactMatchData", []byte(`{"users":[]}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	raw, err := inner.Get(ctx, "impactMatchData")
	if err != nil {
		t.Fatalf("inner Get failed: %v", err)
	}
	if bytes.Contains(raw, []byte("users")) {
		t.Errorf("inner store holds plaintext: %q", raw)
	}

	got, err := sealed.Get(ctx, "impactMatchData")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"users":[]}` {
		t.Errorf("Get = %q", got)
	}
}

func TestSealedStore_WrongKey(t *testing.T) {
	a1, _ := NewAEADFromSecret([]byte("one"))
	a2, _ := NewAEADFromSecret([]byte("two"))
	inner := NewMemoryStore()
	ctx := context.Background()

	if err := NewSealedStore(inner, a1).Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := NewSealedStore(inner, a2).Get(ctx, "k"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestSealedStore_BlobMovedToOtherKey(t *testing.T) {
	aead, _ := NewAEADFromSecret([]byte("key"))
	inner := NewMemoryStore()
	sealed := NewSealedStore(inner, aead)
	ctx := context.Background()

	if err := sealed.Set(ctx, "a", []byte("v")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	raw, _ := inner.Get(ctx, "a")
	_ = inner.Set(ctx, "b", raw)
	if _, err := sealed.Get(ctx, "b"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt for blob under a different key, got %v", err)
	}
}

func TestSealedStore_Short(t *testing.T) {
	aead, _ := NewAEADFromSecret([]byte("key"))
	inner := NewMemoryStore()
	_ = inner.Set(context.Background(), "k", []byte("x"))
	if _, err := NewSealedStore(inner, aead).Get(context.Background(), "k"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestSealedStore_MissingPassesThrough(t *testing.T) {
	aead, _ := NewAEADFromSecret([]byte("key"))
	if _, err := NewSealedStore(NewMemoryStore(), aead).Get(context.Background(), "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
