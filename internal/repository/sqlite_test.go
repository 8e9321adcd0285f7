package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/atinyakov/ImpactMatch/internal/db"
	"github.com/atinyakov/ImpactMatch/internal/storage"
)

func openSQLite(t *testing.T) *SQLiteBlobRepository {
	t.Helper()
	conn, err := db.InitSQLite(filepath.Join(t.TempDir(), "impactmatch.db"))
	if err != nil {
		t.Fatalf("InitSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewSQLiteBlobRepository(conn)
}

func TestSQLiteBlobRepository_RoundTrip(t *testing.T) {
	repo := openSQLite(t)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "impactMatchData"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected storage.ErrNotFound, got %v", err)
	}

	if err := repo.Set(ctx, "impactMatchData", []byte(`{"users":[]}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repo.Set(ctx, "impactMatchData", []byte(`{"users":[{}]}`)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err := repo.Get(ctx, "impactMatchData")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"users":[{}]}` {
		t.Errorf("Get = %s; want latest value", got)
	}

	if err := repo.Delete(ctx, "impactMatchData"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, "impactMatchData"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected storage.ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteBlobRepository_ClosedDB(t *testing.T) {
	repo := openSQLite(t)
	_ = repo.DB.Close()
	if err := repo.Set(context.Background(), "k", []byte("v")); err == nil {
		t.Error("expected error on closed database")
	}
}
