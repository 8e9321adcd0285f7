package db_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/ImpactMatch/internal/db"
)

func TestInitPostgres_ErrorPaths(t *testing.T) {
	cases := []struct {
		name       string
		dsn        string
		wantSubstr string
	}{
		{"invalid DSN", "some=random", "ping postgres"},
		{"empty DSN", "", "ping postgres"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.InitPostgres(tc.dsn)
			if err == nil {
				t.Fatalf("InitPostgres(%q) did not return error", tc.dsn)
			}
			if !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Errorf("InitPostgres(%q) error = %q; want substring %q", tc.dsn, err.Error(), tc.wantSubstr)
			}
		})
	}
}

func TestMigrationSource(t *testing.T) {
	src, err := db.MigrationSource()
	if err != nil {
		t.Fatalf("MigrationSource failed: %v", err)
	}
	defer src.Close()

	first, err := src.First()
	if err != nil {
		t.Fatalf("First failed: %v", err)
	}
	if first != 1 {
		t.Errorf("first migration version = %d; want 1", first)
	}
	r, _, err := src.ReadUp(first)
	if err != nil {
		t.Fatalf("ReadUp failed: %v", err)
	}
	defer r.Close()
}

func TestInitSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "impactmatch.db")
	conn, err := db.InitSQLite(path)
	if err != nil {
		t.Fatalf("InitSQLite failed: %v", err)
	}
	defer conn.Close()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM blobs`).Scan(&n); err != nil {
		t.Fatalf("blobs table missing: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty blobs table, got %d rows", n)
	}

	// reopening an existing database keeps the schema idempotent
	again, err := db.InitSQLite(path)
	if err != nil {
		t.Fatalf("second InitSQLite failed: %v", err)
	}
	_ = again.Close()
}

func TestConnectMongo_BadURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := db.ConnectMongo(ctx, "not-a-mongo-uri"); err == nil {
		t.Error("expected error for malformed URI")
	}
}
