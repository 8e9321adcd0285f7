package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/ImpactMatch/internal/storage"
)

// SQLiteBlobRepository implements storage.BlobStore on a SQLite database file.
type SQLiteBlobRepository struct {
	DB *sql.DB
}

// NewSQLiteBlobRepository wraps a database opened with db.InitSQLite.
func NewSQLiteBlobRepository(db *sql.DB) *SQLiteBlobRepository {
	return &SQLiteBlobRepository{DB: db}
}

// Get implements storage.BlobStore.
func (r *SQLiteBlobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.DB.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return value, nil
}

// Set implements storage.BlobStore.
func (r *SQLiteBlobRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("set blob %s: %w", key, err)
	}
	return nil
}

// Delete implements storage.BlobStore.
func (r *SQLiteBlobRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
