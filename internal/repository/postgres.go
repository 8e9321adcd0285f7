// Package repository provides database-backed implementations of storage.BlobStore.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/ImpactMatch/internal/storage"
)

// PostgresBlobRepository implements storage.BlobStore using a PostgreSQL database.
type PostgresBlobRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresBlobRepository creates a new PostgresBlobRepository with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance with the blobs table migrated.
func NewPostgresBlobRepository(db *sql.DB) *PostgresBlobRepository {
	return &PostgresBlobRepository{DB: db}
}

// Get returns the blob stored under key.
// It returns storage.ErrNotFound if no row exists.
func (r *PostgresBlobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT value FROM blobs WHERE key = $1`,
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return value, nil
}

// Set inserts the blob or replaces the value of an existing key.
func (r *PostgresBlobRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO blobs (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set blob %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob under key. Missing keys are ignored.
func (r *PostgresBlobRepository) Delete(ctx context.Context, key string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM blobs WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
