// Package bootstrap opens the configured blob store backend and builds the Store on top of it.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atinyakov/ImpactMatch/internal/config"
	"github.com/atinyakov/ImpactMatch/internal/db"
	"github.com/atinyakov/ImpactMatch/internal/repository"
	"github.com/atinyakov/ImpactMatch/internal/service"
	"github.com/atinyakov/ImpactMatch/internal/storage"
	"go.uber.org/zap"
)

// Backend is an opened blob store together with its resources.
type Backend struct {
	// Blobs is the store handed to the service, sealed when a secret key is configured.
	Blobs storage.BlobStore
	// Files is set for the file backend only.
	Files *storage.FileStore
	// Kind is the config.Storage* value the backend was opened for.
	Kind string

	closeFn func(context.Context) error
}

// Polled reports whether changes by other processes are only seen by polling.
func (b *Backend) Polled() bool {
	return b.Kind == config.StorageSQLite || b.Kind == config.StoragePostgres || b.Kind == config.StorageMongo
}

// Close releases database connections. It is safe to call on every backend.
func (b *Backend) Close(ctx context.Context) error {
	if b.closeFn == nil {
		return nil
	}
	return b.closeFn(ctx)
}

// Open opens the backend selected by o.Storage.
func Open(ctx context.Context, o *config.Options, log *zap.Logger) (*Backend, error) {
	b := &Backend{Kind: o.Storage}

	switch o.Storage {
	case config.StorageMemory:
		b.Blobs = storage.NewMemoryStore()
	case config.StorageFile:
		fs, err := storage.NewFileStore(o.DataDir)
		if err != nil {
			return nil, err
		}
		b.Blobs, b.Files = fs, fs
	case config.StorageSQLite:
		conn, err := db.InitSQLite(o.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("cannot init sqlite: %w", err)
		}
		b.Blobs = repository.NewSQLiteBlobRepository(conn)
		b.closeFn = closeSQL(conn)
	case config.StoragePostgres:
		conn, err := db.InitPostgres(o.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("cannot init database: %w", err)
		}
		b.Blobs = repository.NewPostgresBlobRepository(conn)
		b.closeFn = closeSQL(conn)
	case config.StorageMongo:
		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := db.ConnectMongo(cctx, o.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("cannot init mongo: %w", err)
		}
		b.Blobs = repository.NewMongoBlobRepository(client.Database(o.MongoDatabase))
		b.closeFn = client.Disconnect
	default:
		return nil, fmt.Errorf("unknown storage %q", o.Storage)
	}

	if o.SecretKey != "" {
		aead, err := storage.NewAEADFromSecret([]byte(o.SecretKey))
		if err != nil {
			_ = b.Close(ctx)
			return nil, err
		}
		b.Blobs = storage.NewSealedStore(b.Blobs, aead)
	}

	log.Info("storage opened",
		zap.String("backend", b.Kind),
		zap.Bool("sealed", o.SecretKey != ""),
	)
	return b, nil
}

func closeSQL(conn *sql.DB) func(context.Context) error {
	return func(context.Context) error { return conn.Close() }
}

// NewStore builds and initializes the Store over b.
func NewStore(ctx context.Context, b *Backend, opts ...service.Option) (*service.Store, error) {
	s := service.NewStore(b.Blobs, opts...)
	if err := s.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return s, nil
}

// StartReloading keeps s in sync with writes made by other processes:
// the file backend is watched when watch is set, database backends are
// polled every interval when it is positive.
func StartReloading(ctx context.Context, b *Backend, s *service.Store, watch bool, interval time.Duration, log *zap.Logger) error {
	if b.Files != nil && watch {
		return b.Files.Watch(ctx, func(key string) {
			if key != service.DataKey {
				return
			}
			if err := s.Refresh(ctx); err != nil {
				log.Error("failed to reload changed data", zap.Error(err))
			}
		}, log)
	}
	if b.Polled() && interval > 0 {
		service.StartAutoRefresh(ctx, s, interval, log)
	}
	return nil
}
