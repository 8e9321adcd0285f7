package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/ImpactMatch/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// blobDocument is one stored blob, keyed by _id.
type blobDocument struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoBlobRepository implements storage.BlobStore on the "blobs" collection.
type MongoBlobRepository struct {
	c *mongo.Collection
}

// NewMongoBlobRepository returns a repository backed by db.Collection("blobs").
func NewMongoBlobRepository(db *mongo.Database) *MongoBlobRepository {
	return &MongoBlobRepository{c: db.Collection("blobs")}
}

// Get implements storage.BlobStore.
func (r *MongoBlobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var doc blobDocument
	err := r.c.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return doc.Value, nil
}

// Set implements storage.BlobStore. The document is replaced with upsert.
func (r *MongoBlobRepository) Set(ctx context.Context, key string, value []byte) error {
	doc := blobDocument{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.c.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("set blob %s: %w", key, err)
	}
	return nil
}

// Delete implements storage.BlobStore.
func (r *MongoBlobRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.c.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
