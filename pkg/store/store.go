// Package store persists graph analysis records.
//
// This package defines the storage interface for analysis documents, with
// implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage for durable deployments
//
// # Usage
//
// Create a store:
//
//	// Development
//	st := store.NewMemory()
//
//	// Redis
//	st, err := store.NewRedis(ctx, store.RedisConfig{Addr: "localhost:6379"})
//
//	// MongoDB
//	st, err := store.NewMongo(ctx, store.MongoConfig{URI: "mongodb://localhost"})
//
// Persist an analysis:
//
//	rec := store.NewRecord(doc)
//	if err := st.Put(ctx, rec); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/driftlab/refdag/pkg/graphio"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: record not found")

// Record is a stored analysis document with its storage identity.
type Record struct {
	ID        string            `json:"id" bson:"_id"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
	Document  *graphio.Document `json:"document" bson:"document"`
}

// NewRecord wraps a document in a fresh record with a generated ID.
func NewRecord(doc *graphio.Document) *Record {
	return &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Document:  doc,
	}
}

// Store is the interface for analysis record storage backends.
type Store interface {
	// Put stores a record, replacing any record with the same ID.
	Put(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. Returns [ErrNotFound] if absent.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]*Record, error)

	// Delete removes a record. Returns [ErrNotFound] if absent.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
