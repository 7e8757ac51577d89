// Package storage defines the key-value persistence port and its
// implementations. The app keeps its whole dataset under two logical keys,
// serialized as JSON blobs; backends only ever see opaque bytes.
package storage

import (
	"context"
	"errors"
)

// Logical keys for the persisted blobs.
const (
	KeyTransactions = "carteira:transactions"
	KeyAccount      = "carteira:account"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// KeyValue is the storage collaborator port: a byte-blob store with
// last-write-wins semantics and no transactions across keys.
type KeyValue interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous blob.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
