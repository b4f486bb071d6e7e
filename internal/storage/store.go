// Package storage provides the persistent key-value store the client keeps
// its session artifacts in. Implementations exist for in-memory, Redis, and
// SQLite backends; callers treat any store failure as "value absent".
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is an asynchronous string key-value store.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes the value for key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
