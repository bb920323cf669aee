// Package store defines the key/value contract the command service persists
// through, plus the interchangeable adapters behind it. Adapters are selected
// by configuration; the service never knows which backend it is talking to.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is the sentinel returned when a key has no value. Absence is
// expected control flow, not a failure.
var ErrNotFound = errors.New("store: key not found")

// Store is an asynchronous keyed document store. Values are opaque bytes;
// callers own the encoding.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Keys returns all keys starting with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Delete removes key. Deleting an absent key returns ErrNotFound.
	Delete(ctx context.Context, key string) error
	// Close flushes and releases backend resources.
	Close() error
}

// IsNotFound reports whether err is the absence sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
