// Package store defines the storage backend interface for reading inputs and
// writing outputs by key. Backends deal in raw bytes; compression is chosen
// from the key's extension by Read and Write.
package store

import (
	"context"
	"errors"
	"io"

	"github.com/discochess/gamefeatures/internal/codec"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("store: object not found")

// Store defines the interface for storage backends.
// Implementations handle path formats and storage details internally.
type Store interface {
	// Open returns a reader over the raw bytes stored at key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Create returns a writer that stores its bytes at key. The object is
	// only guaranteed to be visible after Close returns nil.
	Create(ctx context.Context, key string) (io.WriteCloser, error)

	// Close releases any resources held by the store.
	Close() error
}

// Read opens key and decompresses it according to its extension.
func Read(ctx context.Context, s Store, key string) (io.ReadCloser, error) {
	rc, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	return codec.NewReader(rc, codec.ForPath(key))
}

// Write creates key, compressing according to its extension.
func Write(ctx context.Context, s Store, key string) (io.WriteCloser, error) {
	wc, err := s.Create(ctx, key)
	if err != nil {
		return nil, err
	}
	return codec.NewWriter(wc, codec.ForPath(key))
}
