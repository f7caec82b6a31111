package sink

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/discochess/gamefeatures/internal/codec"
	"github.com/discochess/gamefeatures/internal/store/location"
)

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	table     string
	keyPrefix string
	ttl       time.Duration
	location  []location.Option
}

// WithTable sets the Postgres table name.
func WithTable(table string) Option {
	return func(o *openOptions) { o.table = table }
}

// WithKeyPrefix sets the Redis key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(o *openOptions) { o.keyPrefix = prefix }
}

// WithTTL sets the expiry of Redis game hashes.
func WithTTL(ttl time.Duration) Option {
	return func(o *openOptions) { o.ttl = ttl }
}

// WithLocationOptions passes options to the store resolving file targets.
func WithLocationOptions(opts ...location.Option) Option {
	return func(o *openOptions) { o.location = append(o.location, opts...) }
}

// Open returns the sink named by target:
//
//	postgres://... or postgresql://...   Postgres table
//	redis://... or rediss://...          Redis hashes
//	anything else                        a file location; .csv writes CSV,
//	                                     otherwise JSON lines
//
// File targets may live on gs:// or s3:// and are compressed by extension.
func Open(ctx context.Context, target string, opts ...Option) (Sink, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case strings.HasPrefix(target, "postgres://"), strings.HasPrefix(target, "postgresql://"):
		return OpenPostgres(ctx, target, o.table)
	case strings.HasPrefix(target, "redis://"), strings.HasPrefix(target, "rediss://"):
		return OpenRedis(ctx, target, o.keyPrefix, o.ttl)
	}

	wc, err := location.Create(ctx, target, o.location...)
	if err != nil {
		return nil, fmt.Errorf("opening sink: %w", err)
	}
	if IsCSV(target) {
		s, err := NewCSV(wc)
		if err != nil {
			wc.Close()
			return nil, err
		}
		return s, nil
	}
	return NewJSONL(wc), nil
}

// IsCSV reports whether a file target is written as CSV.
func IsCSV(target string) bool {
	return strings.EqualFold(filepath.Ext(codec.Strip(target)), ".csv")
}
