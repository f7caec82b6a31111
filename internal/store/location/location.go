// Package location opens inputs and creates outputs named by URL: gs://bucket/key,
// s3://bucket/key, file:///path or a plain filesystem path. Compression is
// applied from the key's extension.
package location

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/discochess/gamefeatures/internal/store"
	"github.com/discochess/gamefeatures/internal/store/diskstore"
	"github.com/discochess/gamefeatures/internal/store/gcsstore"
	"github.com/discochess/gamefeatures/internal/store/s3store"
)

// ErrUnsupportedScheme indicates a URL scheme with no backend.
var ErrUnsupportedScheme = errors.New("location: unsupported scheme")

// Scheme names.
const (
	SchemeFile = "file"
	SchemeGCS  = "gs"
	SchemeS3   = "s3"
)

// Location is a parsed object address.
type Location struct {
	Scheme string
	// Bucket is the bucket for remote schemes, or the directory for files.
	Bucket string
	Key    string
}

// String formats the location back into a URL or path.
func (l Location) String() string {
	if l.Scheme == SchemeFile {
		return filepath.Join(l.Bucket, filepath.FromSlash(l.Key))
	}
	return l.Scheme + "://" + l.Bucket + "/" + l.Key
}

// Parse splits raw into scheme, bucket and key.
func Parse(raw string) (Location, error) {
	if raw == "" {
		return Location{}, fmt.Errorf("location: empty path")
	}
	if !strings.Contains(raw, "://") {
		return fileLocation(raw), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("location: %w", err)
	}
	switch u.Scheme {
	case SchemeFile:
		return fileLocation(u.Path), nil
	case SchemeGCS, SchemeS3:
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, fmt.Errorf("location: %q needs a bucket and key", raw)
		}
		return Location{Scheme: u.Scheme, Bucket: u.Host, Key: key}, nil
	}
	return Location{}, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
}

func fileLocation(path string) Location {
	return Location{
		Scheme: SchemeFile,
		Bucket: filepath.Dir(path),
		Key:    filepath.Base(path),
	}
}

// Option configures remote backends.
type Option func(*options)

type options struct {
	s3 []s3store.Option
}

// WithS3Region sets the AWS region for s3:// locations.
func WithS3Region(region string) Option {
	return func(o *options) {
		if region != "" {
			o.s3 = append(o.s3, s3store.WithRegion(region))
		}
	}
}

// WithS3Endpoint sets a custom endpoint for s3:// locations.
func WithS3Endpoint(endpoint string) Option {
	return func(o *options) {
		if endpoint != "" {
			o.s3 = append(o.s3, s3store.WithEndpoint(endpoint))
		}
	}
}

// Resolve returns a store holding l's key. The caller closes the store.
func Resolve(ctx context.Context, l Location, opts ...Option) (store.Store, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch l.Scheme {
	case SchemeFile:
		return diskstore.New(l.Bucket)
	case SchemeGCS:
		return gcsstore.New(ctx, l.Bucket)
	case SchemeS3:
		return s3store.New(ctx, l.Bucket, o.s3...)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, l.Scheme)
}

// Open opens raw for reading, decompressing by extension. Closing the reader
// also closes the backing store.
func Open(ctx context.Context, raw string, opts ...Option) (io.ReadCloser, error) {
	l, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	s, err := Resolve(ctx, l, opts...)
	if err != nil {
		return nil, err
	}
	rc, err := store.Read(ctx, s, l.Key)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening %s: %w", raw, err)
	}
	return &readCloser{ReadCloser: rc, store: s}, nil
}

// Create opens raw for writing, compressing by extension. Local parent
// directories are created as needed. Closing the writer also closes the
// backing store.
func Create(ctx context.Context, raw string, opts ...Option) (io.WriteCloser, error) {
	l, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if l.Scheme == SchemeFile {
		if err := os.MkdirAll(l.Bucket, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", l.Bucket, err)
		}
	}
	s, err := Resolve(ctx, l, opts...)
	if err != nil {
		return nil, err
	}
	wc, err := store.Write(ctx, s, l.Key)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating %s: %w", raw, err)
	}
	return &writeCloser{WriteCloser: wc, store: s}, nil
}

type readCloser struct {
	io.ReadCloser
	store store.Store
}

func (r *readCloser) Close() error {
	return errors.Join(r.ReadCloser.Close(), r.store.Close())
}

type writeCloser struct {
	io.WriteCloser
	store store.Store
}

func (w *writeCloser) Close() error {
	return errors.Join(w.WriteCloser.Close(), w.store.Close())
}
