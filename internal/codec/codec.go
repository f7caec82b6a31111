// Package codec provides compression and decompression for input and output
// files. The codec is chosen from the file extension.
package codec

import (
	"io"
	"path"
	"strings"
)

// Codec provides compression and decompression functionality.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it. Closing the returned
	// writer flushes it but never closes w.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	// Returns empty string for no compression.
	Extension() string
}

// All lists the known codecs.
var All = []Codec{Plain{}, Gzip{}, Zstd{}}

// ForPath returns the codec whose extension matches name, or Plain.
func ForPath(name string) Codec {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	for _, c := range All {
		if c.Extension() != "" && c.Extension() == ext {
			return c
		}
	}
	return Plain{}
}

// Strip removes a compression extension from name, if present.
func Strip(name string) string {
	if ext := ForPath(name).Extension(); ext != "" {
		return name[:len(name)-len(ext)-1]
	}
	return name
}

// NewReader decompresses rc with c. Closing the result also closes rc.
func NewReader(rc io.ReadCloser, c Codec) (io.ReadCloser, error) {
	r, err := c.Reader(rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return &stackedReader{ReadCloser: r, under: rc}, nil
}

// NewWriter compresses into wc with c. Closing the result flushes the
// codec and then closes wc.
func NewWriter(wc io.WriteCloser, c Codec) (io.WriteCloser, error) {
	w, err := c.Writer(wc)
	if err != nil {
		wc.Close()
		return nil, err
	}
	return &stackedWriter{WriteCloser: w, under: wc}, nil
}

type stackedReader struct {
	io.ReadCloser
	under io.Closer
}

func (s *stackedReader) Close() error {
	err := s.ReadCloser.Close()
	if uerr := s.under.Close(); err == nil {
		err = uerr
	}
	return err
}

type stackedWriter struct {
	io.WriteCloser
	under io.Closer
}

func (s *stackedWriter) Close() error {
	err := s.WriteCloser.Close()
	if uerr := s.under.Close(); err == nil {
		err = uerr
	}
	return err
}
