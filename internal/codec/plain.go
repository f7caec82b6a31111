package codec

import "io"

var _ Codec = Plain{}

// Plain passes data through unchanged.
type Plain struct{}

// Reader returns r without decompression.
func (Plain) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// Writer returns w without compression.
func (Plain) Writer(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

// Extension returns empty string.
func (Plain) Extension() string {
	return ""
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
