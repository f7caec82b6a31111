package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

var _ Codec = Zstd{}

// Zstd implements zstd compression.
type Zstd struct{}

// Reader wraps r to decompress zstd data.
func (Zstd) Reader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

// Writer wraps w to compress data with zstd.
func (Zstd) Writer(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}

// Extension returns "zst".
func (Zstd) Extension() string {
	return "zst"
}
