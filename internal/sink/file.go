package sink

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/discochess/gamefeatures"
)

// JSONL writes one JSON object per line.
type JSONL struct {
	wc  io.WriteCloser
	buf *bufio.Writer
	enc *json.Encoder
}

var _ Sink = (*JSONL)(nil)

// NewJSONL creates a JSON-lines sink. Close closes wc.
func NewJSONL(wc io.WriteCloser) *JSONL {
	buf := bufio.NewWriter(wc)
	return &JSONL{wc: wc, buf: buf, enc: json.NewEncoder(buf)}
}

// Write implements Sink.
func (j *JSONL) Write(_ context.Context, rec *gamefeatures.Record) error {
	if j.enc == nil {
		return ErrClosed
	}
	if err := j.enc.Encode(rec); err != nil {
		return fmt.Errorf("encoding record %s: %w", rec.GameID, err)
	}
	return nil
}

// Close implements Sink.
func (j *JSONL) Close() error {
	if j.enc == nil {
		return ErrClosed
	}
	j.enc = nil
	return errors.Join(j.buf.Flush(), j.wc.Close())
}

// CSV writes a header row followed by one row per record. Grids are not
// written.
type CSV struct {
	wc     io.WriteCloser
	w      *csv.Writer
	closed bool
}

var _ Sink = (*CSV)(nil)

// NewCSV creates a CSV sink and writes the header. Close closes wc.
func NewCSV(wc io.WriteCloser) (*CSV, error) {
	w := csv.NewWriter(wc)
	if err := w.Write(gamefeatures.Columns); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	return &CSV{wc: wc, w: w}, nil
}

// Write implements Sink.
func (c *CSV) Write(_ context.Context, rec *gamefeatures.Record) error {
	if c.closed {
		return ErrClosed
	}
	if err := c.w.Write(rec.Values()); err != nil {
		return fmt.Errorf("writing CSV row %s: %w", rec.GameID, err)
	}
	return nil
}

// Close implements Sink.
func (c *CSV) Close() error {
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	c.w.Flush()
	return errors.Join(c.w.Error(), c.wc.Close())
}

// NopCloser returns a WriteCloser whose Close does nothing, for sinks over
// os.Stdout.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
