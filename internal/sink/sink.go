// Package sink writes feature records produced by a batch run.
package sink

import (
	"context"
	"errors"
	"sync"

	"github.com/discochess/gamefeatures"
)

// ErrClosed indicates a write to a closed sink.
var ErrClosed = errors.New("sink: closed")

// Sink receives records in the order the batch produces them.
// Implementations need not be safe for concurrent use.
type Sink interface {
	// Write stores one record.
	Write(ctx context.Context, rec *gamefeatures.Record) error

	// Close flushes buffered records and releases resources.
	Close() error
}

// Tee writes every record to each of its sinks in turn.
type Tee []Sink

var _ Sink = Tee(nil)

// Write implements Sink. It stops at the first failing sink.
func (t Tee) Write(ctx context.Context, rec *gamefeatures.Record) error {
	for _, s := range t {
		if err := s.Write(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Close implements Sink. Every sink is closed even if one fails.
func (t Tee) Close() error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// Memory keeps records in memory.
type Memory struct {
	mu      sync.Mutex
	records []*gamefeatures.Record
	closed  bool
}

var _ Sink = (*Memory)(nil)

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Write implements Sink.
func (m *Memory) Write(_ context.Context, rec *gamefeatures.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.records = append(m.records, rec)
	return nil
}

// Close implements Sink.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Records returns the records written so far.
func (m *Memory) Records() []*gamefeatures.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*gamefeatures.Record, len(m.records))
	copy(out, m.records)
	return out
}
