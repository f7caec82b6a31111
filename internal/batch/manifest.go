package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/discochess/gamefeatures/internal/store/location"
)

// ManifestVersion is the current manifest layout.
const ManifestVersion = 1

// Manifest describes a finished batch run.
type Manifest struct {
	Version          int       `json:"version"`
	RunID            string    `json:"run_id"`
	Source           string    `json:"source,omitempty"`
	Output           string    `json:"output,omitempty"`
	Engine           string    `json:"engine,omitempty"`
	CatalogueEntries int       `json:"catalogue_entries,omitempty"`
	Workers          int       `json:"workers"`
	Strict           bool      `json:"strict"`
	GamesRead        int64     `json:"games_read"`
	GamesWritten     int64     `json:"games_written"`
	GamesRejected    int64     `json:"games_rejected"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
}

// Elapsed returns the run's wall time, or the time since it started if it
// has not finished.
func (m *Manifest) Elapsed() time.Duration {
	if m.FinishedAt.IsZero() {
		return time.Since(m.StartedAt)
	}
	return m.FinishedAt.Sub(m.StartedAt)
}

// ManifestPath returns the manifest location written next to output.
func ManifestPath(output string) string {
	return output + ".manifest.json"
}

// WriteManifest writes m as JSON to target, which may be any store location.
func WriteManifest(ctx context.Context, target string, m *Manifest, opts ...location.Option) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	w, err := location.Create(ctx, target, opts...)
	if err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(ctx context.Context, target string, opts ...location.Option) (*Manifest, error) {
	r, err := location.Open(ctx, target, opts...)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	defer r.Close()

	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
