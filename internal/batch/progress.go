package batch

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Progress phases.
const (
	PhaseExtract = "extract"
	PhaseDone    = "done"
	PhaseError   = "error"
)

// Progress tracks batch progress.
type Progress struct {
	Phase    string
	Manifest Manifest
	Error    error
}

// ProgressFunc is called periodically with progress updates.
type ProgressFunc func(Progress)

// FormatDuration formats duration as human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// ProgressPrinter returns a ProgressFunc writing single-line updates to w.
func ProgressPrinter(w io.Writer) ProgressFunc {
	return func(p Progress) {
		m := p.Manifest
		switch p.Phase {
		case PhaseExtract:
			rate := float64(0)
			if s := time.Since(m.StartedAt).Seconds(); s > 0 {
				rate = float64(m.GamesRead) / s
			}
			fmt.Fprintf(w, "\r[Extract] %d games, %d written, %d rejected (%.0f games/s)",
				m.GamesRead, m.GamesWritten, m.GamesRejected, rate)
		case PhaseDone:
			fmt.Fprintf(w, "\n[Done] %d records from %d games, %d rejected (%s)\n",
				m.GamesWritten, m.GamesRead, m.GamesRejected, FormatDuration(m.Elapsed()))
		case PhaseError:
			fmt.Fprintf(w, "\n[Error] %v\n", p.Error)
		}
	}
}

// DefaultProgressFunc prints progress to stderr, leaving stdout for records.
func DefaultProgressFunc(p Progress) {
	ProgressPrinter(os.Stderr)(p)
}
