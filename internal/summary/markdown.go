package summary

import (
	"fmt"
	"io"
	"time"
)

// MarkdownReport writes summaries in Markdown format.
type MarkdownReport struct {
	w   io.Writer
	now func() time.Time
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w, now: time.Now}
}

// Write renders the whole report. top limits the frequency tables; zero
// means no limit.
func (r *MarkdownReport) Write(title string, s *Summary, top int) {
	r.WriteHeader(title, s.Games)
	r.WriteColumns(s)
	r.WriteCastling(s)
	r.WriteFrequencies("Openings", "ECO", s.Openings, top)
	r.WriteFrequencies("Opening types", "Type", s.OpeningTypes, top)
	r.WriteFrequencies("First moves", "Move", s.FirstMoves, top)
}

// WriteHeader writes the report header.
func (r *MarkdownReport) WriteHeader(title string, games int) {
	fmt.Fprintf(r.w, "# %s\n\n", title)
	fmt.Fprintf(r.w, "Generated: %s\n\n", r.now().Format(time.RFC3339))
	fmt.Fprintf(r.w, "- **Games:** %d\n\n", games)
}

// WriteColumns writes the descriptive statistics table.
func (r *MarkdownReport) WriteColumns(s *Summary) {
	fmt.Fprintln(r.w, "## Descriptive Statistics")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Column | Mean | Median | Std Dev | Min | P25 | P75 | Max |")
	fmt.Fprintln(r.w, "|--------|------|--------|---------|-----|-----|-----|-----|")
	for _, col := range NumericColumns {
		d := s.Columns[col]
		if d == nil {
			continue
		}
		fmt.Fprintf(r.w, "| %s | %.2f | %.0f | %.2f | %.0f | %.0f | %.0f | %.0f |\n",
			col, d.Mean, d.Median, d.StdDev, d.Min, d.P25, d.P75, d.Max)
	}
	fmt.Fprintln(r.w)
}

// WriteCastling writes castling rates and the queen survival comparison.
func (r *MarkdownReport) WriteCastling(s *Summary) {
	c := s.QueenTurnsByCastling

	fmt.Fprintln(r.w, "## Castling")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Both castled:** %.1f%%\n", s.BothCastledRate*100)
	fmt.Fprintf(r.w, "- **Opposite castling:** %.1f%%\n", s.OppositeCastleRate*100)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Queen Survival")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "| Group | Games | Mean queen turns | Median |\n")
	fmt.Fprintln(r.w, "|-------|-------|------------------|--------|")
	fmt.Fprintf(r.w, "| %s | %d | %.2f | %.0f |\n", c.Label1, c.Stats1.N, c.Stats1.Mean, c.Stats1.Median)
	fmt.Fprintf(r.w, "| %s | %d | %.2f | %.0f |\n", c.Label2, c.Stats2.N, c.Stats2.Mean, c.Stats2.Median)
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Mann-Whitney U:** %.2f (z=%.2f, p=%.4f)\n",
		c.MannWhitney.U, c.MannWhitney.Z, c.MannWhitney.PValue)
	fmt.Fprintf(r.w, "- **Effect size (Cohen's d):** %.2f (%s)\n",
		c.EffectSize.CohensD, c.EffectSize.Interpretation)
	fmt.Fprintln(r.w)
}

// WriteFrequencies writes a ranked frequency table.
func (r *MarkdownReport) WriteFrequencies(title, keyHeader string, freqs []Frequency, top int) {
	if top > 0 && len(freqs) > top {
		freqs = freqs[:top]
	}

	fmt.Fprintf(r.w, "## %s\n\n", title)
	fmt.Fprintf(r.w, "| %s | Name | Games | Share |\n", keyHeader)
	fmt.Fprintln(r.w, "|-----|------|-------|-------|")
	for _, f := range freqs {
		fmt.Fprintf(r.w, "| %s | %s | %d | %.1f%% |\n", f.Key, f.Label, f.Count, f.Share*100)
	}
	fmt.Fprintln(r.w)
}
