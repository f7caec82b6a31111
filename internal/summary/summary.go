package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/discochess/gamefeatures"
	"github.com/discochess/gamefeatures/internal/sink"
)

// ErrNoRecords indicates a summary over zero records.
var ErrNoRecords = errors.New("summary: no records")

// Numeric columns described by a summary.
const (
	ColumnGameLength      = "game_length"
	ColumnQueenTurnCount  = "queen_turn_count"
	ColumnCastleKingside  = "castle_kingside_count"
	ColumnCastleQueenside = "castle_queenside_count"
)

// NumericColumns lists the described columns in report order.
var NumericColumns = []string{
	ColumnGameLength,
	ColumnQueenTurnCount,
	ColumnCastleKingside,
	ColumnCastleQueenside,
}

// Frequency counts records sharing a key.
type Frequency struct {
	Key   string
	Label string
	Count int
	Share float64
}

// Summary describes a set of records.
type Summary struct {
	Games              int
	Columns            map[string]*DescriptiveStats
	BothCastledRate    float64
	OppositeCastleRate float64
	Openings           []Frequency
	OpeningTypes       []Frequency
	FirstMoves         []Frequency

	// QueenTurnsByCastling compares queen survival in games where both
	// sides castled against the rest.
	QueenTurnsByCastling Comparison
}

// Comparison holds a two-sample test between groups of records.
type Comparison struct {
	Label1, Label2 string
	Stats1, Stats2 *DescriptiveStats
	MannWhitney    *MannWhitneyResult
	EffectSize     *EffectSize
}

// Builder accumulates records. It implements sink.Sink so a batch run can
// feed it directly.
type Builder struct {
	mu sync.Mutex

	samples      map[string][]float64
	openings     map[string]*Frequency
	types        map[string]*Frequency
	firstMoves   map[string]*Frequency
	both         int
	opposite     int
	queenCastled []float64
	queenOther   []float64
	games        int
}

var _ sink.Sink = (*Builder)(nil)

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		samples:    make(map[string][]float64),
		openings:   make(map[string]*Frequency),
		types:      make(map[string]*Frequency),
		firstMoves: make(map[string]*Frequency),
	}
}

// Add folds one record into the summary.
func (b *Builder) Add(rec *gamefeatures.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.games++
	b.samples[ColumnGameLength] = append(b.samples[ColumnGameLength], float64(rec.GameLength))
	b.samples[ColumnQueenTurnCount] = append(b.samples[ColumnQueenTurnCount], float64(rec.QueenTurnCount))
	b.samples[ColumnCastleKingside] = append(b.samples[ColumnCastleKingside], float64(rec.CastleKingsideCount))
	b.samples[ColumnCastleQueenside] = append(b.samples[ColumnCastleQueenside], float64(rec.CastleQueensideCount))

	count(b.openings, rec.ECOCode+" "+rec.OpeningName, rec.ECOCode, rec.OpeningName)
	count(b.types, rec.OpeningType, rec.OpeningType, rec.OpeningType)
	count(b.firstMoves, rec.FirstMove, rec.FirstMove, rec.FirstMove)

	if rec.BothCastled {
		b.both++
		b.queenCastled = append(b.queenCastled, float64(rec.QueenTurnCount))
	} else {
		b.queenOther = append(b.queenOther, float64(rec.QueenTurnCount))
	}
	if rec.OppositeCastle {
		b.opposite++
	}
}

func count(m map[string]*Frequency, id, key, label string) {
	f, ok := m[id]
	if !ok {
		f = &Frequency{Key: key, Label: label}
		m[id] = f
	}
	f.Count++
}

// Write implements sink.Sink.
func (b *Builder) Write(_ context.Context, rec *gamefeatures.Record) error {
	b.Add(rec)
	return nil
}

// Close implements sink.Sink.
func (b *Builder) Close() error { return nil }

// Summary computes the statistics over every record added so far.
func (b *Builder) Summary() (*Summary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.games == 0 {
		return nil, ErrNoRecords
	}

	s := &Summary{
		Games:              b.games,
		Columns:            make(map[string]*DescriptiveStats, len(NumericColumns)),
		BothCastledRate:    float64(b.both) / float64(b.games),
		OppositeCastleRate: float64(b.opposite) / float64(b.games),
		Openings:           ranked(b.openings, b.games),
		OpeningTypes:       ranked(b.types, b.games),
		FirstMoves:         ranked(b.firstMoves, b.games),
		QueenTurnsByCastling: Comparison{
			Label1:      "both castled",
			Label2:      "other",
			Stats1:      Describe(b.queenCastled),
			Stats2:      Describe(b.queenOther),
			MannWhitney: MannWhitneyU(b.queenCastled, b.queenOther),
			EffectSize:  ComputeEffectSize(b.queenCastled, b.queenOther),
		},
	}
	for _, col := range NumericColumns {
		s.Columns[col] = Describe(b.samples[col])
	}
	return s, nil
}

// ranked orders frequencies by count, then key.
func ranked(m map[string]*Frequency, total int) []Frequency {
	out := make([]Frequency, 0, len(m))
	for _, f := range m {
		fr := *f
		fr.Share = float64(fr.Count) / float64(total)
		out = append(out, fr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// FromJSONL summarizes records written one JSON object per line.
func FromJSONL(r io.Reader) (*Summary, error) {
	b := NewBuilder()
	dec := json.NewDecoder(r)
	for n := 1; ; n++ {
		var rec gamefeatures.Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decoding record %d: %w", n, err)
		}
		b.Add(&rec)
	}
	return b.Summary()
}
