package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/discochess/gamefeatures"
)

func records() []*gamefeatures.Record {
	return []*gamefeatures.Record{
		{GameID: "1", ECOCode: "C50", OpeningName: "Italian Game", OpeningType: "Open", FirstMove: "e4",
			GameLength: 40, QueenTurnCount: 40, CastleKingsideCount: 1, CastleQueensideCount: 1, BothCastled: true, OppositeCastle: true},
		{GameID: "2", ECOCode: "C50", OpeningName: "Italian Game", OpeningType: "Open", FirstMove: "e4",
			GameLength: 30, QueenTurnCount: 20, CastleKingsideCount: 2, BothCastled: true},
		{GameID: "3", ECOCode: "D00", OpeningName: "Queen's Pawn Game", OpeningType: "Closed", FirstMove: "d4",
			GameLength: 20, QueenTurnCount: 10},
		{GameID: "4", ECOCode: "B20", OpeningName: "Sicilian Defense", OpeningType: "Semi-Open", FirstMove: "e4",
			GameLength: 50, QueenTurnCount: 6, CastleKingsideCount: 1},
	}
}

func TestBuilder_Summary(t *testing.T) {
	b := NewBuilder()
	for _, rec := range records() {
		if err := b.Write(context.Background(), rec); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err := b.Summary()
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if s.Games != 4 {
		t.Errorf("Games = %d, want 4", s.Games)
	}
	if s.BothCastledRate != 0.5 || s.OppositeCastleRate != 0.25 {
		t.Errorf("castling rates = %v, %v; want 0.5, 0.25", s.BothCastledRate, s.OppositeCastleRate)
	}
	if got := s.Columns[ColumnGameLength].Mean; got != 35 {
		t.Errorf("game_length mean = %v, want 35", got)
	}
	if got := s.Columns[ColumnCastleKingside].Max; got != 2 {
		t.Errorf("castle_kingside_count max = %v, want 2", got)
	}

	if len(s.Openings) != 3 {
		t.Fatalf("got %d openings, want 3", len(s.Openings))
	}
	top := s.Openings[0]
	if top.Key != "C50" || top.Label != "Italian Game" || top.Count != 2 || top.Share != 0.5 {
		t.Errorf("top opening = %+v", top)
	}
	// Equal counts are ordered by code.
	if s.Openings[1].Key != "B20" || s.Openings[2].Key != "D00" {
		t.Errorf("opening order = %s, %s; want B20, D00", s.Openings[1].Key, s.Openings[2].Key)
	}
	if s.FirstMoves[0].Key != "e4" || s.FirstMoves[0].Count != 3 {
		t.Errorf("top first move = %+v", s.FirstMoves[0])
	}

	c := s.QueenTurnsByCastling
	if c.Stats1.N != 2 || c.Stats2.N != 2 {
		t.Errorf("comparison groups = %d, %d; want 2, 2", c.Stats1.N, c.Stats2.N)
	}
	if c.Stats1.Mean != 30 || c.Stats2.Mean != 8 {
		t.Errorf("comparison means = %v, %v; want 30, 8", c.Stats1.Mean, c.Stats2.Mean)
	}
}

func TestBuilder_Empty(t *testing.T) {
	if _, err := NewBuilder().Summary(); !errors.Is(err, ErrNoRecords) {
		t.Errorf("Summary() error = %v, want ErrNoRecords", err)
	}
}

func TestFromJSONL(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, rec := range records() {
		if err := enc.Encode(rec); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
	}

	s, err := FromJSONL(&buf)
	if err != nil {
		t.Fatalf("FromJSONL() error = %v", err)
	}
	if s.Games != 4 {
		t.Errorf("Games = %d, want 4", s.Games)
	}

	if _, err := FromJSONL(strings.NewReader("{not json}\n")); err == nil {
		t.Error("FromJSONL(malformed) error = nil, want error")
	}
	if _, err := FromJSONL(strings.NewReader("")); !errors.Is(err, ErrNoRecords) {
		t.Errorf("FromJSONL(empty) error = %v, want ErrNoRecords", err)
	}
}

func TestMarkdownReport(t *testing.T) {
	b := NewBuilder()
	for _, rec := range records() {
		b.Add(rec)
	}
	s, err := b.Summary()
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	var buf bytes.Buffer
	r := NewMarkdownReport(&buf)
	r.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	r.Write("Feature Summary", s, 2)
	out := buf.String()

	for _, want := range []string{
		"# Feature Summary\n",
		"Generated: 2024-05-01T12:00:00Z",
		"- **Games:** 4",
		"| game_length | 35.00 |",
		"- **Both castled:** 50.0%",
		"| C50 | Italian Game | 2 | 50.0% |",
		"| B20 | Sicilian Defense | 1 | 25.0% |",
		"## First moves",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "| D00 |") {
		t.Error("report exceeded the top limit")
	}
}
