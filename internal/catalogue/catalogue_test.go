package catalogue

import (
	"errors"
	"strings"
	"testing"

	"github.com/discochess/gamefeatures/internal/board/notnilboard"
	"github.com/discochess/gamefeatures/internal/moves"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr error
	}{
		{
			name:    "empty",
			entries: nil,
			wantErr: ErrEmpty,
		},
		{
			name: "missing code",
			entries: []Entry{
				{Name: "Ruy Lopez", Type: "Open", Moves: moves.Sequence{"e4"}},
			},
			wantErr: ErrMalformedEntry,
		},
		{
			name: "missing type",
			entries: []Entry{
				{Code: "C60", Name: "Ruy Lopez", Moves: moves.Sequence{"e4"}},
			},
			wantErr: ErrMalformedEntry,
		},
		{
			name: "no moves",
			entries: []Entry{
				{Code: "C60", Name: "Ruy Lopez", Type: "Open"},
			},
			wantErr: ErrMalformedEntry,
		},
		{
			name: "valid",
			entries: []Entry{
				{Code: "C60", Name: "Ruy Lopez", Type: "Open", Moves: moves.Sequence{"e4", "e5", "Nf3", "Nc6", "Bb5"}},
				{Code: "A00", Name: "Amar Opening", Type: "Flank", Moves: moves.Sequence{"Nh3"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.entries)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if c.Len() != len(tt.entries) {
				t.Errorf("Len() = %d, want %d", c.Len(), len(tt.entries))
			}
		})
	}
}

func TestCatalogue_MaxLenAndOrder(t *testing.T) {
	c, err := New([]Entry{
		{Code: "C60", Name: "Ruy Lopez", Type: "Open", Moves: moves.Sequence{"e4", "e5", "Nf3", "Nc6", "Bb5"}},
		{Code: "A00", Name: "Amar Opening", Type: "Flank", Moves: moves.Sequence{"Nh3"}},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := c.MaxLen(); got != 5 {
		t.Errorf("MaxLen() = %d, want 5", got)
	}
	if got := c.Entry(1).Code; got != "A00" {
		t.Errorf("Entry(1).Code = %q, want A00", got)
	}
	if got := c.Entry(0).Line(); got != "e4 e5 Nf3 Nc6 Bb5" {
		t.Errorf("Entry(0).Line() = %q", got)
	}
}

func TestCatalogue_CopiesInput(t *testing.T) {
	seq := moves.Sequence{"e4", "e5"}
	c, err := New([]Entry{{Code: "C20", Name: "King's Pawn Game", Type: "Open", Moves: seq}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	seq[0] = "d4"
	if got := c.Entry(0).Moves[0]; got != "e4" {
		t.Errorf("catalogue mutated through caller slice: first move = %q", got)
	}
}

func TestVolumeType(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"A00", "Flank"},
		{"B20", "Semi-Open"},
		{"C60", "Open"},
		{"D02", "Closed"},
		{"E60", "Indian"},
		{"Z99", "Unclassified"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := VolumeType(tt.code); got != tt.want {
				t.Errorf("VolumeType(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestBuiltin(t *testing.T) {
	c, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("Builtin() returned no entries")
	}

	for i := 1; i < c.Len(); i++ {
		if c.Entry(i-1).Code > c.Entry(i).Code {
			t.Fatalf("entries not sorted by code at %d: %s > %s", i, c.Entry(i-1).Code, c.Entry(i).Code)
		}
	}
	for i := 0; i < c.Len(); i++ {
		if strings.ContainsAny(c.Entry(i).Line(), ".") {
			t.Fatalf("entry %d still contains move numbers: %q", i, c.Entry(i).Line())
		}
	}
}

func TestBuiltin_SAN(t *testing.T) {
	c, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}

	ruy := false
	for _, e := range c.Entries() {
		if e.Code == "C60" && e.Line() == "e4 e5 Nf3 Nc6 Bb5" {
			ruy = true
		}
	}
	if !ruy {
		t.Error("Builtin() has no C60 entry with line \"e4 e5 Nf3 Nc6 Bb5\"")
	}

	for i, e := range c.Entries() {
		b := notnilboard.New()
		for ply, san := range e.Moves {
			if err := b.Apply(san); err != nil {
				t.Fatalf("entry %d %s %q: ply %d: %v", i, e.Code, e.Name, ply+1, err)
			}
		}
	}
}

func TestSanLine(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "opening", in: "e2e4 e7e5 g1f3 b8c6 f1b5", want: "e4 e5 Nf3 Nc6 Bb5"},
		{name: "move numbers", in: "1.d2d4 d7d5 2.c2c4", want: "d4 d5 c4"},
		{name: "castling and capture", in: "e2e4 e7e5 g1f3 b8c6 f1c4 g8f6 e1g1 f6e4", want: "e4 e5 Nf3 Nc6 Bc4 Nf6 O-O Nxe4"},
		{name: "check", in: "f2f3 e7e5 g2g4 d8h4", want: "f3 e5 g4 Qh4#"},
		{name: "illegal", in: "e2e4 e2e4", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanLine(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("sanLine(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got.String() != tt.want {
				t.Errorf("sanLine(%q) = %q, want %q", tt.in, got.String(), tt.want)
			}
		})
	}
}
