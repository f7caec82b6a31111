package placement

import (
	"errors"
	"testing"
)

func TestParse_StartPawns(t *testing.T) {
	pawns, err := NewPieceSet("Pp")
	if err != nil {
		t.Fatalf("NewPieceSet() error = %v", err)
	}

	g, err := Parse(Start, pawns)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := g.Count(); got != 16 {
		t.Fatalf("Count() = %d, want 16", got)
	}
	for col := 0; col < 8; col++ {
		// Row 1 is rank 7 (black pawns), row 6 is rank 2 (white pawns).
		if g[1][col] != 1 || g[6][col] != 1 {
			t.Errorf("file %d: rank 7 = %d, rank 2 = %d, want both set", col, g[1][col], g[6][col])
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		placement string
		symbols   string
		wantCount int
		wantCells [][2]int
	}{
		{
			name:      "start all pieces",
			placement: Start,
			symbols:   Symbols,
			wantCount: 32,
		},
		{
			name:      "queens after e4",
			placement: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR",
			symbols:   "Qq",
			wantCount: 2,
			wantCells: [][2]int{{0, 3}, {7, 3}},
		},
		{
			name:      "white pawn on e4",
			placement: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR",
			symbols:   "P",
			wantCount: 8,
			wantCells: [][2]int{{4, 4}},
		},
		{
			name:      "unselected letters still advance",
			placement: "8/8/8/8/8/8/8/RNBQKBNR",
			symbols:   "K",
			wantCount: 1,
			wantCells: [][2]int{{7, 4}},
		},
		{
			name:      "empty board",
			placement: "8/8/8/8/8/8/8/8",
			symbols:   Symbols,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewPieceSet(tt.symbols)
			if err != nil {
				t.Fatalf("NewPieceSet() error = %v", err)
			}
			g, err := Parse(tt.placement, set)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := g.Count(); got != tt.wantCount {
				t.Errorf("Count() = %d, want %d", got, tt.wantCount)
			}
			for _, c := range tt.wantCells {
				if g[c[0]][c[1]] != 1 {
					t.Errorf("cell %v not set", c)
				}
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		placement string
	}{
		{"empty", ""},
		{"seven ranks", "rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR"},
		{"short rank", "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"},
		{"long rank", "rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR"},
		{"overflowing letters", "rnbqkbnrr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"},
		{"bad symbol", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKXNR"},
		{"full fen", Start + " w KQkq - 0 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.placement, AllPieces)
			if !errors.Is(err, ErrInvalidPlacement) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidPlacement", tt.placement, err)
			}
		})
	}
}

func TestPieceSet(t *testing.T) {
	set, err := NewPieceSet("qQ")
	if err != nil {
		t.Fatalf("NewPieceSet() error = %v", err)
	}
	if !set.Has('Q') || !set.Has('q') || set.Has('K') {
		t.Errorf("Has() mismatch for %s", set)
	}
	if got := set.String(); got != "Qq" {
		t.Errorf("String() = %q, want Qq", got)
	}
	if got := AllPieces.String(); got != Symbols {
		t.Errorf("AllPieces.String() = %q", got)
	}

	if _, err := NewPieceSet("Px"); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("NewPieceSet(Px) error = %v", err)
	}
}

func TestField(t *testing.T) {
	got, err := Field(Start + " w KQkq - 0 1")
	if err != nil {
		t.Fatalf("Field() error = %v", err)
	}
	if got != Start {
		t.Errorf("Field() = %q", got)
	}
	if _, err := Field("  "); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("Field(blank) error = %v", err)
	}
}

func TestContains(t *testing.T) {
	if !Contains(Start, 'Q', 'q') {
		t.Error("start position should contain queens")
	}
	if Contains("4k3/8/8/8/8/8/8/4K3", 'Q', 'q') {
		t.Error("bare kings should not contain queens")
	}
}
