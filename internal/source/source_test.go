package source

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// drain reads every game from s.
func drain(t *testing.T, s Source) []Game {
	t.Helper()
	var games []Game
	for {
		g, err := s.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return games
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		games = append(games, g)
	}
}

func TestKindFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"games.txt", KindLines},
		{"games", KindLines},
		{"games.csv", KindCSV},
		{"games.csv.gz", KindCSV},
		{"lichess_2024.pgn.zst", KindPGN},
		{"Games.PGN", KindPGN},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := KindFromPath(tt.path); got != tt.want {
				t.Errorf("KindFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestLines(t *testing.T) {
	input := "e4 e5 Nf3\n\n   \nd4 d5\r\nc4\n"

	games := drain(t, NewLines(strings.NewReader(input)))
	if len(games) != 3 {
		t.Fatalf("got %d games, want 3", len(games))
	}

	tests := []struct {
		id    string
		moves string
	}{
		{"1", "e4 e5 Nf3"},
		{"4", "d4 d5"},
		{"5", "c4"},
	}
	for i, tt := range tests {
		if games[i].ID != tt.id {
			t.Errorf("games[%d].ID = %q, want %q", i, games[i].ID, tt.id)
		}
		if got := games[i].Moves.String(); got != tt.moves {
			t.Errorf("games[%d].Moves = %q, want %q", i, got, tt.moves)
		}
	}
}

func TestLines_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLines(strings.NewReader("e4\n")).Next(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}

func TestCSV(t *testing.T) {
	input := "game_id,white,moves\n" +
		"g1,alice,e4 e5 Nf3\n" +
		",bob,d4 d5\n" +
		"g3,carol,\n"

	src, err := NewCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewCSV() error = %v", err)
	}
	games := drain(t, src)
	if len(games) != 3 {
		t.Fatalf("got %d games, want 3", len(games))
	}

	if games[0].ID != "g1" || games[0].Moves.String() != "e4 e5 Nf3" {
		t.Errorf("games[0] = %+v", games[0])
	}
	if games[1].ID != "2" {
		t.Errorf("games[1].ID = %q, want row number 2", games[1].ID)
	}
	if games[2].ID != "g3" || len(games[2].Moves) != 0 {
		t.Errorf("games[2] = %+v, want no moves", games[2])
	}
}

func TestCSV_MissingColumn(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no moves column", "id,pgn\n1,e4\n"},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCSV(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMissingColumn) {
				t.Errorf("NewCSV() error = %v, want ErrMissingColumn", err)
			}
		})
	}
}

const twoGames = `[Event "Casual"]
[Site "game-a"]
[Result "*"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 *

[Event "Casual"]
[Site "?"]
[Result "1-0"]

1. e4 f6 2. d4 g5 3. Qh5# 1-0
`

func TestPGN(t *testing.T) {
	games := drain(t, NewPGN(strings.NewReader(twoGames)))
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}

	tests := []struct {
		id    string
		moves string
	}{
		{"game-a", "e4 e5 Nf3 Nc6 Bb5 a6"},
		{"2", "e4 f6 d4 g5 Qh5#"},
	}
	for i, tt := range tests {
		if games[i].ID != tt.id {
			t.Errorf("games[%d].ID = %q, want %q", i, games[i].ID, tt.id)
		}
		if got := games[i].Moves.String(); got != tt.moves {
			t.Errorf("games[%d].Moves = %q, want %q", i, got, tt.moves)
		}
	}
}

func TestPGN_UndecodableGame(t *testing.T) {
	input := `[Event "Casual"]
[Site "bad"]

1. e4 e5 2. Ke3 {blunder} Nc6 (2... Nf6) *

[Event "Casual"]

1. d4 d5 *


`
	games := drain(t, NewPGN(strings.NewReader(input)))
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
	if games[0].ID != "bad" || games[0].Moves.String() != "e4 e5 Ke3 Nc6" {
		t.Errorf("games[0] = %s %q, want bad \"e4 e5 Ke3 Nc6\"", games[0].ID, games[0].Moves.String())
	}
	if games[1].ID != "2" || games[1].Moves.String() != "d4 d5" {
		t.Errorf("games[1] = %s %q, want 2 \"d4 d5\"", games[1].ID, games[1].Moves.String())
	}
}

func TestMovetext(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want string
	}{
		{
			name: "tags skipped",
			raw:  []string{`[Site "x"]`, "1. e4 e5 *"},
			want: "1. e4 e5 *",
		},
		{
			name: "comments and variations",
			raw:  []string{"1. e4 {best by test} e5 (1... c5 2. Nf3 (2. c3)) 2. Nf3 *"},
			want: "1. e4 e5 2. Nf3 *",
		},
		{
			name: "comment across lines",
			raw:  []string{"1. e4 { a long", "note } e5"},
			want: "1. e4 e5",
		},
		{
			name: "glyphs and line comment",
			raw:  []string{"1. e4! $1 e5?! ; rest of line", "2. Nf3"},
			want: "1. e4 e5 2. Nf3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := movetext(tt.raw); got != tt.want {
				t.Errorf("movetext() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		kind    Kind
		input   string
		wantErr bool
	}{
		{KindLines, "e4\n", false},
		{"", "e4\n", false},
		{KindCSV, "moves\ne4\n", false},
		{KindPGN, twoGames, false},
		{Kind("xml"), "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			src, err := Open(strings.NewReader(tt.input), tt.kind)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if games := drain(t, src); len(games) == 0 {
				t.Error("Open() source yielded no games")
			}
		})
	}
}
