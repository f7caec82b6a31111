package catalogue

import (
	"fmt"
	"sort"

	"github.com/notnil/chess"
	"github.com/notnil/chess/opening"

	"github.com/discochess/gamefeatures/internal/moves"
)

// Builtin returns the ECO catalogue bundled with the chess library.
//
// The library stores each line in UCI, so lines are replayed and re-encoded
// in standard algebraic notation. It also keeps openings in a tree without a
// stable order, so entries are sorted by code, then name, then move line to
// keep tie-breaking reproducible.
func Builtin() (*Catalogue, error) {
	book := opening.NewBookECO()
	openings := book.Possible(nil)

	entries := make([]Entry, 0, len(openings))
	for _, o := range openings {
		seq, err := sanLine(o.PGN())
		if err != nil {
			return nil, fmt.Errorf("builtin opening %s: %w", o.Code(), err)
		}
		entries = append(entries, Entry{
			Code:  o.Code(),
			Name:  o.Title(),
			Type:  VolumeType(o.Code()),
			Moves: seq,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Line() < b.Line()
	})

	return New(entries)
}

// sanLine replays a UCI movetext line from the standard starting position
// and returns it in standard algebraic notation.
func sanLine(movetext string) (moves.Sequence, error) {
	uci, err := moves.ParseMovetext(movetext)
	if err != nil {
		return nil, err
	}

	game := chess.NewGame()
	seq := make(moves.Sequence, len(uci))
	for i, tok := range uci {
		pos := game.Position()
		m, err := chess.UCINotation{}.Decode(pos, tok)
		if err == nil {
			err = game.Move(m)
		}
		if err != nil {
			return nil, fmt.Errorf("ply %d %q: %w", i+1, tok, err)
		}
		// The decoded move carries no check tag; encode the validated one.
		played := game.Moves()
		seq[i] = chess.AlgebraicNotation{}.Encode(pos, played[len(played)-1])
	}
	return seq, nil
}
