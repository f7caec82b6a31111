// Package replay plays a game's moves on a board and derives ply-by-ply
// features: how long the queens survive and which squares were occupied.
package replay

import (
	"fmt"

	"github.com/discochess/gamefeatures/internal/board"
	"github.com/discochess/gamefeatures/internal/heatmap"
	"github.com/discochess/gamefeatures/internal/moves"
	"github.com/discochess/gamefeatures/internal/placement"
)

// Result holds the features of a full replay.
type Result struct {
	// QueenTurns is the number of leading plies after which a queen of
	// either colour was still on the board.
	QueenTurns int

	// Grids has one occupancy grid per ply. Nil unless requested.
	Grids heatmap.Stack

	// Plies is the number of moves applied to the board.
	Plies int
}

// QueenTurns applies moves until a position without queens is reached and
// returns the number of plies that still had one. Moves after that ply are
// never applied.
func QueenTurns(b board.Board, seq moves.Sequence) (int, error) {
	if len(seq) == 0 {
		return 0, moves.ErrEmpty
	}
	n := 0
	for ply, san := range seq {
		if err := apply(b, ply, san); err != nil {
			return 0, err
		}
		if !b.HasPieceKind(board.Queen) {
			break
		}
		n++
	}
	return n, nil
}

// Grids applies every move and returns the occupancy grid after each one,
// marking only pieces in set.
func Grids(b board.Board, seq moves.Sequence, set placement.PieceSet) (heatmap.Stack, error) {
	r, err := Replay(b, seq, set, true)
	if err != nil {
		return nil, err
	}
	return r.Grids, nil
}

// Replay applies every move once, counting queen turns and, if withGrids is
// set, collecting a grid per ply.
func Replay(b board.Board, seq moves.Sequence, set placement.PieceSet, withGrids bool) (Result, error) {
	if len(seq) == 0 {
		return Result{}, moves.ErrEmpty
	}

	var r Result
	if withGrids {
		r.Grids = make(heatmap.Stack, 0, len(seq))
	}
	queens := true
	for ply, san := range seq {
		if err := apply(b, ply, san); err != nil {
			return Result{}, err
		}
		r.Plies++
		if queens {
			if queens = b.HasPieceKind(board.Queen); queens {
				r.QueenTurns++
			}
		}
		if !withGrids {
			if !queens {
				break
			}
			continue
		}
		g, err := placement.Parse(b.Placement(), set)
		if err != nil {
			return Result{}, fmt.Errorf("ply %d (%s): %w", ply, san, err)
		}
		r.Grids = append(r.Grids, g)
	}
	return r, nil
}

func apply(b board.Board, ply int, san string) error {
	if err := b.Apply(san); err != nil {
		return fmt.Errorf("ply %d (%s): %w", ply, san, err)
	}
	return nil
}
