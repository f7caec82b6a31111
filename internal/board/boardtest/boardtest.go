// Package boardtest provides a scripted board.Board for tests that should not
// depend on a rules engine.
package boardtest

import (
	"fmt"

	"github.com/discochess/gamefeatures/internal/board"
	"github.com/discochess/gamefeatures/internal/placement"
)

// Step is one expected move and the placement it leads to.
type Step struct {
	Move      string
	Placement string
}

// Board replays a fixed script. Apply accepts only the next scripted move.
type Board struct {
	Start string
	Steps []Step

	// Applied records every move accepted so far.
	Applied []string
}

var _ board.Board = (*Board)(nil)

// New returns a scripted board starting from the standard position.
func New(steps ...Step) *Board {
	return &Board{Start: placement.Start, Steps: steps}
}

// Factory returns a factory producing fresh copies of the script.
func Factory(steps ...Step) board.Factory {
	return func() board.Board {
		return New(steps...)
	}
}

// Apply accepts san if it is the next scripted move.
func (b *Board) Apply(san string) error {
	i := len(b.Applied)
	if i >= len(b.Steps) || b.Steps[i].Move != san {
		return fmt.Errorf("%w: %s at ply %d", board.ErrIllegalMove, san, i)
	}
	b.Applied = append(b.Applied, san)
	return nil
}

// Placement returns the placement after the last accepted move.
func (b *Board) Placement() string {
	if len(b.Applied) == 0 {
		return b.Start
	}
	return b.Steps[len(b.Applied)-1].Placement
}

// HasPieceKind scans the current placement.
func (b *Board) HasPieceKind(k board.Kind) bool {
	return board.PlacementHasKind(b.Placement(), k)
}
