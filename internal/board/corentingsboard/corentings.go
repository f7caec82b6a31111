// Package corentingsboard implements board.Board on github.com/corentings/chess/v2.
package corentingsboard

import (
	"fmt"

	"github.com/corentings/chess/v2"

	"github.com/discochess/gamefeatures/internal/board"
)

var _ board.Board = (*Board)(nil)

// Board wraps a corentings/chess game.
type Board struct {
	game *chess.Game
}

// New returns a board at the standard starting position.
func New() *Board {
	return &Board{game: chess.NewGame()}
}

// NewFactory returns a board.Factory producing corentings boards.
func NewFactory() board.Factory {
	return func() board.Board { return New() }
}

// FromFEN returns a board at the position described by fen.
func FromFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("corentingsboard: %w", err)
	}
	return &Board{game: chess.NewGame(opt)}, nil
}

// Apply decodes san against the current position and pushes it.
func (b *Board) Apply(san string) error {
	if err := b.game.PushNotationMove(board.NormalizeSAN(san), chess.AlgebraicNotation{}, nil); err != nil {
		return fmt.Errorf("%w: %s: %v", board.ErrIllegalMove, san, err)
	}
	return nil
}

// Placement returns the FEN placement of the current position.
func (b *Board) Placement() string {
	return b.game.Position().Board().String()
}

// HasPieceKind reports whether any piece of kind k remains.
func (b *Board) HasPieceKind(k board.Kind) bool {
	want := pieceType(k)
	for _, p := range b.game.Position().Board().SquareMap() {
		if p.Type() == want {
			return true
		}
	}
	return false
}

func pieceType(k board.Kind) chess.PieceType {
	switch k {
	case board.Pawn:
		return chess.Pawn
	case board.Knight:
		return chess.Knight
	case board.Bishop:
		return chess.Bishop
	case board.Rook:
		return chess.Rook
	case board.Queen:
		return chess.Queen
	case board.King:
		return chess.King
	}
	return chess.NoPieceType
}
