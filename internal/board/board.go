// Package board defines the rules-engine capability that game replay depends
// on: apply a SAN move, read the piece placement, ask whether a piece kind is
// still on the board.
package board

import (
	"errors"
	"strings"
	"unicode"

	"github.com/discochess/gamefeatures/internal/placement"
)

// ErrIllegalMove indicates a move could not be applied in the current position.
var ErrIllegalMove = errors.New("board: illegal move")

// Kind is a colourless piece kind, written as its lower-case FEN symbol.
type Kind byte

// Piece kinds.
const (
	Pawn   Kind = 'p'
	Knight Kind = 'n'
	Bishop Kind = 'b'
	Rook   Kind = 'r'
	Queen  Kind = 'q'
	King   Kind = 'k'
)

// String returns the kind's symbol.
func (k Kind) String() string {
	return string(rune(k))
}

// Board is a chess position that moves can be applied to.
// Implementations are not safe for concurrent use.
type Board interface {
	// Apply plays a SAN move. It returns an error wrapping ErrIllegalMove
	// if the move is not legal in the current position.
	Apply(san string) error

	// Placement returns the FEN piece-placement field of the current position.
	Placement() string

	// HasPieceKind reports whether a piece of kind k of either colour remains.
	HasPieceKind(k Kind) bool
}

// Factory creates a board at the standard starting position.
type Factory func() Board

// PlacementHasKind reports whether a placement string holds a piece of kind k
// of either colour.
func PlacementHasKind(p string, k Kind) bool {
	return placement.Contains(p, byte(unicode.ToUpper(rune(k))), byte(k))
}

// NormalizeSAN rewrites the digit-zero castling spellings "0-0" and "0-0-0"
// to the letter form engines expect, keeping any check suffix.
func NormalizeSAN(san string) string {
	if strings.HasPrefix(san, "0-0") {
		return strings.ReplaceAll(san, "0", "O")
	}
	return san
}
