// Package placement decodes the piece-placement field of a FEN record into
// per-square occupancy grids.
package placement

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPlacement indicates the placement string is malformed.
var ErrInvalidPlacement = errors.New("placement: invalid piece placement")

// Start is the placement of the standard initial position.
const Start = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// Symbols lists the twelve piece symbols, white first.
const Symbols = "PNBRQKpnbrqk"

// Grid holds one presence flag per square. Row 0 is rank 8 and column 0 is
// file a, matching the order squares appear in a placement string.
type Grid [8][8]uint8

// Count returns the number of set cells.
func (g Grid) Count() int {
	n := 0
	for _, row := range g {
		for _, v := range row {
			n += int(v)
		}
	}
	return n
}

// PieceSet selects piece symbols to mark in a Grid.
type PieceSet uint16

// AllPieces selects every piece of both colours.
const AllPieces PieceSet = 1<<len(Symbols) - 1

// NewPieceSet builds a set from symbols such as "Pp" or "Qq".
// Unknown symbols are an error.
func NewPieceSet(symbols string) (PieceSet, error) {
	var s PieceSet
	for i := 0; i < len(symbols); i++ {
		bit := symbolBit(symbols[i])
		if bit == 0 {
			return 0, fmt.Errorf("%w: unknown piece symbol %q", ErrInvalidPlacement, symbols[i])
		}
		s |= bit
	}
	return s, nil
}

// Has reports whether symbol is selected.
func (s PieceSet) Has(symbol byte) bool {
	bit := symbolBit(symbol)
	return bit != 0 && s&bit != 0
}

// String returns the selected symbols in Symbols order.
func (s PieceSet) String() string {
	var b strings.Builder
	for i := 0; i < len(Symbols); i++ {
		if s.Has(Symbols[i]) {
			b.WriteByte(Symbols[i])
		}
	}
	return b.String()
}

func symbolBit(symbol byte) PieceSet {
	i := strings.IndexByte(Symbols, symbol)
	if i < 0 {
		return 0
	}
	return 1 << i
}

// Field returns the placement field of a full FEN record.
func Field(fen string) (string, error) {
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return "", ErrInvalidPlacement
	}
	return parts[0], nil
}

// Parse marks every square holding a selected piece.
//
// Ranks are separated by '/'. Within a rank a digit skips that many files
// and a letter marks the current file when selected; every letter advances
// one file whether selected or not.
func Parse(placement string, set PieceSet) (Grid, error) {
	var g Grid

	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return Grid{}, fmt.Errorf("%w: %d ranks in %q", ErrInvalidPlacement, len(ranks), placement)
	}

	for row, rank := range ranks {
		file := 0
		for i := 0; i < len(rank); i++ {
			ch := rank[i]
			switch {
			case ch >= '1' && ch <= '8':
				file += int(ch - '0')
			case symbolBit(ch) != 0:
				if file >= 8 {
					return Grid{}, fmt.Errorf("%w: rank %d overflows in %q", ErrInvalidPlacement, 8-row, placement)
				}
				if set.Has(ch) {
					g[row][file] = 1
				}
				file++
			default:
				return Grid{}, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidPlacement, ch, placement)
			}
		}
		if file != 8 {
			return Grid{}, fmt.Errorf("%w: rank %d has %d squares in %q", ErrInvalidPlacement, 8-row, file, placement)
		}
	}

	return g, nil
}

// Contains reports whether placement holds any of the given symbols.
func Contains(placement string, symbols ...byte) bool {
	for _, s := range symbols {
		if strings.IndexByte(placement, s) >= 0 {
			return true
		}
	}
	return false
}
