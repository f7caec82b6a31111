// Package descriptor computes count-based game descriptors that need no board
// simulation, only the tokenized move list.
package descriptor

import (
	"strings"

	"github.com/discochess/gamefeatures/internal/moves"
)

// Set holds the simple descriptors of one game.
type Set struct {
	FirstMove       string
	GameLength      int
	CastleKingside  int
	CastleQueenside int
	BothCastled     bool
	OppositeCastle  bool
}

// Compute derives every descriptor in a single pass over seq.
func Compute(seq moves.Sequence) Set {
	var s Set
	if len(seq) > 0 {
		s.FirstMove = seq[0]
	}
	s.GameLength = len(seq)
	for _, tok := range seq {
		switch castleSide(tok) {
		case kingside:
			s.CastleKingside++
		case queenside:
			s.CastleQueenside++
		}
	}
	s.BothCastled = s.CastleKingside+s.CastleQueenside == 2
	s.OppositeCastle = s.CastleKingside == 1 && s.CastleQueenside == 1
	return s
}

// FirstMove returns the opening ply, or "" for an empty sequence.
func FirstMove(seq moves.Sequence) string {
	return Compute(seq).FirstMove
}

// GameLength returns the number of plies.
func GameLength(seq moves.Sequence) int {
	return len(seq)
}

// CastleKingside counts kingside castling tokens across both sides.
func CastleKingside(seq moves.Sequence) int {
	return Compute(seq).CastleKingside
}

// CastleQueenside counts queenside castling tokens across both sides.
func CastleQueenside(seq moves.Sequence) int {
	return Compute(seq).CastleQueenside
}

// BothCastled reports whether exactly two castling moves were played.
func BothCastled(seq moves.Sequence) bool {
	return Compute(seq).BothCastled
}

// OppositeCastle reports whether one side castled short and the other long.
func OppositeCastle(seq moves.Sequence) bool {
	return Compute(seq).OppositeCastle
}

type side int

const (
	noCastle side = iota
	kingside
	queenside
)

// castleSide classifies a SAN token, ignoring check, mate and annotation suffixes.
// Both letter O and digit zero spellings are accepted.
func castleSide(tok string) side {
	tok = strings.TrimRight(tok, "+#!?")
	switch tok {
	case "O-O", "0-0":
		return kingside
	case "O-O-O", "0-0-0":
		return queenside
	}
	return noCastle
}
