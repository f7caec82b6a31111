// Package moves tokenizes move-list records written in standard algebraic notation.
package moves

import (
	"errors"
	"strings"
)

// ErrEmpty indicates a record contained no move tokens.
var ErrEmpty = errors.New("moves: empty move sequence")

// Sequence is an ordered list of SAN tokens. Index 0 is White's first move.
type Sequence []string

// Parse splits a raw record on whitespace.
// Returns ErrEmpty if the record contains no tokens.
func Parse(raw string) (Sequence, error) {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return nil, ErrEmpty
	}
	return Sequence(tokens), nil
}

// ParseMovetext parses PGN movetext such as "1. e4 e5 2.Nf3 Nc6 *".
// Move numbers, black continuation markers and game results are dropped.
func ParseMovetext(text string) (Sequence, error) {
	var seq Sequence
	for _, tok := range strings.Fields(text) {
		tok = stripMoveNumber(tok)
		if tok == "" || isResult(tok) {
			continue
		}
		seq = append(seq, tok)
	}
	if len(seq) == 0 {
		return nil, ErrEmpty
	}
	return seq, nil
}

// String joins the sequence with single spaces.
func (s Sequence) String() string {
	return strings.Join(s, " ")
}

// Prefix returns at most the first n plies.
func (s Sequence) Prefix(n int) Sequence {
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// stripMoveNumber removes a leading "12." or "12..." marker.
func stripMoveNumber(tok string) string {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == 0 || i == len(tok) || tok[i] != '.' {
		return tok
	}
	return strings.TrimLeft(tok[i:], ".")
}

func isResult(tok string) bool {
	switch tok {
	case "1-0", "0-1", "1/2-1/2", "*":
		return true
	}
	return false
}
