// Package opening classifies a game's opening against a catalogue of known
// move sequences by incremental prefix elimination.
package opening

import (
	"github.com/discochess/gamefeatures/internal/catalogue"
	"github.com/discochess/gamefeatures/internal/moves"
)

// Classifier resolves a move sequence to a catalogue entry.
type Classifier interface {
	Match(seq moves.Sequence) (catalogue.Entry, error)
}

var (
	_ Classifier = (*Matcher)(nil)
	_ Classifier = (*Cached)(nil)
)

// Matcher finds the most specific catalogue entry consistent with a game.
// It never mutates the catalogue and is safe for concurrent use.
type Matcher struct {
	entries []catalogue.Entry
	maxLen  int
}

// NewMatcher creates a matcher over c.
func NewMatcher(c *catalogue.Catalogue) (*Matcher, error) {
	if c == nil || c.Len() == 0 {
		return nil, catalogue.ErrEmpty
	}
	return &Matcher{
		entries: c.Entries(),
		maxLen:  c.MaxLen(),
	}, nil
}

// MaxLen returns the number of leading plies that can influence a match.
func (m *Matcher) MaxLen() int {
	return m.maxLen
}

// Match returns the longest entry still consistent with seq.
//
// Starting from the full catalogue, each ply i keeps the entries that are
// shorter than i+1 moves or whose i-th move equals seq[i]. Filtering stops
// once a ply removes nothing or would remove everything; in the latter case
// the previous candidates stand. Among the survivors the entry with the most
// moves wins, earlier catalogue entries winning ties.
func (m *Matcher) Match(seq moves.Sequence) (catalogue.Entry, error) {
	if len(seq) == 0 {
		return catalogue.Entry{}, moves.ErrEmpty
	}

	keep := make([]bool, len(m.entries))
	for i := range keep {
		keep[i] = true
	}
	kept := len(keep)
	next := make([]bool, len(keep))

	for ply, tok := range seq {
		n := 0
		for i, e := range m.entries {
			next[i] = keep[i] && (len(e.Moves) < ply+1 || e.Moves[ply] == tok)
			if next[i] {
				n++
			}
		}
		if n == 0 || n == kept {
			break
		}
		keep, next = next, keep
		kept = n
	}

	return m.entries[longest(m.entries, keep)], nil
}

func longest(entries []catalogue.Entry, keep []bool) int {
	best := -1
	for i, e := range entries {
		if !keep[i] {
			continue
		}
		if best < 0 || len(e.Moves) > len(entries[best].Moves) {
			best = i
		}
	}
	return best
}
