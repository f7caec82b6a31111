// Package catalogue holds the reference list of known openings used for
// classification. A Catalogue is immutable once built and safe to share
// between goroutines.
package catalogue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/discochess/gamefeatures/internal/moves"
)

var (
	// ErrMalformedEntry indicates an entry is missing a field or has no moves.
	ErrMalformedEntry = errors.New("catalogue: malformed entry")

	// ErrEmpty indicates a catalogue with no entries.
	ErrEmpty = errors.New("catalogue: no entries")
)

// Entry is one known opening.
type Entry struct {
	// Code is the ECO classification code, e.g. "C60".
	Code string

	// Name is the human-readable opening name.
	Name string

	// Type is the opening category label.
	Type string

	// Moves is the opening's full SAN move list.
	Moves moves.Sequence
}

// Line returns the entry's moves as a single space-separated string.
func (e Entry) Line() string {
	return e.Moves.String()
}

// Catalogue is an ordered, read-only collection of entries.
type Catalogue struct {
	entries []Entry
	maxLen  int
}

// New validates entries and builds a catalogue preserving their order.
// The slice is copied so callers may reuse it.
func New(entries []Entry) (*Catalogue, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}

	c := &Catalogue{entries: make([]Entry, len(entries))}
	for i, e := range entries {
		if err := validate(e); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		e.Moves = append(moves.Sequence(nil), e.Moves...)
		c.entries[i] = e
		if len(e.Moves) > c.maxLen {
			c.maxLen = len(e.Moves)
		}
	}
	return c, nil
}

// Len returns the number of entries.
func (c *Catalogue) Len() int {
	return len(c.entries)
}

// Entry returns the i-th entry in catalogue order.
func (c *Catalogue) Entry(i int) Entry {
	return c.entries[i]
}

// Entries returns a copy of the entry slice.
func (c *Catalogue) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// MaxLen returns the length of the longest entry's move list.
func (c *Catalogue) MaxLen() int {
	return c.maxLen
}

func validate(e Entry) error {
	switch {
	case strings.TrimSpace(e.Code) == "":
		return fmt.Errorf("%w: missing code", ErrMalformedEntry)
	case strings.TrimSpace(e.Name) == "":
		return fmt.Errorf("%w: missing name for %s", ErrMalformedEntry, e.Code)
	case strings.TrimSpace(e.Type) == "":
		return fmt.Errorf("%w: missing type for %s", ErrMalformedEntry, e.Code)
	case len(e.Moves) == 0:
		return fmt.Errorf("%w: no moves for %s", ErrMalformedEntry, e.Code)
	}
	for _, tok := range e.Moves {
		if strings.TrimSpace(tok) == "" {
			return fmt.Errorf("%w: blank move for %s", ErrMalformedEntry, e.Code)
		}
	}
	return nil
}

// VolumeType returns the category of an ECO code from its volume letter.
func VolumeType(code string) string {
	if code == "" {
		return ""
	}
	switch code[0] {
	case 'A':
		return "Flank"
	case 'B':
		return "Semi-Open"
	case 'C':
		return "Open"
	case 'D':
		return "Closed"
	case 'E':
		return "Indian"
	}
	return "Unclassified"
}
