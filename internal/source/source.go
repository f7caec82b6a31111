// Package source reads games for batch extraction.
package source

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/discochess/gamefeatures/internal/codec"
	"github.com/discochess/gamefeatures/internal/moves"
)

// ErrMissingColumn indicates a CSV header without a moves column.
var ErrMissingColumn = errors.New("source: missing moves column")

// Game is one input game.
type Game struct {
	// ID identifies the game within its source.
	ID string

	// Moves holds the game's SAN tokens. It is empty for a record that
	// carried no moves, which extraction rejects.
	Moves moves.Sequence
}

// Source yields games in input order.
type Source interface {
	// Next returns the next game, or io.EOF when the input is exhausted.
	Next(ctx context.Context) (Game, error)
}

// Kind names an input layout.
type Kind string

const (
	KindLines Kind = "lines"
	KindCSV   Kind = "csv"
	KindPGN   Kind = "pgn"
)

// KindFromPath infers the input layout from a file name, ignoring any
// compression extension. Unrecognized names are read as lines.
func KindFromPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(codec.Strip(path))) {
	case ".csv":
		return KindCSV
	case ".pgn":
		return KindPGN
	}
	return KindLines
}
