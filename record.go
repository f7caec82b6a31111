package gamefeatures

import (
	"strconv"

	"github.com/discochess/gamefeatures/internal/heatmap"
)

// Record holds every feature extracted from one game.
type Record struct {
	// GameID identifies the game in its source, if known.
	GameID string `json:"game_id,omitempty"`

	// ECOCode, OpeningName and OpeningType describe the matched catalogue entry.
	ECOCode     string `json:"eco_code"`
	OpeningName string `json:"opening_name"`
	OpeningType string `json:"opening_type"`

	// OpeningMoves is the matched entry's full move list, space-separated.
	OpeningMoves string `json:"opening_moves"`

	FirstMove            string `json:"first_move"`
	GameLength           int    `json:"game_length"`
	CastleKingsideCount  int    `json:"castle_kingside_count"`
	CastleQueensideCount int    `json:"castle_queenside_count"`
	BothCastled          bool   `json:"both_castled"`
	OppositeCastle       bool   `json:"opposite_castle"`

	// QueenTurnCount is the number of leading plies after which a queen
	// was still on the board.
	QueenTurnCount int `json:"queen_turn_count"`

	// Grids has one occupancy grid per ply when grids are enabled.
	Grids heatmap.Stack `json:"grids,omitempty"`
}

// Columns names the tabular fields of a Record, in Values order.
var Columns = []string{
	"game_id",
	"eco_code",
	"opening_name",
	"opening_type",
	"opening_moves",
	"first_move",
	"game_length",
	"castle_kingside_count",
	"castle_queenside_count",
	"both_castled",
	"opposite_castle",
	"queen_turn_count",
}

// Values returns the tabular fields formatted as strings. Grids are omitted.
func (r *Record) Values() []string {
	return []string{
		r.GameID,
		r.ECOCode,
		r.OpeningName,
		r.OpeningType,
		r.OpeningMoves,
		r.FirstMove,
		strconv.Itoa(r.GameLength),
		strconv.Itoa(r.CastleKingsideCount),
		strconv.Itoa(r.CastleQueensideCount),
		strconv.FormatBool(r.BothCastled),
		strconv.FormatBool(r.OppositeCastle),
		strconv.Itoa(r.QueenTurnCount),
	}
}

// Heatmap averages the record's grids.
func (r *Record) Heatmap() (heatmap.Map, error) {
	return heatmap.Average(r.Grids)
}
