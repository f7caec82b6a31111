package sink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/discochess/gamefeatures"
)

// DefaultTable is the table written by the Postgres sink.
const DefaultTable = "game_features"

// ErrMissingGameID is returned when a record without a game ID is written to
// a sink keyed by game ID.
var ErrMissingGameID = errors.New("sink: record has no game ID")

// Postgres upserts records into a table keyed by game_id. Rewriting a game
// replaces its row, so IDs must be unique across everything written to the
// table.
type Postgres struct {
	db     *sql.DB
	insert string
	owned  bool
}

var _ Sink = (*Postgres)(nil)

// OpenPostgres connects to databaseURL, creates the table if needed and
// returns a sink owning the connection pool.
func OpenPostgres(ctx context.Context, databaseURL, table string) (*Postgres, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("sink: database URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	p, err := NewPostgres(ctx, db, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	p.owned = true
	return p, nil
}

// NewPostgres creates the table if needed and returns a sink over db.
// Close does not close db.
func NewPostgres(ctx context.Context, db *sql.DB, table string) (*Postgres, error) {
	if table == "" {
		table = DefaultTable
	}
	if _, err := db.ExecContext(ctx, createTableSQL(table)); err != nil {
		return nil, fmt.Errorf("creating table %s: %w", table, err)
	}
	return &Postgres{db: db, insert: upsertSQL(table)}, nil
}

// Write implements Sink.
func (p *Postgres) Write(ctx context.Context, rec *gamefeatures.Record) error {
	if p.db == nil {
		return ErrClosed
	}
	if strings.TrimSpace(rec.GameID) == "" {
		return ErrMissingGameID
	}
	_, err := p.db.ExecContext(ctx, p.insert,
		rec.GameID,
		rec.ECOCode, rec.OpeningName, rec.OpeningType, rec.OpeningMoves,
		rec.FirstMove, rec.GameLength,
		rec.CastleKingsideCount, rec.CastleQueensideCount,
		rec.BothCastled, rec.OppositeCastle,
		rec.QueenTurnCount,
	)
	if err != nil {
		return fmt.Errorf("inserting record %s: %w", rec.GameID, err)
	}
	return nil
}

// Close implements Sink.
func (p *Postgres) Close() error {
	if p.db == nil {
		return ErrClosed
	}
	db := p.db
	p.db = nil
	if p.owned {
		return db.Close()
	}
	return nil
}

func createTableSQL(table string) string {
	return `CREATE TABLE IF NOT EXISTS ` + pq.QuoteIdentifier(table) + ` (
        game_id TEXT PRIMARY KEY,
        eco_code TEXT NOT NULL,
        opening_name TEXT NOT NULL,
        opening_type TEXT NOT NULL,
        opening_moves TEXT NOT NULL,
        first_move TEXT NOT NULL,
        game_length INTEGER NOT NULL,
        castle_kingside_count INTEGER NOT NULL,
        castle_queenside_count INTEGER NOT NULL,
        both_castled BOOLEAN NOT NULL,
        opposite_castle BOOLEAN NOT NULL,
        queen_turn_count INTEGER NOT NULL
      )`
}

func upsertSQL(table string) string {
	placeholders := make([]string, len(gamefeatures.Columns))
	updates := make([]string, 0, len(gamefeatures.Columns)-1)
	for i, col := range gamefeatures.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if col != "game_id" {
			updates = append(updates, col+"=EXCLUDED."+col)
		}
	}
	return `INSERT INTO ` + pq.QuoteIdentifier(table) + ` (` +
		strings.Join(gamefeatures.Columns, ", ") +
		`) VALUES (` + strings.Join(placeholders, ",") +
		`) ON CONFLICT (game_id) DO UPDATE SET ` + strings.Join(updates, ", ")
}
