package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/discochess/gamefeatures/internal/moves"
)

// Lines reads one game per line. Blank lines are skipped; a game's ID is
// its 1-based line number.
type Lines struct {
	scanner *bufio.Scanner
	lineNo  int
}

var _ Source = (*Lines)(nil)

// NewLines creates a line source over r.
func NewLines(r io.Reader) *Lines {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for long games.
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &Lines{scanner: scanner}
}

// Next implements Source.
func (l *Lines) Next(ctx context.Context) (Game, error) {
	for l.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return Game{}, err
		}
		l.lineNo++
		seq, err := moves.Parse(l.scanner.Text())
		if errors.Is(err, moves.ErrEmpty) {
			continue
		}
		return Game{ID: strconv.Itoa(l.lineNo), Moves: seq}, nil
	}
	if err := l.scanner.Err(); err != nil {
		return Game{}, fmt.Errorf("reading line %d: %w", l.lineNo+1, err)
	}
	return Game{}, io.EOF
}

// CSV reads games from a CSV file with a header row. The moves column is
// required; an id or game_id column, when present, supplies the game ID.
// Otherwise the ID is the 1-based data row number.
type CSV struct {
	r     *csv.Reader
	moves int
	id    int
	row   int
}

var _ Source = (*CSV)(nil)

// NewCSV reads the header from r and returns a CSV source.
func NewCSV(r io.Reader) (*CSV, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
		}
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	c := &CSV{r: cr, moves: -1, id: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "moves":
			c.moves = i
		case "id", "game_id":
			c.id = i
		}
	}
	if c.moves < 0 {
		return nil, fmt.Errorf("%w: header %v", ErrMissingColumn, header)
	}
	return c, nil
}

// Next implements Source. A row whose moves cell is blank yields a game with
// no moves.
func (c *CSV) Next(ctx context.Context) (Game, error) {
	if err := ctx.Err(); err != nil {
		return Game{}, err
	}
	rec, err := c.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Game{}, io.EOF
		}
		return Game{}, fmt.Errorf("reading CSV row %d: %w", c.row+1, err)
	}
	c.row++

	g := Game{ID: strconv.Itoa(c.row)}
	if c.id >= 0 && c.id < len(rec) && rec[c.id] != "" {
		g.ID = rec[c.id]
	}
	if c.moves < len(rec) {
		g.Moves, _ = moves.Parse(rec[c.moves])
	}
	return g, nil
}
