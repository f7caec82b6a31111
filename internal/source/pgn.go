package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"github.com/discochess/gamefeatures/internal/moves"
)

// PGN reads games from a PGN stream. Moves are re-encoded in standard
// algebraic notation from the replayed positions, so the tokens match what
// a board engine accepts.
//
// A game the chess library cannot decode, such as one with an illegal move,
// is still returned with its raw movetext. Replay then rejects that game
// alone instead of the whole stream failing.
type PGN struct {
	scanner *bufio.Scanner
	n       int
}

var _ Source = (*PGN)(nil)

// NewPGN creates a PGN source over r.
func NewPGN(r io.Reader) *PGN {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &PGN{scanner: scanner}
}

// Next implements Source. The game ID is the Site tag when present,
// otherwise the 1-based game number.
func (p *PGN) Next(ctx context.Context) (Game, error) {
	if err := ctx.Err(); err != nil {
		return Game{}, err
	}

	raw, err := p.scan()
	if err != nil {
		return Game{}, fmt.Errorf("reading PGN game %d: %w", p.n+1, err)
	}
	if raw == nil {
		return Game{}, io.EOF
	}
	p.n++
	return decodeGame(raw, p.n), nil
}

// scan collects the lines of the next game: its tag pairs followed by its
// movetext, which ends at the first blank line. It returns nil at the end
// of the stream.
func (p *PGN) scan() ([]string, error) {
	var lines []string
	inMoves := false
	for p.scanner.Scan() {
		line := strings.TrimSpace(p.scanner.Text())
		if line == "" {
			if inMoves {
				return lines, nil
			}
			continue
		}
		if !strings.HasPrefix(line, "[") {
			inMoves = true
		}
		lines = append(lines, line)
	}
	if err := p.scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func decodeGame(raw []string, n int) Game {
	id := strconv.Itoa(n)
	if site := tagValue(raw, "Site"); site != "" && site != "?" {
		id = site
	}

	opt, err := chess.PGN(strings.NewReader(strings.Join(raw, "\n")))
	if err != nil {
		seq, _ := moves.ParseMovetext(movetext(raw))
		return Game{ID: id, Moves: seq}
	}
	return Game{ID: id, Moves: sanMoves(chess.NewGame(opt))}
}

func tagValue(raw []string, key string) string {
	prefix := "[" + key + " "
	for _, line := range raw {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		v := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, prefix), "]"))
		return strings.Trim(v, `"`)
	}
	return ""
}

// movetext returns the game's move tokens with comments, variations and
// annotation glyphs removed.
func movetext(raw []string) string {
	var b strings.Builder
	depth, inComment := 0, false
	for _, line := range raw {
		if strings.HasPrefix(line, "[") && !inComment && depth == 0 {
			continue
		}
	chars:
		for _, c := range line {
			switch {
			case inComment:
				inComment = c != '}'
			case c == '{':
				inComment = true
			case c == '(':
				depth++
			case c == ')':
				if depth > 0 {
					depth--
				}
			case depth > 0:
			case c == ';':
				break chars
			default:
				b.WriteRune(c)
			}
		}
		b.WriteByte(' ')
	}

	var kept []string
	for _, f := range strings.Fields(b.String()) {
		if strings.HasPrefix(f, "$") {
			continue
		}
		if f = strings.TrimRight(f, "!?"); f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

func sanMoves(game *chess.Game) moves.Sequence {
	positions := game.Positions()
	played := game.Moves()
	if len(played) == 0 {
		return nil
	}

	seq := make(moves.Sequence, len(played))
	for i, m := range played {
		seq[i] = chess.AlgebraicNotation{}.Encode(positions[i], m)
	}
	return seq
}

// Open returns a source of the given kind reading r.
func Open(r io.Reader, kind Kind) (Source, error) {
	switch kind {
	case KindCSV:
		return NewCSV(r)
	case KindPGN:
		return NewPGN(r), nil
	case KindLines, "":
		return NewLines(r), nil
	}
	return nil, fmt.Errorf("source: unknown kind %q", kind)
}
