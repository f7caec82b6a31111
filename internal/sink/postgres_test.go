package sink

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"testing"
)

type execCall struct {
	query string
	args  []driver.Value
}

// recorder is a database/sql connector that records Exec calls.
type recorder struct {
	mu    sync.Mutex
	execs []execCall
}

func (r *recorder) Connect(context.Context) (driver.Conn, error) { return &recorderConn{r}, nil }
func (r *recorder) Open(string) (driver.Conn, error)             { return &recorderConn{r}, nil }
func (r *recorder) Driver() driver.Driver                        { return r }

func (r *recorder) calls() []execCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]execCall(nil), r.execs...)
}

type recorderConn struct{ r *recorder }

func (c *recorderConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (c *recorderConn) Close() error              { return nil }
func (c *recorderConn) Begin() (driver.Tx, error) { return nil, errors.New("tx not supported") }

func (c *recorderConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	vals := make([]driver.Value, len(args))
	for i, a := range args {
		vals[i] = a.Value
	}
	c.r.mu.Lock()
	c.r.execs = append(c.r.execs, execCall{query: query, args: vals})
	c.r.mu.Unlock()
	return driver.RowsAffected(1), nil
}

func TestPostgres(t *testing.T) {
	rec := &recorder{}
	db := sql.OpenDB(rec)
	defer db.Close()
	ctx := context.Background()

	p, err := NewPostgres(ctx, db, "")
	if err != nil {
		t.Fatalf("NewPostgres() error = %v", err)
	}
	if err := p.Write(ctx, testRecords()[0]); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	calls := rec.calls()
	if len(calls) != 2 {
		t.Fatalf("got %d execs, want 2", len(calls))
	}
	if !strings.HasPrefix(calls[0].query, `CREATE TABLE IF NOT EXISTS "game_features"`) {
		t.Errorf("first exec = %q, want CREATE TABLE", calls[0].query)
	}

	args := calls[1].args
	if len(args) != 12 {
		t.Fatalf("insert has %d args, want 12", len(args))
	}
	if args[0] != "g1" || args[1] != "C50" {
		t.Errorf("args[0:2] = %v, want g1 C50", args[0:2])
	}
	if args[6] != int64(14) {
		t.Errorf("game_length arg = %#v, want int64(14)", args[6])
	}
	if args[9] != true || args[10] != true {
		t.Errorf("castle flags = %v %v, want true true", args[9], args[10])
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		t.Errorf("Close() closed a borrowed pool: %v", err)
	}
	if err := p.Write(ctx, testRecords()[0]); !errors.Is(err, ErrClosed) {
		t.Errorf("Write() after Close error = %v, want ErrClosed", err)
	}
}

func TestPostgres_MissingGameID(t *testing.T) {
	rec := &recorder{}
	db := sql.OpenDB(rec)
	defer db.Close()
	ctx := context.Background()

	p, err := NewPostgres(ctx, db, "")
	if err != nil {
		t.Fatalf("NewPostgres() error = %v", err)
	}
	for _, id := range []string{"", "  "} {
		r := *testRecords()[0]
		r.GameID = id
		if err := p.Write(ctx, &r); !errors.Is(err, ErrMissingGameID) {
			t.Errorf("Write(GameID %q) error = %v, want ErrMissingGameID", id, err)
		}
	}
	if got := len(rec.calls()); got != 1 {
		t.Errorf("got %d execs, want only CREATE TABLE", got)
	}
}

func TestUpsertSQL(t *testing.T) {
	q := upsertSQL("features")

	for _, want := range []string{
		`INSERT INTO "features" (game_id, eco_code, opening_name`,
		"$1,$2",
		"$12)",
		"ON CONFLICT (game_id) DO UPDATE SET eco_code=EXCLUDED.eco_code",
		"queen_turn_count=EXCLUDED.queen_turn_count",
	} {
		if !strings.Contains(q, want) {
			t.Errorf("upsertSQL() missing %q in %q", want, q)
		}
	}
	if strings.Contains(q, "game_id=EXCLUDED") {
		t.Errorf("upsertSQL() updates the key column: %q", q)
	}
	if strings.Contains(q, "$13") {
		t.Errorf("upsertSQL() has too many placeholders: %q", q)
	}
}

func TestCreateTableSQL_QuotesName(t *testing.T) {
	q := createTableSQL(`odd"name`)
	if !strings.Contains(q, `"odd""name"`) {
		t.Errorf("createTableSQL() = %q, want quoted identifier", q)
	}
}

func TestOpenPostgres_EmptyURL(t *testing.T) {
	if _, err := OpenPostgres(context.Background(), " ", ""); err == nil {
		t.Error("OpenPostgres() error = nil, want error")
	}
}
