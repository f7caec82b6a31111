package location

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/discochess/gamefeatures/internal/store"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw     string
		want    Location
		wantErr bool
	}{
		{raw: "games.txt", want: Location{Scheme: SchemeFile, Bucket: ".", Key: "games.txt"}},
		{raw: "/data/games.pgn.zst", want: Location{Scheme: SchemeFile, Bucket: "/data", Key: "games.pgn.zst"}},
		{raw: "file:///data/out.jsonl", want: Location{Scheme: SchemeFile, Bucket: "/data", Key: "out.jsonl"}},
		{raw: "gs://lichess-dumps/2024/01/games.pgn.zst", want: Location{Scheme: SchemeGCS, Bucket: "lichess-dumps", Key: "2024/01/games.pgn.zst"}},
		{raw: "s3://features/run.csv", want: Location{Scheme: SchemeS3, Bucket: "features", Key: "run.csv"}},
		{raw: "s3://features", wantErr: true},
		{raw: "ftp://host/file", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParse_UnsupportedScheme(t *testing.T) {
	if _, err := Parse("ftp://host/file"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("Parse() error = %v, want ErrUnsupportedScheme", err)
	}
}

func TestLocation_String(t *testing.T) {
	l := Location{Scheme: SchemeGCS, Bucket: "b", Key: "k/x.txt"}
	if got := l.String(); got != "gs://b/k/x.txt" {
		t.Errorf("String() = %q", got)
	}
}

func TestCreateOpen_LocalCompressed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "games.txt.gz")

	w, err := Create(ctx, path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := io.WriteString(w, "e4 c5\nd4 Nf6\n"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(raw) < 2 || raw[0] != 0x1f || raw[1] != 0x8b {
		t.Error("file is not gzip encoded")
	}

	r, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if string(got) != "e4 c5\nd4 Nf6\n" {
		t.Errorf("Open() = %q", got)
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Open() error = %v, want ErrNotFound", err)
	}
}
