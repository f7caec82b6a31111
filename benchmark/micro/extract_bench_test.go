// Package micro holds micro-benchmarks for feature extraction.
package micro

import (
	"context"
	"fmt"
	"testing"

	"github.com/discochess/gamefeatures"
	"github.com/discochess/gamefeatures/internal/catalogue"
	"github.com/discochess/gamefeatures/internal/moves"
	"github.com/discochess/gamefeatures/internal/opening"
)

// Common games, 20 plies each.
var games = []string{
	"e4 c5 Nf3 d6 d4 cxd4 Nxd4 Nf6 Nc3 a6 Be2 e5 Nb3 Be7 O-O O-O Be3 Be6 Qd2 Nbd7",
	"d4 d5 c4 e6 Nc3 Nf6 Bg5 Be7 e3 O-O Nf3 Nbd7 Rc1 c6 Bd3 dxc4 Bxc4 Nd5 Bxe7 Qxe7",
	"e4 e5 Nf3 Nc6 Bc4 Bc5 c3 Nf6 d4 exd4 cxd4 Bb4+ Bd2 Bxd2+ Nbxd2 d5 exd5 Nxd5 O-O O-O",
	"e4 c6 d4 d5 Nc3 dxe4 Nxe4 Bf5 Ng3 Bg6 h4 h6 Nf3 Nd7 h5 Bh7 Bd3 Bxd3 Qxd3 e6",
	"e4 e6 d4 d5 Nc3 Nf6 Bg5 Be7 e5 Nfd7 Bxe7 Qxe7 f4 O-O Nf3 c5 Qd2 Nc6 O-O-O cxd4",
}

func newExtractor(b *testing.B, opts ...gamefeatures.Option) *gamefeatures.Extractor {
	b.Helper()
	cat, err := catalogue.Builtin()
	if err != nil {
		b.Fatalf("loading catalogue: %v", err)
	}
	ex, err := gamefeatures.New(append([]gamefeatures.Option{gamefeatures.WithCatalogue(cat)}, opts...)...)
	if err != nil {
		b.Fatalf("creating extractor: %v", err)
	}
	b.Cleanup(func() { ex.Close() })
	return ex
}

func parsed(b *testing.B) []moves.Sequence {
	b.Helper()
	out := make([]moves.Sequence, len(games))
	for i, g := range games {
		seq, err := moves.Parse(g)
		if err != nil {
			b.Fatal(err)
		}
		out[i] = seq
	}
	return out
}

// BenchmarkOpening_NoCache measures a full catalogue scan per game.
func BenchmarkOpening_NoCache(b *testing.B) {
	ex := newExtractor(b, gamefeatures.WithMatchCache(0))
	seqs := parsed(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ex.Opening(seqs[i%len(seqs)]); err != nil {
			b.Fatalf("opening error: %v", err)
		}
	}
}

// BenchmarkOpening_WarmCache measures classification served from the cache.
func BenchmarkOpening_WarmCache(b *testing.B) {
	ex := newExtractor(b, gamefeatures.WithMatchCache(opening.DefaultCacheSize))
	seqs := parsed(b)

	// Warm up the cache.
	for _, seq := range seqs {
		_, _ = ex.Opening(seq)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ex.Opening(seqs[i%len(seqs)]); err != nil {
			b.Fatalf("opening error: %v", err)
		}
	}
}

// BenchmarkExtract compares board engines with and without grids.
func BenchmarkExtract(b *testing.B) {
	seqs := parsed(b)
	ctx := context.Background()

	for _, engine := range gamefeatures.Engines() {
		for _, grids := range []bool{false, true} {
			b.Run(fmt.Sprintf("%s/grids=%t", engine, grids), func(b *testing.B) {
				engineOpt, err := gamefeatures.WithEngine(engine)
				if err != nil {
					b.Fatal(err)
				}
				ex := newExtractor(b, engineOpt, gamefeatures.WithGrids(grids))

				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := ex.ExtractSequence(ctx, seqs[i%len(seqs)]); err != nil {
						b.Fatalf("extract error: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkQueenTurns measures replay that stops once the queens are gone.
func BenchmarkQueenTurns(b *testing.B) {
	ex := newExtractor(b)
	seq, err := moves.Parse("e4 e5 d4 exd4 Qxd4 Nc6 Qe3 Nf6 Nc3 Bb4 Bd2 O-O O-O-O Re8 Qg3 Nxe4 Nxe4 Rxe4 Bxb4 Nxb4 Qxc7 Qxc7")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ex.QueenTurns(seq); err != nil {
			b.Fatalf("queen turns error: %v", err)
		}
	}
}
