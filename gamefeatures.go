// Package gamefeatures turns chess games recorded as SAN move lists into
// per-game feature records: opening classification against a catalogue,
// castling descriptors, queen survival and board-occupancy grids.
//
// Example usage:
//
//	cat, err := catalogue.Builtin()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ex, err := gamefeatures.New(gamefeatures.WithCatalogue(cat))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ex.Close()
//
//	rec, err := ex.Extract(ctx, "e4 e5 Nf3 Nc6 Bb5 a6 O-O")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s %s\n", rec.ECOCode, rec.OpeningName)
package gamefeatures

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/gamefeatures/internal/board"
	"github.com/discochess/gamefeatures/internal/catalogue"
	"github.com/discochess/gamefeatures/internal/descriptor"
	"github.com/discochess/gamefeatures/internal/heatmap"
	"github.com/discochess/gamefeatures/internal/moves"
	"github.com/discochess/gamefeatures/internal/opening"
	"github.com/discochess/gamefeatures/internal/placement"
	"github.com/discochess/gamefeatures/internal/replay"
	"github.com/discochess/gamefeatures/internal/stats"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrEmptyMoves indicates a game with no move tokens.
	ErrEmptyMoves = moves.ErrEmpty

	// ErrIllegalMove indicates a move the board engine rejected.
	ErrIllegalMove = board.ErrIllegalMove

	// ErrNoCatalogue indicates no opening catalogue was provided.
	ErrNoCatalogue = errors.New("gamefeatures: no catalogue provided")

	// ErrClosed indicates the extractor has been closed.
	ErrClosed = errors.New("gamefeatures: extractor closed")
)

// Extractor computes feature records for games.
// An Extractor is safe for concurrent use by multiple goroutines; each call
// replays on its own board.
type Extractor struct {
	catalogue  *catalogue.Catalogue
	classifier opening.Classifier
	cache      *opening.Cached
	newBoard   board.Factory
	pieces     placement.PieceSet
	grids      bool
	stats      stats.Collector
	logger     *zap.Logger
	closed     atomic.Bool
}

// New creates a new Extractor with the given options.
// A catalogue is required; everything else has a default.
func New(opts ...Option) (*Extractor, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.catalogue == nil {
		return nil, ErrNoCatalogue
	}

	matcher, err := opening.NewMatcher(cfg.catalogue)
	if err != nil {
		return nil, fmt.Errorf("creating matcher: %w", err)
	}

	e := &Extractor{
		catalogue:  cfg.catalogue,
		classifier: matcher,
		newBoard:   cfg.boardFactory,
		pieces:     cfg.pieces,
		grids:      cfg.grids,
		stats:      cfg.stats,
		logger:     cfg.logger,
	}

	if cfg.cacheSize > 0 {
		e.cache, err = opening.NewCached(matcher, cfg.cacheSize, cfg.stats)
		if err != nil {
			return nil, fmt.Errorf("creating opening cache: %w", err)
		}
		e.classifier = e.cache
	}

	e.logger.Debug("extractor initialized",
		zap.Int("catalogueEntries", cfg.catalogue.Len()),
		zap.Int("catalogueMaxLen", cfg.catalogue.MaxLen()),
		zap.Int("cacheSize", cfg.cacheSize),
		zap.Stringer("pieces", cfg.pieces),
		zap.Bool("grids", cfg.grids),
	)

	return e, nil
}

// Extract parses a whitespace-separated SAN move list and extracts its features.
func (e *Extractor) Extract(ctx context.Context, raw string) (*Record, error) {
	seq, err := moves.Parse(raw)
	if err != nil {
		e.reject(err)
		return nil, err
	}
	return e.ExtractSequence(ctx, seq)
}

// ExtractSequence extracts the features of a tokenized game.
// A record is returned only if every component succeeds.
func (e *Extractor) ExtractSequence(ctx context.Context, seq moves.Sequence) (*Record, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(seq) == 0 {
		e.reject(ErrEmptyMoves)
		return nil, ErrEmptyMoves
	}

	start := time.Now()

	entry, err := e.match(seq)
	if err != nil {
		e.reject(err)
		return nil, err
	}

	r, err := replay.Replay(e.newBoard(), seq, e.pieces, e.grids)
	e.stats.IncCounter(stats.MetricPliesReplayed, int64(r.Plies))
	if err != nil {
		e.reject(err)
		return nil, fmt.Errorf("replaying game: %w", err)
	}

	d := descriptor.Compute(seq)
	rec := &Record{
		ECOCode:              entry.Code,
		OpeningName:          entry.Name,
		OpeningType:          entry.Type,
		OpeningMoves:         entry.Line(),
		FirstMove:            d.FirstMove,
		GameLength:           d.GameLength,
		CastleKingsideCount:  d.CastleKingside,
		CastleQueensideCount: d.CastleQueenside,
		BothCastled:          d.BothCastled,
		OppositeCastle:       d.OppositeCastle,
		QueenTurnCount:       r.QueenTurns,
		Grids:                r.Grids,
	}

	e.stats.IncCounter(stats.MetricGamesProcessed, 1)
	e.stats.ObserveHistogram(stats.MetricExtractSeconds, time.Since(start).Seconds())
	return rec, nil
}

// Opening classifies seq against the catalogue.
func (e *Extractor) Opening(seq moves.Sequence) (catalogue.Entry, error) {
	if e.closed.Load() {
		return catalogue.Entry{}, ErrClosed
	}
	return e.match(seq)
}

// QueenTurns replays seq until no queen remains and returns the number of
// plies that still had one.
func (e *Extractor) QueenTurns(seq moves.Sequence) (int, error) {
	if e.closed.Load() {
		return 0, ErrClosed
	}
	return replay.QueenTurns(e.newBoard(), seq)
}

// Grids replays seq and returns one occupancy grid per ply for the pieces in set.
func (e *Extractor) Grids(seq moves.Sequence, set placement.PieceSet) (heatmap.Stack, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	return replay.Grids(e.newBoard(), seq, set)
}

// Heatmap returns the per-square occupancy frequency over every ply of seq,
// using the extractor's piece selection.
func (e *Extractor) Heatmap(seq moves.Sequence) (heatmap.Map, error) {
	stack, err := e.Grids(seq, e.pieces)
	if err != nil {
		return heatmap.Map{}, err
	}
	return heatmap.Average(stack)
}

// Catalogue returns the catalogue used for classification.
func (e *Extractor) Catalogue() *catalogue.Catalogue {
	return e.catalogue
}

// CacheStats returns opening cache statistics. ok is false when caching is
// disabled.
func (e *Extractor) CacheStats() (s opening.Stats, ok bool) {
	if e.cache == nil {
		return opening.Stats{}, false
	}
	return e.cache.Stats(), true
}

// Close marks the extractor as closed.
// After Close, every method returns ErrClosed.
func (e *Extractor) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if s, ok := e.CacheStats(); ok {
		e.logger.Debug("extractor closed",
			zap.Int64("cacheHits", s.Hits),
			zap.Int64("cacheMisses", s.Misses),
			zap.Float64("cacheHitRate", s.HitRate()),
		)
	}
	return nil
}

func (e *Extractor) match(seq moves.Sequence) (catalogue.Entry, error) {
	entry, err := e.classifier.Match(seq)
	if err != nil {
		return catalogue.Entry{}, err
	}
	e.stats.IncCounter(stats.MetricOpeningMatches, 1)
	return entry, nil
}

func (e *Extractor) reject(err error) {
	e.stats.IncCounter(stats.MetricGamesRejected, 1)
	e.logger.Debug("game rejected", zap.Error(err))
}
