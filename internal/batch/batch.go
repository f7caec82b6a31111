// Package batch runs feature extraction over a stream of games with a
// bounded pool of workers, writing records in input order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/gamefeatures"
	"github.com/discochess/gamefeatures/internal/heatmap"
	"github.com/discochess/gamefeatures/internal/moves"
	"github.com/discochess/gamefeatures/internal/sink"
	"github.com/discochess/gamefeatures/internal/source"
	"github.com/discochess/gamefeatures/internal/stats"
)

// ErrRejected indicates a game that failed extraction in a strict run.
var ErrRejected = errors.New("batch: game rejected")

// DefaultProgressEvery is the number of games between progress reports.
const DefaultProgressEvery = 1000

// Extractor turns one game into a record.
type Extractor interface {
	ExtractSequence(ctx context.Context, seq moves.Sequence) (*gamefeatures.Record, error)
}

var _ Extractor = (*gamefeatures.Extractor)(nil)

// Runner runs batch extraction.
type Runner struct {
	extractor     Extractor
	workers       int
	strict        bool
	limit         int
	dropGrids     bool
	accumulator   *heatmap.Accumulator
	progress      ProgressFunc
	progressEvery int
	stats         stats.Collector
	logger        *zap.Logger
}

// Option configures the Runner.
type Option func(*Runner)

// WithWorkers sets the number of parallel extraction workers.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithStrict makes the first rejected game fail the run.
func WithStrict(strict bool) Option {
	return func(r *Runner) { r.strict = strict }
}

// WithLimit stops reading after n games. Zero means no limit.
func WithLimit(n int) Option {
	return func(r *Runner) { r.limit = n }
}

// WithAccumulator folds each record's grids into acc.
func WithAccumulator(acc *heatmap.Accumulator) Option {
	return func(r *Runner) { r.accumulator = acc }
}

// WithoutGrids strips grids from records before they reach the sink.
// Grids are still fed to the accumulator.
func WithoutGrids() Option {
	return func(r *Runner) { r.dropGrids = true }
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) { r.progress = fn }
}

// WithProgressEvery sets the number of games between progress reports.
func WithProgressEvery(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.progressEvery = n
		}
	}
}

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(r *Runner) { r.stats = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// New creates a Runner using ex for extraction.
func New(ex Extractor, opts ...Option) *Runner {
	r := &Runner{
		extractor:     ex,
		workers:       runtime.GOMAXPROCS(0),
		progressEvery: DefaultProgressEvery,
		stats:         stats.NewNoop(),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type job struct {
	index int
	game  source.Game
}

type result struct {
	index int
	id    string
	rec   *gamefeatures.Record
	err   error
}

// Run extracts every game from src and writes the records to dst in input
// order. It does not close dst. The returned manifest carries the counts
// reached even when Run fails.
func (r *Runner) Run(ctx context.Context, src source.Source, dst sink.Sink) (*Manifest, error) {
	m := &Manifest{
		Version:   ManifestVersion,
		RunID:     uuid.NewString(),
		Workers:   r.workers,
		Strict:    r.strict,
		StartedAt: time.Now().UTC(),
	}
	log := r.logger.With(zap.String("runID", m.RunID))
	log.Info("batch started", zap.Int("workers", r.workers), zap.Bool("strict", r.strict))

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan job, r.workers*2)
	results := make(chan result, r.workers*2)

	g.Go(func() error {
		defer close(jobs)
		return r.read(ctx, src, jobs)
	})

	var busy atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for j := range jobs {
				r.stats.SetGauge(stats.MetricWorkersBusy, busy.Add(1))
				res := r.extract(ctx, j)
				r.stats.SetGauge(stats.MetricWorkersBusy, busy.Add(-1))

				select {
				case results <- res:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	g.Go(func() error {
		return r.write(ctx, results, dst, m, log)
	})

	err := g.Wait()
	m.FinishedAt = time.Now().UTC()

	if err != nil {
		r.report(Progress{Phase: PhaseError, Manifest: *m, Error: err})
		log.Error("batch failed", zap.Error(err), zap.Int64("gamesRead", m.GamesRead))
		return m, err
	}
	r.report(Progress{Phase: PhaseDone, Manifest: *m})
	log.Info("batch finished",
		zap.Int64("gamesRead", m.GamesRead),
		zap.Int64("gamesWritten", m.GamesWritten),
		zap.Int64("gamesRejected", m.GamesRejected),
		zap.Duration("elapsed", m.Elapsed()),
	)
	return m, nil
}

func (r *Runner) read(ctx context.Context, src source.Source, jobs chan<- job) error {
	for i := 0; r.limit == 0 || i < r.limit; i++ {
		game, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading game %d: %w", i+1, err)
		}

		select {
		case jobs <- job{index: i, game: game}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (r *Runner) extract(ctx context.Context, j job) result {
	res := result{index: j.index, id: j.game.ID}

	rec, err := r.extractor.ExtractSequence(ctx, j.game.Moves)
	if err != nil {
		res.err = err
		return res
	}
	rec.GameID = j.game.ID

	if r.accumulator != nil && len(rec.Grids) > 0 {
		if err := r.accumulator.AddStack(rec.Grids); err != nil {
			res.err = fmt.Errorf("accumulating heatmap: %w", err)
			return res
		}
	}
	if r.dropGrids {
		rec.Grids = nil
	}
	res.rec = rec
	return res
}

// write restores input order and feeds dst.
func (r *Runner) write(ctx context.Context, results <-chan result, dst sink.Sink, m *Manifest, log *zap.Logger) error {
	pending := make(map[int]result)
	next := 0

	for res := range results {
		pending[res.index] = res
		for {
			p, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++

			if err := r.emit(ctx, p, dst, m, log); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) emit(ctx context.Context, res result, dst sink.Sink, m *Manifest, log *zap.Logger) error {
	m.GamesRead++

	if res.err != nil {
		if !rejectable(res.err) {
			return fmt.Errorf("game %s: %w", res.id, res.err)
		}
		if r.strict {
			return fmt.Errorf("%w: game %s: %w", ErrRejected, res.id, res.err)
		}
		m.GamesRejected++
		log.Warn("game rejected", zap.String("gameID", res.id), zap.Error(res.err))
	} else {
		if err := dst.Write(ctx, res.rec); err != nil {
			return fmt.Errorf("writing game %s: %w", res.id, err)
		}
		m.GamesWritten++
		r.stats.IncCounter(stats.MetricRecordsWritten, 1)
	}

	if m.GamesRead%int64(r.progressEvery) == 0 {
		r.report(Progress{Phase: PhaseExtract, Manifest: *m})
	}
	return nil
}

func (r *Runner) report(p Progress) {
	if r.progress != nil {
		r.progress(p)
	}
}

// rejectable reports whether err concerns the game itself rather than the run.
func rejectable(err error) bool {
	return errors.Is(err, gamefeatures.ErrEmptyMoves) || errors.Is(err, gamefeatures.ErrIllegalMove)
}
