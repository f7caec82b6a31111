// Package batchfx provides an fx module for a batch runner.
// Useful together with extractorfx.
package batchfx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/gamefeatures"
	"github.com/discochess/gamefeatures/internal/batch"
	"github.com/discochess/gamefeatures/internal/config"
	"github.com/discochess/gamefeatures/internal/heatmap"
	"github.com/discochess/gamefeatures/internal/stats"
)

// Module provides a *batch.Runner and the *heatmap.Accumulator it feeds.
// Requires a *gamefeatures.Extractor, a *config.Config, a stats.Collector
// and a *zap.Logger. A batch.ProgressFunc is used when provided, and any
// batch.Option values in the "batch_options" group are applied last.
var Module = fx.Module("batch",
	fx.Provide(
		heatmap.NewAccumulator,
		newRunner,
	),
)

// Params holds dependencies for creating the runner.
type Params struct {
	fx.In

	Config      *config.Config
	Extractor   *gamefeatures.Extractor
	Accumulator *heatmap.Accumulator
	Collector   stats.Collector
	Logger      *zap.Logger
	Progress    batch.ProgressFunc `optional:"true"`
	Options     []batch.Option     `group:"batch_options"`
}

// AsOption annotates a constructor so its batch.Option joins the
// "batch_options" group.
func AsOption(f interface{}) interface{} {
	return fx.Annotate(f, fx.ResultTags(`group:"batch_options"`))
}

func newRunner(p Params) *batch.Runner {
	opts := []batch.Option{
		batch.WithWorkers(p.Config.Batch.Workers),
		batch.WithStrict(p.Config.Batch.Strict),
		batch.WithProgressEvery(p.Config.Batch.ProgressEvery),
		batch.WithProgress(p.Progress),
		batch.WithAccumulator(p.Accumulator),
		batch.WithStats(p.Collector),
		batch.WithLogger(p.Logger.Named("batch")),
	}
	return batch.New(p.Extractor, append(opts, p.Options...)...)
}
