// Package extractorfx provides an fx module for a configured feature extractor.
package extractorfx

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/gamefeatures"
	"github.com/discochess/gamefeatures/internal/catalogue"
	"github.com/discochess/gamefeatures/internal/config"
	"github.com/discochess/gamefeatures/internal/stats"
	"github.com/discochess/gamefeatures/internal/stats/logger"
	promstats "github.com/discochess/gamefeatures/internal/stats/prometheus"
	"github.com/discochess/gamefeatures/internal/store/location"
)

// Module provides a *gamefeatures.Extractor, its *catalogue.Catalogue and a
// stats.Collector. Requires a *config.Config and a *zap.Logger; metrics are
// also registered with a prometheus.Registerer when one is provided.
var Module = fx.Module("extractor",
	fx.Provide(
		newStatsCollector,
		newCatalogue,
		newExtractor,
	),
)

// StatsParams holds dependencies for the stats collector.
type StatsParams struct {
	fx.In

	Logger     *zap.Logger
	Registerer prometheus.Registerer `optional:"true"`
}

func newStatsCollector(p StatsParams) stats.Collector {
	log := logger.New(p.Logger.Named("gamefeatures"))
	if p.Registerer == nil {
		return log
	}
	return stats.Multi{log, promstats.New(p.Registerer)}
}

// LocationOptions returns the store options configured in cfg.
func LocationOptions(cfg *config.Config) []location.Option {
	return []location.Option{
		location.WithS3Region(cfg.Storage.S3Region),
		location.WithS3Endpoint(cfg.Storage.S3Endpoint),
	}
}

// LoadCatalogue returns the configured catalogue, or the built-in ECO
// catalogue when none is configured.
func LoadCatalogue(ctx context.Context, cfg *config.Config) (*catalogue.Catalogue, error) {
	if cfg.Catalogue == "" {
		return catalogue.Builtin()
	}
	return gamefeatures.LoadCatalogue(ctx, cfg.Catalogue, LocationOptions(cfg)...)
}

func newCatalogue(cfg *config.Config, log *zap.Logger) (*catalogue.Catalogue, error) {
	c, err := LoadCatalogue(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	log.Info("catalogue loaded",
		zap.String("source", cfg.Catalogue),
		zap.Int("entries", c.Len()),
		zap.Int("maxLen", c.MaxLen()),
	)
	return c, nil
}

// Params holds dependencies for creating the extractor.
type Params struct {
	fx.In

	Config    *config.Config
	Catalogue *catalogue.Catalogue
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided extractor.
type Result struct {
	fx.Out

	Extractor *gamefeatures.Extractor
}

// Options translates cfg into extractor options.
func Options(cfg *config.Config) ([]gamefeatures.Option, error) {
	engine, err := gamefeatures.WithEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}
	pieces, err := cfg.PieceSet()
	if err != nil {
		return nil, fmt.Errorf("pieces: %w", err)
	}
	return []gamefeatures.Option{
		engine,
		gamefeatures.WithPieces(pieces),
		gamefeatures.WithMatchCache(cfg.CacheSize),
		gamefeatures.WithGrids(cfg.Grids),
	}, nil
}

func newExtractor(p Params) (Result, error) {
	opts, err := Options(p.Config)
	if err != nil {
		return Result{}, err
	}
	opts = append(opts,
		gamefeatures.WithCatalogue(p.Catalogue),
		gamefeatures.WithStats(p.Collector),
		gamefeatures.WithLogger(p.Logger.Named("gamefeatures")),
	)

	ex, err := gamefeatures.New(opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return ex.Close()
		},
	})

	return Result{Extractor: ex}, nil
}
