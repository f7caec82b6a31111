package gamefeatures

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/discochess/gamefeatures/internal/board"
	"github.com/discochess/gamefeatures/internal/board/notnilboard"
	"github.com/discochess/gamefeatures/internal/catalogue"
	"github.com/discochess/gamefeatures/internal/opening"
	"github.com/discochess/gamefeatures/internal/placement"
	"github.com/discochess/gamefeatures/internal/stats"
	"github.com/discochess/gamefeatures/internal/store/location"
)

// Option configures an Extractor.
type Option interface {
	apply(*options)
}

// options holds the extractor configuration.
type options struct {
	catalogue    *catalogue.Catalogue
	boardFactory board.Factory
	pieces       placement.PieceSet
	grids        bool
	cacheSize    int
	stats        stats.Collector
	logger       *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		boardFactory: notnilboard.NewFactory(),
		pieces:       placement.AllPieces,
		cacheSize:    opening.DefaultCacheSize,
		stats:        stats.NewNoop(),
		logger:       zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithCatalogue sets the opening catalogue.
func WithCatalogue(c *catalogue.Catalogue) Option {
	return optionFunc(func(o *options) {
		o.catalogue = c
	})
}

// WithCatalogueFile loads the opening catalogue from a file or gs:// or s3://
// URL. The format is inferred from the extension, after any compression
// extension is removed.
func WithCatalogueFile(path string) (Option, error) {
	c, err := LoadCatalogue(context.Background(), path)
	if err != nil {
		return nil, err
	}
	return WithCatalogue(c), nil
}

// LoadCatalogue reads and validates a catalogue from path.
func LoadCatalogue(ctx context.Context, path string, opts ...location.Option) (*catalogue.Catalogue, error) {
	format, err := catalogue.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	r, err := location.Open(ctx, path, opts...)
	if err != nil {
		return nil, fmt.Errorf("reading catalogue: %w", err)
	}
	defer r.Close()

	c, err := catalogue.Decode(r, format)
	if err != nil {
		return nil, fmt.Errorf("loading catalogue %s: %w", path, err)
	}
	return c, nil
}

// WithEngine selects the board engine by name ("notnil" or "corentings").
func WithEngine(name string) (Option, error) {
	f, err := EngineFactory(name)
	if err != nil {
		return nil, err
	}
	return WithBoardFactory(f), nil
}

// WithBoardFactory sets the function creating a fresh board for every game.
// If not set, the notnil engine is used.
func WithBoardFactory(f board.Factory) Option {
	return optionFunc(func(o *options) {
		o.boardFactory = f
	})
}

// WithPieces sets the piece symbols marked in occupancy grids.
// Default is all twelve.
func WithPieces(set placement.PieceSet) Option {
	return optionFunc(func(o *options) {
		o.pieces = set
	})
}

// WithGrids attaches per-ply occupancy grids to every record.
func WithGrids(enabled bool) Option {
	return optionFunc(func(o *options) {
		o.grids = enabled
	})
}

// WithMatchCache sets the opening cache capacity. Zero or less disables it.
// Default is opening.DefaultCacheSize.
func WithMatchCache(size int) Option {
	return optionFunc(func(o *options) {
		o.cacheSize = size
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}
