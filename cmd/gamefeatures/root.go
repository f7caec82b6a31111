package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/discochess/gamefeatures/fx/batchfx"
	"github.com/discochess/gamefeatures/fx/extractorfx"
	"github.com/discochess/gamefeatures/internal/config"
	"github.com/discochess/gamefeatures/internal/logging"
)

var (
	// Global flags.
	configPath string
	verbose    bool

	// Loaded in PersistentPreRunE.
	cfg *config.Config
	log *zap.Logger

	registry      *prometheus.Registry
	metricsServer *http.Server
)

var rootCmd = &cobra.Command{
	Use:   "gamefeatures",
	Short: "Extract per-game features from chess move lists",
	Long: `Gamefeatures turns chess games recorded as SAN move lists into feature
records: the matching opening from a catalogue, castling descriptors, the
number of plies queens survived, and per-ply board-occupancy grids.

Configuration is read from --config (YAML) and GAMEFEATURES_* environment
variables.

Examples:
  # Classify one game's opening
  gamefeatures opening "e4 e5 Nf3 Nc6 Bb5 a6"

  # Extract features for a PGN file into a CSV
  gamefeatures extract games.pgn --output features.csv

  # Write to Postgres and a Markdown summary at the same time
  gamefeatures extract games.pgn.zst --output postgres://localhost/chess --summary report.md

  # Check a catalogue replays cleanly
  gamefeatures catalogue verify --catalogue openings.tsv`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	log, err = logging.NewWithWriter(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	registry = nil
	if cfg.Metrics.Addr != "" {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		if err := serveMetrics(cfg.Metrics.Addr); err != nil {
			return err
		}
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	var err error
	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = metricsServer.Shutdown(ctx)
		metricsServer = nil
	}
	if log != nil {
		_ = log.Sync()
	}
	return err
}

// serveMetrics exposes the registry on addr until teardown.
func serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	metricsServer = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	log.Info("serving metrics", zap.String("addr", ln.Addr().String()))
	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}(metricsServer)
	return nil
}

// startApp starts the extractor and batch modules from the loaded config,
// together with extra (typically fx.Populate). The returned stop function
// closes the extractor.
func startApp(ctx context.Context, extra ...fx.Option) (stop func() error, err error) {
	opts := []fx.Option{
		fx.Supply(cfg, log),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx").WithOptions(zap.IncreaseLevel(zap.WarnLevel))}
		}),
		extractorfx.Module,
		batchfx.Module,
	}
	if registry != nil {
		opts = append(opts, fx.Provide(func() prometheus.Registerer { return registry }))
	}

	app := fx.New(append(opts, extra...)...)
	if err := app.Start(ctx); err != nil {
		return nil, err
	}
	return func() error {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.Stop(stopCtx)
	}, nil
}
