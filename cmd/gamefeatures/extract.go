package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/gamefeatures"
	"github.com/discochess/gamefeatures/fx/batchfx"
	"github.com/discochess/gamefeatures/fx/extractorfx"
	"github.com/discochess/gamefeatures/internal/batch"
	"github.com/discochess/gamefeatures/internal/catalogue"
	"github.com/discochess/gamefeatures/internal/heatmap"
	"github.com/discochess/gamefeatures/internal/sink"
	"github.com/discochess/gamefeatures/internal/source"
	"github.com/discochess/gamefeatures/internal/store/location"
	"github.com/discochess/gamefeatures/internal/summary"
)

var extractCmd = &cobra.Command{
	Use:   "extract [INPUT]",
	Short: "Extract feature records for a file of games",
	Long: `Extract feature records for every game in INPUT and write them in input order.

INPUT is a local path, gs:// or s3:// URL, or "-" for standard input, and may
be gzip or zstd compressed. Games are read as one SAN move list per line,
as CSV with a "moves" column, or as PGN; the format is inferred from the
extension unless --format is given.

--output accepts:
  -                           JSON lines on standard output (default)
  FILE[.gz|.zst]              JSON lines, or CSV for .csv names
  gs://... or s3://...        as FILE, in an object store
  postgres://...              upserts into a table
  redis://...                 one hash per game plus opening counts

Games that are empty or contain an illegal move are skipped and counted,
unless --strict is set.

Examples:
  gamefeatures extract games.pgn --output features.csv
  gamefeatures extract s3://bucket/games.txt.zst --output features.jsonl.zst --heatmap heat.txt
  zcat games.csv.gz | gamefeatures extract --format csv --summary report.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

var (
	extractFormat       string
	extractOutput       string
	extractOutputFormat string
	extractGrids        bool
	extractHeatmap      string
	extractSummary      string
	extractManifest     string
	extractLimit        int
	extractWorkers      int
	extractStrict       bool
	extractQuiet        bool
)

func init() {
	extractCmd.Flags().StringVar(&extractFormat, "format", "", "input format: lines, csv or pgn (default from extension)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "-", "output file, URL or database")
	extractCmd.Flags().StringVar(&extractOutputFormat, "output-format", "jsonl", "standard output format: jsonl or csv")
	extractCmd.Flags().BoolVar(&extractGrids, "grids", false, "include per-ply occupancy grids in records")
	extractCmd.Flags().StringVar(&extractHeatmap, "heatmap", "", "write the mean occupancy heatmap over all games to this file")
	extractCmd.Flags().StringVar(&extractSummary, "summary", "", "write a Markdown summary of the records to this file")
	extractCmd.Flags().StringVar(&extractManifest, "manifest", "", "run manifest location (default OUTPUT.manifest.json for files)")
	extractCmd.Flags().IntVar(&extractLimit, "limit", 0, "stop after this many games (0 = all)")
	extractCmd.Flags().IntVarP(&extractWorkers, "workers", "w", 0, "parallel workers (default from config, else all CPUs)")
	extractCmd.Flags().BoolVar(&extractStrict, "strict", false, "fail on the first rejected game")
	extractCmd.Flags().BoolVarP(&extractQuiet, "quiet", "q", false, "suppress progress output")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	input := "-"
	if len(args) == 1 {
		input = args[0]
	}

	kind := source.Kind(extractFormat)
	switch kind {
	case "":
		kind = source.KindFromPath(input)
	case source.KindLines, source.KindCSV, source.KindPGN:
	default:
		return fmt.Errorf("unknown input format %q (want lines, csv or pgn)", extractFormat)
	}
	if extractOutputFormat != "jsonl" && extractOutputFormat != "csv" {
		return fmt.Errorf("unknown output format %q (want jsonl or csv)", extractOutputFormat)
	}

	if cmd.Flags().Changed("workers") {
		cfg.Batch.Workers = extractWorkers
	}
	if cmd.Flags().Changed("strict") {
		cfg.Batch.Strict = extractStrict
	}
	if extractGrids || extractHeatmap != "" {
		cfg.Grids = true
	}

	// Handle interrupts so sinks are flushed and closed.
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		runner *batch.Runner
		acc    *heatmap.Accumulator
		cat    *catalogue.Catalogue
	)
	extra := []fx.Option{
		fx.Provide(batchfx.AsOption(func() batch.Option { return batch.WithLimit(extractLimit) })),
		fx.Populate(&runner, &acc, &cat),
	}
	if !extractGrids {
		extra = append(extra, fx.Provide(batchfx.AsOption(batch.WithoutGrids)))
	}
	if !extractQuiet {
		extra = append(extra, fx.Provide(func() batch.ProgressFunc {
			return batch.ProgressPrinter(cmd.ErrOrStderr())
		}))
	}

	stop, err := startApp(ctx, extra...)
	if err != nil {
		return err
	}
	defer func() {
		if err := stop(); err != nil && !errors.Is(err, gamefeatures.ErrClosed) {
			log.Warn("stopping", zap.Error(err))
		}
	}()

	locOpts := extractorfx.LocationOptions(cfg)

	src, closeSrc, err := openSource(ctx, cmd, input, kind, locOpts)
	if err != nil {
		return err
	}
	defer closeSrc()

	dst, err := openSink(ctx, cmd, locOpts)
	if err != nil {
		return err
	}

	var report *summary.Builder
	if extractSummary != "" {
		report = summary.NewBuilder()
		dst = sink.Tee{dst, report}
	}

	log.Info("extracting",
		zap.String("input", input),
		zap.String("format", string(kind)),
		zap.String("output", extractOutput),
	)

	manifest, runErr := runner.Run(ctx, src, dst)
	if err := dst.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("closing output: %w", err)
	}
	if manifest != nil {
		manifest.Source = input
		manifest.Output = extractOutput
		manifest.Engine = cfg.Engine
		manifest.CatalogueEntries = cat.Len()
	}
	if runErr != nil {
		return runErr
	}

	if path := manifestTarget(); path != "" {
		if err := batch.WriteManifest(ctx, path, manifest, locOpts...); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
		log.Debug("manifest written", zap.String("path", path), zap.String("runID", manifest.RunID))
	}

	if extractHeatmap != "" {
		if err := writeHeatmap(ctx, extractHeatmap, acc, locOpts); err != nil {
			return err
		}
	}

	if report != nil {
		s, err := report.Summary()
		if err != nil {
			return fmt.Errorf("summarizing: %w", err)
		}
		if err := writeSummary(ctx, extractSummary, input, s, locOpts); err != nil {
			return err
		}
	}
	return nil
}

func openSource(ctx context.Context, cmd *cobra.Command, input string, kind source.Kind, opts []location.Option) (source.Source, func(), error) {
	var r io.ReadCloser
	if input == "-" {
		r = io.NopCloser(cmd.InOrStdin())
	} else {
		var err error
		r, err = location.Open(ctx, input, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("opening input: %w", err)
		}
	}

	src, err := source.Open(r, kind)
	if err != nil {
		r.Close()
		return nil, nil, err
	}
	return src, func() { r.Close() }, nil
}

func openSink(ctx context.Context, cmd *cobra.Command, opts []location.Option) (sink.Sink, error) {
	if extractOutput == "-" {
		w := sink.NopCloser(cmd.OutOrStdout())
		if extractOutputFormat == "csv" {
			return sink.NewCSV(w)
		}
		return sink.NewJSONL(w), nil
	}
	return sink.Open(ctx, extractOutput,
		sink.WithTable(cfg.Output.PostgresTable),
		sink.WithKeyPrefix(cfg.Output.RedisPrefix),
		sink.WithTTL(cfg.Output.RedisTTL),
		sink.WithLocationOptions(opts...),
	)
}

// manifestTarget returns where the manifest goes: the --manifest flag, or
// next to a file output. Database and stdout outputs get none by default.
func manifestTarget() string {
	if extractManifest != "" {
		return extractManifest
	}
	if extractOutput == "-" || isDatabase(extractOutput) {
		return ""
	}
	return batch.ManifestPath(extractOutput)
}

func isDatabase(target string) bool {
	_, err := location.Parse(target)
	return errors.Is(err, location.ErrUnsupportedScheme)
}

func writeHeatmap(ctx context.Context, target string, acc *heatmap.Accumulator, opts []location.Option) error {
	m, err := acc.Mean()
	if err != nil {
		return fmt.Errorf("heatmap: %w", err)
	}
	w, err := location.Create(ctx, target, opts...)
	if err != nil {
		return fmt.Errorf("opening heatmap output: %w", err)
	}
	if _, err := io.WriteString(w, m.String()); err != nil {
		w.Close()
		return fmt.Errorf("writing heatmap: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("writing heatmap: %w", err)
	}
	log.Info("heatmap written", zap.String("path", target), zap.Int("games", acc.Games()))
	return nil
}

func writeSummary(ctx context.Context, target, title string, s *summary.Summary, opts []location.Option) error {
	w, err := location.Create(ctx, target, opts...)
	if err != nil {
		return fmt.Errorf("opening summary output: %w", err)
	}
	summary.NewMarkdownReport(w).Write(title, s, defaultSummaryTop)
	if err := w.Close(); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	log.Info("summary written", zap.String("path", target), zap.Int("games", s.Games))
	return nil
}
