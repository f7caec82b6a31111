package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/gamefeatures"
	"github.com/discochess/gamefeatures/internal/catalogue"
	"github.com/discochess/gamefeatures/internal/moves"
)

var openingCmd = &cobra.Command{
	Use:   "opening MOVES...",
	Short: "Classify a game's opening",
	Long: `Classify a game against the opening catalogue and print the matched entry.

MOVES is a SAN move list, either as one quoted argument or as separate
arguments. Move numbers and a trailing result are ignored.

Examples:
  gamefeatures opening "e4 e5 Nf3 Nc6 Bb5 a6"
  gamefeatures opening 1. d4 Nf6 2. c4 e6 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOpening,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze MOVES...",
	Short: "Print the full feature record for a game",
	Long: `Extract every feature of one game and print the record as JSON.

Examples:
  gamefeatures analyze "e4 e5 Nf3 Nc6 Bc4 Bc5 O-O Nf6 d3 O-O"
  gamefeatures analyze --grids "d4 d5 c4 e6"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap MOVES...",
	Short: "Print a game's board-occupancy heatmap",
	Long: `Replay a game and print, for every square, the fraction of plies on which
it held one of the selected pieces. Row 8 is printed first.

Examples:
  gamefeatures heatmap "e4 e5 Nf3 Nc6"
  gamefeatures heatmap --pieces Qq "d4 d5 c4 dxc4 Qa4+"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHeatmap,
}

var (
	openingJSON   bool
	analyzeGrids  bool
	heatmapPieces string
)

func init() {
	openingCmd.Flags().BoolVar(&openingJSON, "json", false, "output result as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeGrids, "grids", false, "include per-ply occupancy grids")
	heatmapCmd.Flags().StringVar(&heatmapPieces, "pieces", "", "piece symbols to mark (default from config)")
	rootCmd.AddCommand(openingCmd, analyzeCmd, heatmapCmd)
}

func parseGame(args []string) (moves.Sequence, error) {
	seq, err := moves.ParseMovetext(strings.Join(args, " "))
	if err != nil {
		return nil, fmt.Errorf("parsing moves: %w", err)
	}
	return seq, nil
}

// withExtractor runs fn with an extractor built from the loaded config.
func withExtractor(ctx context.Context, fn func(*gamefeatures.Extractor) error) error {
	var ex *gamefeatures.Extractor
	stop, err := startApp(ctx, fx.Populate(&ex))
	if err != nil {
		return err
	}
	defer func() {
		if err := stop(); err != nil && !errors.Is(err, gamefeatures.ErrClosed) {
			log.Warn("stopping", zap.Error(err))
		}
	}()
	return fn(ex)
}

func runOpening(cmd *cobra.Command, args []string) error {
	seq, err := parseGame(args)
	if err != nil {
		return err
	}

	return withExtractor(cmd.Context(), func(ex *gamefeatures.Extractor) error {
		entry, err := ex.Opening(seq)
		if err != nil {
			return fmt.Errorf("classifying: %w", err)
		}

		if openingJSON {
			return printJSON(cmd.OutOrStdout(), openingJSONOutput{
				ECOCode: entry.Code,
				Name:    entry.Name,
				Type:    entry.Type,
				Moves:   entry.Line(),
			})
		}
		printEntry(cmd.OutOrStdout(), entry)
		return nil
	})
}

type openingJSONOutput struct {
	ECOCode string `json:"eco_code"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Moves   string `json:"moves"`
}

func printEntry(w io.Writer, e catalogue.Entry) {
	fmt.Fprintf(w, "ECO:   %s\n", e.Code)
	fmt.Fprintf(w, "Name:  %s\n", e.Name)
	fmt.Fprintf(w, "Type:  %s\n", e.Type)
	fmt.Fprintf(w, "Moves: %s\n", e.Line())
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	seq, err := parseGame(args)
	if err != nil {
		return err
	}
	cfg.Grids = analyzeGrids

	return withExtractor(cmd.Context(), func(ex *gamefeatures.Extractor) error {
		rec, err := ex.ExtractSequence(cmd.Context(), seq)
		if err != nil {
			return fmt.Errorf("extracting: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), rec)
	})
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	seq, err := parseGame(args)
	if err != nil {
		return err
	}
	if heatmapPieces != "" {
		cfg.Pieces = heatmapPieces
		if _, err := cfg.PieceSet(); err != nil {
			return fmt.Errorf("--pieces: %w", err)
		}
	}

	return withExtractor(cmd.Context(), func(ex *gamefeatures.Extractor) error {
		m, err := ex.Heatmap(seq)
		if err != nil {
			return fmt.Errorf("replaying: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), m.String())
		return nil
	})
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
