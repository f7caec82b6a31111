package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/discochess/gamefeatures"
	"github.com/discochess/gamefeatures/fx/extractorfx"
	"github.com/discochess/gamefeatures/internal/board"
	"github.com/discochess/gamefeatures/internal/catalogue"
	"github.com/discochess/gamefeatures/internal/summary"
)

var catalogueCmd = &cobra.Command{
	Use:   "catalogue",
	Short: "Inspect an opening catalogue",
	Long: `Inspect the opening catalogue selected by --catalogue or the configuration.
With neither set, the built-in ECO catalogue is used.

Catalogues may be JSON, YAML or TSV, optionally gzip or zstd compressed,
and may be read from gs:// or s3://.`,
}

var catalogueVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check every catalogue line is legal and unique",
	Long: `Replay every catalogue entry on the configured board engine.

This command checks:
- Each entry's moves are legal from the starting position
- No two entries share the same move line`,
	Args: cobra.NoArgs,
	RunE: runCatalogueVerify,
}

var catalogueStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalogue statistics",
	Args:  cobra.NoArgs,
	RunE:  runCatalogueStats,
}

var cataloguePath string

func init() {
	catalogueCmd.PersistentFlags().StringVar(&cataloguePath, "catalogue", "", "catalogue file or URL (default from config)")
	catalogueCmd.AddCommand(catalogueVerifyCmd, catalogueStatsCmd)
	rootCmd.AddCommand(catalogueCmd)
}

func loadCatalogue(cmd *cobra.Command) (*catalogue.Catalogue, error) {
	if cataloguePath != "" {
		cfg.Catalogue = cataloguePath
	}
	c, err := extractorfx.LoadCatalogue(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("loading catalogue: %w", err)
	}
	return c, nil
}

func runCatalogueVerify(cmd *cobra.Command, args []string) error {
	c, err := loadCatalogue(cmd)
	if err != nil {
		return err
	}
	newBoard, err := gamefeatures.EngineFactory(cfg.Engine)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Verifying %d entries with %s...\n", c.Len(), cfg.Engine)

	var errCount int
	first := make(map[string]int, c.Len())
	for i := 0; i < c.Len(); i++ {
		e := c.Entry(i)
		if verbose {
			fmt.Fprintf(out, "  [%d/%d] %s %s\n", i+1, c.Len(), e.Code, e.Name)
		}

		if err := replayEntry(newBoard(), e); err != nil {
			fmt.Fprintf(out, "  ERROR: %s %s: %v\n", e.Code, e.Name, err)
			errCount++
		}

		line := e.Line()
		if j, ok := first[line]; ok {
			dup := c.Entry(j)
			fmt.Fprintf(out, "  ERROR: %s %s: same moves as %s %s\n", e.Code, e.Name, dup.Code, dup.Name)
			errCount++
			continue
		}
		first[line] = i
	}

	if errCount > 0 {
		return fmt.Errorf("%d catalogue problems found", errCount)
	}

	fmt.Fprintln(out, "All entries verified successfully.")
	return nil
}

func replayEntry(b board.Board, e catalogue.Entry) error {
	for ply, san := range e.Moves {
		if err := b.Apply(san); err != nil {
			return fmt.Errorf("ply %d (%s): %w", ply+1, san, err)
		}
	}
	return nil
}

func runCatalogueStats(cmd *cobra.Command, args []string) error {
	c, err := loadCatalogue(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	source := cfg.Catalogue
	if source == "" {
		source = "built-in ECO"
	}

	types := make(map[string]int)
	codes := make(map[string]struct{})
	lengths := make([]float64, c.Len())
	for i := 0; i < c.Len(); i++ {
		e := c.Entry(i)
		types[e.Type]++
		codes[e.Code] = struct{}{}
		lengths[i] = float64(len(e.Moves))
	}

	fmt.Fprintf(out, "Catalogue:      %s\n", source)
	fmt.Fprintf(out, "Entries:        %d\n", c.Len())
	fmt.Fprintf(out, "Distinct codes: %d\n", len(codes))

	d := summary.Describe(lengths)
	fmt.Fprintf(out, "Moves per line: min %.0f, median %.0f, mean %.2f, max %.0f\n", d.Min, d.Median, d.Mean, d.Max)
	fmt.Fprintln(out)

	writeTypeCounts(out, types, c.Len())
	return nil
}

func writeTypeCounts(w io.Writer, types map[string]int, total int) {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if types[names[i]] != types[names[j]] {
			return types[names[i]] > types[names[j]]
		}
		return names[i] < names[j]
	})

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tENTRIES\tSHARE")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", name, types[name], 100*float64(types[name])/float64(total))
	}
	tw.Flush()
}
