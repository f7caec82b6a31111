package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/gamefeatures/fx/extractorfx"
	"github.com/discochess/gamefeatures/internal/store/location"
	"github.com/discochess/gamefeatures/internal/summary"
)

var summaryCmd = &cobra.Command{
	Use:   "summary RECORDS",
	Short: "Summarize a JSON lines file of feature records",
	Long: `Read records written by "extract" as JSON lines and print a Markdown report:
descriptive statistics per numeric column, castling rates, the most common
openings and first moves, and a comparison of queen survival between games
where both sides castled and the rest.

RECORDS may be compressed and may be read from gs:// or s3://.

Examples:
  gamefeatures summary features.jsonl.zst --top 20 > report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

// defaultSummaryTop is the number of rows in each frequency table.
const defaultSummaryTop = 10

var (
	summaryTop   = defaultSummaryTop
	summaryTitle string
)

func init() {
	summaryCmd.Flags().IntVar(&summaryTop, "top", summaryTop, "rows in each frequency table")
	summaryCmd.Flags().StringVar(&summaryTitle, "title", "", "report title (default RECORDS)")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	input := args[0]

	r, err := location.Open(cmd.Context(), input, extractorfx.LocationOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("opening records: %w", err)
	}
	defer r.Close()

	s, err := summary.FromJSONL(r)
	if err != nil {
		return err
	}

	title := summaryTitle
	if title == "" {
		title = input
	}
	summary.NewMarkdownReport(cmd.OutOrStdout()).Write(title, s, summaryTop)
	return nil
}
