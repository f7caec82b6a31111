// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the module.
const (
	// Extraction metrics.
	MetricGamesProcessed = "gamefeatures_games_processed_total"
	MetricGamesRejected  = "gamefeatures_games_rejected_total"
	MetricPliesReplayed  = "gamefeatures_plies_replayed_total"
	MetricExtractSeconds = "gamefeatures_extract_seconds"

	// Opening metrics.
	MetricOpeningMatches = "gamefeatures_opening_matches_total"
	MetricCacheHits      = "gamefeatures_opening_cache_hits_total"
	MetricCacheMisses    = "gamefeatures_opening_cache_misses_total"
	MetricCacheSize      = "gamefeatures_opening_cache_size"

	// Batch metrics.
	MetricRecordsWritten = "gamefeatures_records_written_total"
	MetricWorkersBusy    = "gamefeatures_workers_busy"
)

// Help returns the description of a known metric, or the name itself.
func Help(name string) string {
	if h, ok := help[name]; ok {
		return h
	}
	return name
}

var help = map[string]string{
	MetricGamesProcessed: "Games turned into feature records.",
	MetricGamesRejected:  "Games rejected for empty or illegal move sequences.",
	MetricPliesReplayed:  "Plies applied to a board during replay.",
	MetricExtractSeconds: "Time spent extracting one game's features.",
	MetricOpeningMatches: "Opening classifications performed.",
	MetricCacheHits:      "Opening classifications served from the cache.",
	MetricCacheMisses:    "Opening classifications computed by the matcher.",
	MetricCacheSize:      "Entries currently held by the opening cache.",
	MetricRecordsWritten: "Records written to the output sink.",
	MetricWorkersBusy:    "Batch workers currently extracting a game.",
}

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
