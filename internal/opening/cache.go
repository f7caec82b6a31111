package opening

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/discochess/gamefeatures/internal/catalogue"
	"github.com/discochess/gamefeatures/internal/moves"
	"github.com/discochess/gamefeatures/internal/stats"
)

// DefaultCacheSize is the number of distinct openings kept by NewCached when
// capacity is not positive.
const DefaultCacheSize = 4096

// Stats contains cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int // Current number of entries
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Cached memoizes a Matcher. Games are keyed on their first MaxLen plies,
// which fully determine the match.
type Cached struct {
	matcher   *Matcher
	cache     *lru.Cache[string, catalogue.Entry]
	collector stats.Collector

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCached wraps m with an LRU cache of the given capacity.
// The collector is optional; if nil, a no-op collector is used.
func NewCached(m *Matcher, capacity int, collector stats.Collector) (*Cached, error) {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	if collector == nil {
		collector = stats.NewNoop()
	}
	c, err := lru.New[string, catalogue.Entry](capacity)
	if err != nil {
		return nil, err
	}
	return &Cached{
		matcher:   m,
		cache:     c,
		collector: collector,
	}, nil
}

// Match returns the cached classification of seq, computing it on a miss.
func (c *Cached) Match(seq moves.Sequence) (catalogue.Entry, error) {
	if len(seq) == 0 {
		return catalogue.Entry{}, moves.ErrEmpty
	}

	key := seq.Prefix(c.matcher.MaxLen()).String()
	if e, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		c.collector.IncCounter(stats.MetricCacheHits, 1)
		return e, nil
	}
	c.misses.Add(1)
	c.collector.IncCounter(stats.MetricCacheMisses, 1)

	e, err := c.matcher.Match(seq)
	if err != nil {
		return catalogue.Entry{}, err
	}
	c.cache.Add(key, e)
	c.collector.SetGauge(stats.MetricCacheSize, int64(c.cache.Len()))
	return e, nil
}

// Stats returns current cache statistics.
func (c *Cached) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.cache.Len(),
	}
}
