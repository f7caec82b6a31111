package sink

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/discochess/gamefeatures"
)

// DefaultKeyPrefix prefixes every key written by the Redis sink.
const DefaultKeyPrefix = "gamefeatures:"

// Redis stores each record as a hash under <prefix>game:<id> and counts
// games per ECO code in the <prefix>eco_counts hash. Records without an ID
// are only counted.
type Redis struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	owned  bool
}

var _ Sink = (*Redis)(nil)

// OpenRedis connects to a redis:// URL and returns a sink owning the client.
func OpenRedis(ctx context.Context, url, prefix string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	r := NewRedis(rdb, prefix, ttl)
	r.owned = true
	return r, nil
}

// NewRedis returns a sink over rdb. A zero ttl keeps game hashes forever.
// Close does not close rdb.
func NewRedis(rdb *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Redis{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *Redis) keyGame(id string) string { return r.prefix + "game:" + id }
func (r *Redis) keyECOCounts() string     { return r.prefix + "eco_counts" }

// Write implements Sink.
func (r *Redis) Write(ctx context.Context, rec *gamefeatures.Record) error {
	if r.rdb == nil {
		return ErrClosed
	}
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if rec.GameID != "" {
			key := r.keyGame(rec.GameID)
			pipe.HSet(ctx, key, fields(rec))
			if r.ttl > 0 {
				pipe.Expire(ctx, key, r.ttl)
			}
		}
		pipe.HIncrBy(ctx, r.keyECOCounts(), rec.ECOCode, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("storing record %s: %w", rec.GameID, err)
	}
	return nil
}

// OpeningCounts returns the number of games stored per ECO code.
func (r *Redis) OpeningCounts(ctx context.Context) (map[string]int64, error) {
	if r.rdb == nil {
		return nil, ErrClosed
	}
	raw, err := r.rdb.HGetAll(ctx, r.keyECOCounts()).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(raw))
	for code, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("count for %s: %w", code, err)
		}
		counts[code] = n
	}
	return counts, nil
}

// Close implements Sink.
func (r *Redis) Close() error {
	if r.rdb == nil {
		return ErrClosed
	}
	rdb := r.rdb
	r.rdb = nil
	if r.owned {
		return rdb.Close()
	}
	return nil
}

func fields(rec *gamefeatures.Record) map[string]interface{} {
	values := rec.Values()
	m := make(map[string]interface{}, len(values))
	for i, col := range gamefeatures.Columns {
		m[col] = values[i]
	}
	return m
}
