// Package config loads the command-line configuration from a YAML file and
// GAMEFEATURES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/discochess/gamefeatures"
	"github.com/discochess/gamefeatures/internal/opening"
	"github.com/discochess/gamefeatures/internal/placement"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GAMEFEATURES_"

// ErrInvalid indicates a configuration that fails validation.
var ErrInvalid = errors.New("config: invalid")

// Config is the full configuration.
type Config struct {
	// Catalogue is a catalogue file or URL. Empty selects the built-in ECO
	// catalogue.
	Catalogue string `yaml:"catalogue"`

	// Engine names the board engine.
	Engine string `yaml:"engine"`

	// Pieces lists the piece symbols marked in occupancy grids.
	Pieces string `yaml:"pieces"`

	// CacheSize is the opening cache capacity; zero disables it.
	CacheSize int `yaml:"cache_size"`

	// Grids enables per-ply occupancy grids on extracted records.
	Grids bool `yaml:"grids"`

	Batch   Batch   `yaml:"batch"`
	Storage Storage `yaml:"storage"`
	Output  Output  `yaml:"output"`
	Log     Log     `yaml:"log"`
	Metrics Metrics `yaml:"metrics"`
}

// Batch configures batch extraction.
type Batch struct {
	Workers       int  `yaml:"workers"`
	Strict        bool `yaml:"strict"`
	ProgressEvery int  `yaml:"progress_every"`
}

// Storage configures remote object stores.
type Storage struct {
	S3Region   string `yaml:"s3_region"`
	S3Endpoint string `yaml:"s3_endpoint"`
}

// Output configures database sinks.
type Output struct {
	PostgresTable string        `yaml:"postgres_table"`
	RedisPrefix   string        `yaml:"redis_prefix"`
	RedisTTL      time.Duration `yaml:"redis_ttl"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Caller bool   `yaml:"caller"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	// Addr is the listen address for /metrics; empty disables the endpoint.
	Addr string `yaml:"addr"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Engine:    gamefeatures.EngineNotnil,
		Pieces:    placement.Symbols,
		CacheSize: opening.DefaultCacheSize,
		Batch: Batch{
			ProgressEvery: 1000,
		},
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path, if set, over the defaults, applies environment overrides
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	strs := map[string]*string{
		"CATALOGUE":      &c.Catalogue,
		"ENGINE":         &c.Engine,
		"PIECES":         &c.Pieces,
		"S3_REGION":      &c.Storage.S3Region,
		"S3_ENDPOINT":    &c.Storage.S3Endpoint,
		"POSTGRES_TABLE": &c.Output.PostgresTable,
		"REDIS_PREFIX":   &c.Output.RedisPrefix,
		"LOG_LEVEL":      &c.Log.Level,
		"LOG_FORMAT":     &c.Log.Format,
		"METRICS_ADDR":   &c.Metrics.Addr,
	}
	for key, dst := range strs {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"CACHE_SIZE":     &c.CacheSize,
		"WORKERS":        &c.Batch.Workers,
		"PROGRESS_EVERY": &c.Batch.ProgressEvery,
	}
	for key, dst := range ints {
		if v, ok := get(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, key, v, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"GRIDS":      &c.Grids,
		"STRICT":     &c.Batch.Strict,
		"LOG_CALLER": &c.Log.Caller,
	}
	for key, dst := range bools {
		if v, ok := get(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, key, v, err)
			}
			*dst = b
		}
	}

	if v, ok := get("REDIS_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sREDIS_TTL=%q: %v", ErrInvalid, EnvPrefix, v, err)
		}
		c.Output.RedisTTL = d
	}
	return nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := gamefeatures.EngineFactory(c.Engine); err != nil {
		return fmt.Errorf("%w: engine: %v", ErrInvalid, err)
	}
	if _, err := c.PieceSet(); err != nil {
		return fmt.Errorf("%w: pieces: %v", ErrInvalid, err)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size must not be negative", ErrInvalid)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("%w: batch.workers must not be negative", ErrInvalid)
	}
	if c.Batch.ProgressEvery < 0 {
		return fmt.Errorf("%w: batch.progress_every must not be negative", ErrInvalid)
	}
	if c.Output.RedisTTL < 0 {
		return fmt.Errorf("%w: output.redis_ttl must not be negative", ErrInvalid)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log.format %q (want json or console)", ErrInvalid, c.Log.Format)
	}
	return nil
}

// PieceSet parses Pieces.
func (c *Config) PieceSet() (placement.PieceSet, error) {
	return placement.NewPieceSet(c.Pieces)
}
