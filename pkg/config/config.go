// Package config loads factoryflow settings.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, either given explicitly or found at [DefaultPath]
//  3. FACTORYFLOW_* environment variables, after loading a .env file from
//     the working directory
//
// A config file looks like:
//
//	inserter_capacity_bonus = 2
//	catalog = "data/recipes.toml"
//
//	[cache]
//	dir = "/var/cache/factoryflow"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "12h"
//	memory_entries = 512
//
//	[server]
//	addr = ":8080"
//
//	[sink]
//	default_rate = 10000
//
// The loaded [Config] is passed explicitly to the components that need it;
// nothing in this package is global.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/factoryflow/pkg/cache"
	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/network"
)

// Environment variables read by [Load].
const (
	EnvInserterBonus = "FACTORYFLOW_INSERTER_BONUS"
	EnvCatalog       = "FACTORYFLOW_CATALOG"
	EnvRedisURL      = "FACTORYFLOW_REDIS_URL"
	EnvCacheDir      = "FACTORYFLOW_CACHE_DIR"
	EnvCacheTTL      = "FACTORYFLOW_CACHE_TTL"
	EnvAddr          = "FACTORYFLOW_ADDR"
	EnvSinkRate      = "FACTORYFLOW_SINK_RATE"
)

// Config holds every tunable setting.
type Config struct {
	// InserterCapacityBonus is the researched inserter capacity bonus, 0..7.
	InserterCapacityBonus int `toml:"inserter_capacity_bonus"`

	// CatalogPath points at a TOML or data-raw JSON catalog. Empty selects
	// the embedded vanilla catalog.
	CatalogPath string `toml:"catalog"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Sink   SinkConfig   `toml:"sink"`
}

// CacheConfig selects and tunes the report cache.
type CacheConfig struct {
	Dir           string        `toml:"dir"`
	RedisURL      string        `toml:"redis_url"` // takes precedence over Dir when set
	TTL           time.Duration `toml:"ttl"`
	MemoryEntries int           `toml:"memory_entries"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// SinkConfig configures sinks without a rate of their own.
type SinkConfig struct {
	DefaultRate float64 `toml:"default_rate"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			TTL:           cache.TTLReport,
			MemoryEntries: cache.DefaultMemoryEntries,
		},
		Server: ServerConfig{Addr: ":8080"},
		Sink:   SinkConfig{DefaultRate: network.DefaultUnboundedRate},
	}
}

// DefaultPath returns ~/.config/factoryflow/config.toml, or "" when the
// user config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "factoryflow", "config.toml")
}

// Load reads the configuration. An explicit path must exist; when path is
// empty the file at [DefaultPath] is used if present.
func Load(path string) (Config, error) {
	if err := loadDotenv(dotenvFile); err != nil {
		return Config{}, err
	}

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			err = cfg.decode(f)
			f.Close()
			if err != nil {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
			}
		case os.IsNotExist(err) && !explicit:
		case os.IsNotExist(err):
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		default:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config %s", path)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// dotenvFile is read from the working directory before the environment is
// consulted.
const dotenvFile = ".env"

// loadDotenv exports the variables in path without overriding ones already
// set. A missing file is not an error; a malformed one is.
func loadDotenv(path string) error {
	err := godotenv.Load(path)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
}

// Decode reads TOML settings from r on top of the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	return cfg, cfg.Validate()
}

func (c *Config) decode(r io.Reader) error {
	_, err := toml.NewDecoder(r).Decode(c)
	return err
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvInserterBonus); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvInserterBonus)
		}
		c.InserterCapacityBonus = n
	}
	if v := getenv(EnvCatalog); v != "" {
		c.CatalogPath = v
	}
	if v := getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
	if v := getenv(EnvCacheTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvCacheTTL)
		}
		c.Cache.TTL = d
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvSinkRate); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvSinkRate)
		}
		c.Sink.DefaultRate = f
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := errors.ValidateCapacityBonus(c.InserterCapacityBonus); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if c.Cache.MemoryEntries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache memory_entries must not be negative")
	}
	if c.Sink.DefaultRate <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "sink default_rate must be positive")
	}
	return nil
}
