// Package config loads baseline's settings.
//
// Sources, later ones winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, $XDG_CONFIG_HOME/baseline/config.toml unless a path is given
//  3. a .env file in the working directory, if present
//  4. BASELINE_* environment variables
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	bserrors "github.com/matzehuels/baseline/pkg/errors"
)

const appName = "baseline"

// Cache backends.
const (
	BackendMemory = "memory"
	BackendNone   = "none"
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the accepted cache backends.
var Backends = []string{BackendMemory, BackendNone, BackendFile, BackendBolt, BackendRedis, BackendMongo}

// Duration is a time.Duration written as "30s" or "10m" in TOML.
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the full configuration.
type Config struct {
	Endpoint       string   `toml:"endpoint"`
	Timeout        Duration `toml:"timeout"`
	CatalogTTL     Duration `toml:"catalog_ttl"`
	FailureBackoff Duration `toml:"failure_backoff"`
	RetryAttempts  int      `toml:"retry_attempts"`
	RetryDelay     Duration `toml:"retry_delay"`
	Tolerance      int      `toml:"tolerance"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects the catalog cache tier.
type CacheConfig struct {
	Backend string `toml:"backend"`
	// Dir holds the file backend's entries and the bolt database. Empty
	// means $XDG_CACHE_HOME/baseline.
	Dir string `toml:"dir"`
	// Scope prefixes every key, so several deployments can share one
	// Redis or Mongo instance.
	Scope string `toml:"scope"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig configures `baseline serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	SessionTTL     Duration `toml:"session_ttl"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Endpoint:       "https://api.webstatus.dev/v1/features",
		Timeout:        Duration{10 * time.Second},
		CatalogTTL:     Duration{30 * time.Minute},
		FailureBackoff: Duration{30 * time.Second},
		RetryAttempts:  2,
		RetryDelay:     Duration{500 * time.Millisecond},
		Tolerance:      10,
		Cache: CacheConfig{
			Backend:         BackendMemory,
			RedisAddr:       "localhost:6379",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   appName,
			MongoCollection: "cache",
		},
		Server: ServerConfig{
			Addr:           ":8787",
			SessionTTL:     Duration{30 * time.Minute},
			RequestTimeout: Duration{30 * time.Second},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/baseline/config.toml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration. An empty path uses [DefaultPath], which
// may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		err := cfg.loadFile(path)
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist):
			if explicit {
				return Config{}, bserrors.Wrap(bserrors.ErrCodeFileNotFound, err, "config file %s", path)
			}
		default:
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, bserrors.Wrap(bserrors.ErrCodeInvalidConfig, err, "read .env")
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return bserrors.Wrap(bserrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return bserrors.New(bserrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// applyEnv overrides fields from BASELINE_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"BASELINE_ENDPOINT":         &c.Endpoint,
		"BASELINE_CACHE_BACKEND":    &c.Cache.Backend,
		"BASELINE_CACHE_DIR":        &c.Cache.Dir,
		"BASELINE_CACHE_SCOPE":      &c.Cache.Scope,
		"BASELINE_REDIS_ADDR":       &c.Cache.RedisAddr,
		"BASELINE_REDIS_PASSWORD":   &c.Cache.RedisPassword,
		"BASELINE_MONGO_URI":        &c.Cache.MongoURI,
		"BASELINE_MONGO_DATABASE":   &c.Cache.MongoDatabase,
		"BASELINE_MONGO_COLLECTION": &c.Cache.MongoCollection,
		"BASELINE_ADDR":             &c.Server.Addr,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"BASELINE_RETRY_ATTEMPTS": &c.RetryAttempts,
		"BASELINE_TOLERANCE":      &c.Tolerance,
		"BASELINE_REDIS_DB":       &c.Cache.RedisDB,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return bserrors.Wrap(bserrors.ErrCodeInvalidConfig, err, "%s", key)
			}
			*dst = n
		}
	}

	durations := map[string]*Duration{
		"BASELINE_TIMEOUT":         &c.Timeout,
		"BASELINE_CATALOG_TTL":     &c.CatalogTTL,
		"BASELINE_FAILURE_BACKOFF": &c.FailureBackoff,
		"BASELINE_RETRY_DELAY":     &c.RetryDelay,
		"BASELINE_SESSION_TTL":     &c.Server.SessionTTL,
		"BASELINE_REQUEST_TIMEOUT": &c.Server.RequestTimeout,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok {
			if err := dst.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
				return bserrors.Wrap(bserrors.ErrCodeInvalidConfig, err, "%s", key)
			}
		}
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if err := bserrors.ValidateURL(c.Endpoint); err != nil {
		return bserrors.Wrap(bserrors.ErrCodeInvalidConfig, err, "endpoint")
	}
	for name, d := range map[string]Duration{
		"timeout":                c.Timeout,
		"catalog_ttl":            c.CatalogTTL,
		"server.session_ttl":     c.Server.SessionTTL,
		"server.request_timeout": c.Server.RequestTimeout,
	} {
		if d.Duration <= 0 {
			return bserrors.New(bserrors.ErrCodeInvalidConfig, "%s must be positive, got %s", name, d)
		}
	}
	if c.FailureBackoff.Duration < 0 || c.RetryDelay.Duration < 0 {
		return bserrors.New(bserrors.ErrCodeInvalidConfig, "failure_backoff and retry_delay must not be negative")
	}
	if c.RetryAttempts < 1 {
		return bserrors.New(bserrors.ErrCodeInvalidConfig, "retry_attempts must be at least 1, got %d", c.RetryAttempts)
	}
	if c.Tolerance < 0 {
		return bserrors.New(bserrors.ErrCodeInvalidConfig, "tolerance must not be negative, got %d", c.Tolerance)
	}
	if !validBackend(c.Cache.Backend) {
		return bserrors.New(bserrors.ErrCodeInvalidConfig, "cache.backend %q is not one of %s", c.Cache.Backend, strings.Join(Backends, ", "))
	}
	if c.Server.Addr == "" {
		return bserrors.New(bserrors.ErrCodeInvalidConfig, "server.addr must be set")
	}
	return nil
}

func validBackend(b string) bool {
	for _, known := range Backends {
		if b == known {
			return true
		}
	}
	return false
}

// CacheDir returns the configured cache directory, or
// $XDG_CACHE_HOME/baseline (~/.cache/baseline) when unset.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}
