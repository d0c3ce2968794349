package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/baseline/internal/config"
	"github.com/matzehuels/baseline/pkg/buildinfo"
	"github.com/matzehuels/baseline/pkg/cache"
	"github.com/matzehuels/baseline/pkg/detect"
	"github.com/matzehuels/baseline/pkg/integrations/webstatus"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "baseline"

	// boltFile is the bolt backend's database inside the cache directory.
	boltFile = "catalog.db"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Baseline reports which web platform features your CSS and JavaScript use",
		Long: `Baseline scans CSS, JavaScript and TypeScript for modern web platform
features and reports their Baseline status (widely available, newly
available or limited) using the web-features catalog from webstatus.dev.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/baseline/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.hoverCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.featuresCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// setup loads the configuration and attaches the logger to the context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Engine Factory
// =============================================================================

// engine is the wired detection stack one command works with.
type engine struct {
	cache    cache.Cache
	client   *webstatus.Client
	detector *detect.Detector
}

func (e *engine) Close() error {
	return e.cache.Close()
}

// newEngine builds the metadata client and detector from the loaded config.
// noCache disables the backing tier; the in-process snapshot still applies.
func (c *CLI) newEngine(ctx context.Context, noCache bool) (*engine, error) {
	backend := c.cfg.Cache.Backend
	if noCache {
		backend = config.BackendNone
	}
	store, err := newCache(ctx, c.cfg, backend)
	if err != nil {
		return nil, err
	}

	var keyer cache.Keyer
	if c.cfg.Cache.Scope != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.cfg.Cache.Scope)
	}

	client := webstatus.NewClient(store, webstatus.Options{
		Endpoint:       c.cfg.Endpoint,
		TTL:            c.cfg.CatalogTTL.Duration,
		Timeout:        c.cfg.Timeout.Duration,
		FailureBackoff: c.cfg.FailureBackoff.Duration,
		RetryAttempts:  c.cfg.RetryAttempts,
		RetryDelay:     c.cfg.RetryDelay.Duration,
		Keyer:          keyer,
		Logger:         c.Logger,
	})
	d := detect.New(client,
		detect.WithTolerance(c.cfg.Tolerance),
		detect.WithLogger(c.Logger),
	)
	return &engine{cache: store, client: client, detector: d}, nil
}

// newCache opens the catalog cache tier for backend.
func newCache(ctx context.Context, cfg config.Config, backend string) (cache.Cache, error) {
	switch backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendMemory:
		return cache.NewMemoryCache(), nil
	case config.BackendFile:
		dir, err := cfg.CacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	case config.BackendBolt:
		dir, err := cfg.CacheDir()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		return cache.NewBoltCache(filepath.Join(dir, boltFile))
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	case config.BackendMongo:
		return cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:        cfg.Cache.MongoURI,
			Database:   cfg.Cache.MongoDatabase,
			Collection: cfg.Cache.MongoCollection,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
