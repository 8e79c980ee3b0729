// Package cli implements the factoryflow command-line interface.
//
// # Commands
//
//   - analyze: estimate throughput and report bottlenecks for blueprints
//   - render: draw the compacted production graph as DOT or SVG
//   - inspect: browse the analysed nodes interactively
//   - serve: run the HTTP API
//   - cache: manage the local report cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/factoryflow/pkg/buildinfo"
	"github.com/matzehuels/factoryflow/pkg/cache"
	"github.com/matzehuels/factoryflow/pkg/config"
	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/observability"
	"github.com/matzehuels/factoryflow/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and cache prefixes.
	appName = "factoryflow"

	// redisPrefix namespaces factoryflow keys in a shared Redis.
	redisPrefix = appName + ":"
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
	Config config.Config

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
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
		Short: "Factoryflow finds the bottlenecks in Factorio blueprints",
		Long: `Factoryflow reads a Factorio blueprint, turns its belts, inserters and
assemblers into a production graph and estimates how many items per second
flow through every entity. Saturated entities are reported as bottlenecks.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the report cache")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and wires logging before any command runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return c.newRunnerWithCache(ch)
}

// newRunnerWithCache creates a runner over ch using the configured catalog.
// ch is closed if the catalog cannot be loaded.
func (c *CLI) newRunnerWithCache(ch cache.Cache) (*pipeline.Runner, error) {
	cat, hash, err := pipeline.OpenCatalog(c.Config.CatalogPath)
	if err != nil {
		ch.Close()
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.Catalog = cat
	r.CatalogHash = hash
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

// newCache selects Redis when configured, the file cache otherwise. A file
// cache that cannot be created disables caching instead of failing the run.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	if url := c.Config.Cache.RedisURL; url != "" {
		rc, err := cache.NewRedisCache(ctx, url, redisPrefix)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "connect to redis")
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// cacheDir returns the configured cache directory or the per-user default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions returns run options seeded from the configuration.
func (c *CLI) pipelineOptions(blueprint string) pipeline.Options {
	return pipeline.Options{
		Blueprint:             blueprint,
		InserterCapacityBonus: c.Config.InserterCapacityBonus,
		UnboundedRate:         c.Config.Sink.DefaultRate,
		Logger:                c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// readBlueprint reads a blueprint file, or standard input for "-".
func readBlueprint(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "blueprint %s", path)
		}
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read blueprint %s", path)
	}
	return string(data), nil
}
