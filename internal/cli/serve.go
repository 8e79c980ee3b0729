package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/factoryflow/internal/server"
	"github.com/matzehuels/factoryflow/pkg/cache"
	"github.com/matzehuels/factoryflow/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the analysis pipeline over HTTP.

Reports are cached in Redis when a Redis URL is configured, otherwise in an
in-process LRU cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	runner, err := c.newServeRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	defaults := pipeline.Options{
		InserterCapacityBonus: c.Config.InserterCapacityBonus,
		UnboundedRate:         c.Config.Sink.DefaultRate,
	}
	return server.New(runner, c.Logger, defaults).ListenAndServe(ctx, addr)
}

// newServeRunner is newRunner with an in-memory cache in place of the file
// cache.
func (c *CLI) newServeRunner(ctx context.Context) (*pipeline.Runner, error) {
	if c.noCache || c.Config.Cache.RedisURL != "" {
		return c.newRunner(ctx)
	}
	mc, err := cache.NewMemoryCache(c.Config.Cache.MemoryEntries)
	if err != nil {
		return nil, err
	}
	return c.newRunnerWithCache(mc)
}
