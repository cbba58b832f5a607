package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weftworks/liftplan/internal/server"
	"github.com/weftworks/liftplan/pkg/cache"
	"github.com/weftworks/liftplan/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP upload server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, cacheBackend, redisAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the lift plan upload server",
		Long: `Serve starts an HTTP server that accepts treadling and tie-up uploads on
POST /liftplan and responds with the rendered lift plan. Flags override the
[server] section of liftplan.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if cacheBackend == "" {
				cacheBackend = c.Config.Server.Cache
			}
			if redisAddr == "" {
				redisAddr = c.Config.Server.RedisAddr
			}

			store, err := c.newServerCache(cmd, cacheBackend, redisAddr)
			if err != nil {
				return err
			}
			defer store.Close()

			runner := pipeline.NewRunner(store, c.Logger)
			return server.New(runner, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config or :8080)")
	cmd.Flags().StringVar(&cacheBackend, "cache", "", "artifact cache backend: none, file, redis (default: config or file)")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "redis address for --cache=redis")

	return cmd
}

func (c *CLI) newServerCache(cmd *cobra.Command, backend, redisAddr string) (cache.Cache, error) {
	switch backend {
	case "none":
		return cache.NewNullCache(), nil
	case "file":
		dir, err := cacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	case "redis":
		c.Logger.Info("connecting to redis", "addr", redisAddr)
		return cache.NewRedisCache(cmd.Context(), redisAddr)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (must be 'none', 'file', or 'redis')", backend)
	}
}
