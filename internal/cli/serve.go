package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blobgeom/internal/server"
	"github.com/matzehuels/blobgeom/pkg/cache"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		origins   []string
		keyPrefix string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the blob pipeline over HTTP",
		Long: `Serve the blob pipeline over HTTP.

Scenes are kept in memory and written through to the cache. Set
BLOBGEOM_REDIS_ADDR to share scenes and frames between several instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			if keyPrefix != "" {
				runner.Keyer = cache.NewScopedKeyer(runner.Keyer, keyPrefix)
			}

			srv := server.New(server.Config{
				Addr:           addr,
				AllowedOrigins: origins,
				Runner:         runner,
				Logger:         loggerFromContext(ctx),
			})
			printInfo("%s listening on %s", StyleTitle.Render(appName), StyleHighlight.Render(addr))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "allowed CORS origins (default: all)")
	cmd.Flags().StringVar(&keyPrefix, "key-prefix", "", "prefix for cache keys when sharing a backend")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching and scene persistence")

	return cmd
}
