package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blobgeom/pkg/buildinfo"
	"github.com/matzehuels/blobgeom/pkg/cache"
	"github.com/matzehuels/blobgeom/pkg/pipeline"
	"github.com/matzehuels/blobgeom/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "blobgeom"

	// envRedisAddr selects a shared Redis cache instead of the file cache.
	envRedisAddr = "BLOBGEOM_REDIS_ADDR"

	// envRedisPassword is the optional Redis password.
	envRedisPassword = "BLOBGEOM_REDIS_PASSWORD"
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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Blobgeom turns circles into organic blob outlines",
		Long:         `Blobgeom groups circles into clusters, joins them with metaball bridges, deforms the merged outlines into star-like blobs and scatters decorations inside them.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.contourCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.fillCommand())
	root.AddCommand(c.skeletonCommand())
	root.AddCommand(c.initCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

// newCache picks the cache backend: none, Redis when BLOBGEOM_REDIS_ADDR is
// set, otherwise a file cache under the user cache directory.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := os.Getenv(envRedisAddr); addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     addr,
			Password: os.Getenv(envRedisPassword),
		})
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		c.Logger.Debug("using redis cache", "addr", addr)
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/blobgeom/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// frameFlags overrides scene options from the command line. Only flags the
// user set are applied, so scene values survive otherwise.
type frameFlags struct {
	closeness   float64
	dissolve    float64
	outerOffset float64
	roundness   float64
	wings       int
	seed        uint64
	fillSource  string
	noCache     bool
	refresh     bool
}

func (f *frameFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.closeness, "closeness", 0, "cluster closeness in [0, 1]")
	cmd.Flags().Float64Var(&f.dissolve, "dissolve", 0, "dissolve progress in [0, 1]")
	cmd.Flags().Float64Var(&f.outerOffset, "outer-offset", 0, "star outer offset ratio in [0, 1]")
	cmd.Flags().Float64Var(&f.roundness, "roundness", 0, "star wing roundness in [0, 1]")
	cmd.Flags().IntVar(&f.wings, "wings", 0, "star wing count per contour")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "decoration random seed")
	cmd.Flags().StringVar(&f.fillSource, "fill-source", "", "decoration source: contour (default), field")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
}

// options returns the scene options with changed flags applied.
func (f *frameFlags) options(cmd *cobra.Command, sc *scene.Scene) pipeline.Options {
	opts := sc.Options()
	opts.SetDefaults()
	changed := cmd.Flags().Changed
	if changed("closeness") {
		opts.Cluster.Closeness = f.closeness
	}
	if changed("dissolve") {
		opts.Dissolve = f.dissolve
	}
	if changed("outer-offset") {
		opts.Star.OuterOffsetRatio = f.outerOffset
	}
	if changed("roundness") {
		opts.Star.Roundness = f.roundness
	}
	if changed("wings") {
		opts.Star.WingCount = f.wings
	}
	if changed("seed") {
		opts.Fill.Seed = f.seed
	}
	if changed("fill-source") {
		opts.FillSource = f.fillSource
	}
	opts.Refresh = f.refresh
	return opts
}

// loadScene reads a scene file and wraps errors with the path.
func loadScene(path string) (*scene.Scene, error) {
	sc, err := scene.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	return sc, nil
}
