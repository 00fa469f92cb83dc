package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/provgraph/internal/config"
	"github.com/matzehuels/provgraph/pkg/buildinfo"
	"github.com/matzehuels/provgraph/pkg/cache"
	"github.com/matzehuels/provgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "provgraph"

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

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer
	// Err receives progress indicators. Defaults to the log writer.
	Err io.Writer

	configFile string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    w,
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
		Short: "provgraph explores ML provenance graphs",
		Long: `provgraph lays out provenance graphs of an ML platform (data sources,
feature groups, feature views, training datasets, models and deployments).

Tiers can be collapsed into aggregate nodes, connectivity traced from any
node, and views filtered by name or type. Views are rendered to DOT, SVG,
PNG or JSON, explored in the terminal, or served over HTTP.

Without --graph, commands use a generated demo graph.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file (default: ./provgraph.yaml)")
	pf.BoolP("verbose", "v", false, "enable verbose logging")
	pf.StringP("graph", "g", "", "graph file (.json or .toml); empty uses the demo graph")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.traceCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.fixtureCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the configuration for cmd and attaches the logger to
// the command context.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, used, err := config.Load(c.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	c.cfg = cfg
	if cfg.Verbose {
		c.SetLogLevel(LogDebug)
	}
	if used != "" {
		c.Logger.Debug("loaded config", "file", used)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// settings returns the resolved configuration, falling back to defaults when
// a command runs without the root pre-run (as in tests).
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		cfg, _, err := config.Load(c.configFile, nil)
		if err != nil {
			c.Logger.Warn("using defaults", "err", err)
			cfg, _, _ = config.Load("", nil)
		}
		c.cfg = cfg
	}
	return c.cfg
}

// addLayoutFlags registers the flags that override layout and view config.
func addLayoutFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("grid", 0, "snap positions to this grid (0 disables)")
	f.Float64("column-spacing", 0, "horizontal distance between tiers")
	f.Float64("row-spacing", 0, "vertical distance between depth rows")
	f.StringSlice("collapse", nil, "tiers collapsed initially (default: trainingDataset,model)")
}

// addCacheFlags registers the flags that override cache config.
func addCacheFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("no-cache", false, "disable the artifact cache")
	f.String("cache-dir", "", "file cache directory")
	f.String("redis-addr", "", "use the Redis cache at this address")
	f.Duration("cache-ttl", 0, "lifetime of cached artifacts")
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, c.settings().Cache, c.settings().RedisConfig())
	if err != nil {
		return nil, err
	}
	// Artifacts are scoped by version so a renderer change never serves stale output.
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "v"+buildinfo.Version+":")
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// newCache picks the cache backend: none when disabled, Redis when an
// address is configured, the file cache otherwise.
func newCache(ctx context.Context, cfg config.CacheConfig, redis cache.RedisConfig) (cache.Cache, error) {
	switch {
	case cfg.Disabled:
		return cache.NewNullCache(), nil
	case cfg.RedisAddr != "":
		return cache.NewRedisCache(ctx, redis)
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/provgraph/).
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

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// pipelineOptions builds the pipeline options shared by every command from
// the resolved configuration.
func (c *CLI) pipelineOptions() pipeline.Options {
	cfg := c.settings()
	return pipeline.Options{
		Graph: cfg.Graph,
		View:  cfg.ViewConfig(),
		TTL:   cfg.Cache.TTL,
	}
}
