// Package cli implements the wavedrom command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/internal/config"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/buildinfo"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/cache"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/emit"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "wavedrom"

	// redisPingTimeout bounds the reachability probe before a build
	// falls back to running uncached.
	redisPingTimeout = 2 * time.Second
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

	// ConfigPath is the --config flag value; empty means the default
	// search order (user config, then project wavedrom.toml).
	ConfigPath string
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
		Use:          "wavedrom",
		Short:        "Wavedrom renders WaveJSON timing diagrams for documentation builds",
		Long:         `Wavedrom renders WaveJSON timing diagrams into SVG and PNG artifacts plus the HTML or LaTeX markup that references them, splitting long waveforms into page-sized segments along the way.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "path to config file")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.segmentCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves and loads the configuration honoring --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, path, exists, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	if exists {
		c.Logger.Debug("loaded config", "path", path)
	} else {
		c.Logger.Debug("no config file, using defaults", "searched", path)
	}
	return cfg, nil
}

// =============================================================================
// Emitter Factory
// =============================================================================

// newEmitter creates a diagram emitter for CLI use.
func (c *CLI) newEmitter(ctx context.Context, cfg *config.Config, noCache bool) (*emit.Emitter, error) {
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return &emit.Emitter{
		Renderer: cfg.NewRenderer(),
		Cache:    store,
		Logger:   c.Logger,
		ImageDir: cfg.ImageDir,
		DPI:      cfg.DPI,
		Skin:     cfg.Skin,
		Restyle:  cfg.RestyleOptions(),
	}, nil
}

// newCache selects the artifact cache backend. An unreachable Redis
// degrades to running uncached rather than failing the build.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}

	if cfg.Cache.Backend == "redis" {
		rc := cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			c.Logger.Warn("redis cache unreachable, continuing without cache",
				"addr", cfg.Cache.RedisAddr, "err", err)
			_ = rc.Close()
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}

	dir, err := resolveCacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/wavedrom/).
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
