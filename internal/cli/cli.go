package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidemotion/pkg/buildinfo"
	"github.com/matzehuels/slidemotion/pkg/cache"
	"github.com/matzehuels/slidemotion/pkg/config"
	"github.com/matzehuels/slidemotion/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = config.AppName

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

	// status receives transient terminal output such as spinners.
	status io.Writer

	// ConfigPath overrides the default configuration file location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), status: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Slidemotion lays out and animates narrated diagram slides",
		Long: `Slidemotion positions the nodes of a motion graph for its archetype,
binds every element to the narration word that introduces it and renders the
resulting entrance animation frame by frame.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: ~/.config/slidemotion/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.tokenizeCommand())
	root.AddCommand(c.timelineCommand())
	root.AddCommand(c.framesCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.ConfigPath)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, loggerFromContext(ctx)), nil
}

// newCache opens the configured cache backend. A file cache whose directory
// cannot be resolved degrades to no caching.
func newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(cfg.Cache.RedisURL, cache.WithMaxTTL(cfg.Cache.TTL.Duration))
		if err != nil {
			return nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return nil, err
		}
		return rc, nil
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// mergeOptions layers the non-zero flag values over the configured defaults.
func mergeOptions(base, flags pipeline.Options) pipeline.Options {
	out := base
	if flags.Width > 0 {
		out.Width = flags.Width
	}
	if flags.Height > 0 {
		out.Height = flags.Height
	}
	if flags.Engine != "" {
		out.Engine = flags.Engine
	}
	if flags.Mode != "" {
		out.Mode = flags.Mode
	}
	if flags.Strict {
		out.Strict = true
	}
	if flags.FPS > 0 {
		out.FPS = flags.FPS
	}
	if flags.StaggerMs > 0 {
		out.StaggerMs = flags.StaggerMs
	}
	if flags.Format != "" {
		out.Format = flags.Format
	}
	out.FrameStart = flags.FrameStart
	out.FrameEnd = flags.FrameEnd
	out.FrameStep = flags.FrameStep
	out.Workers = flags.Workers
	out.Title = flags.Title
	out.Transparent = flags.Transparent
	out.Refresh = flags.Refresh
	return out
}

// addLayoutFlags registers the layout overrides shared by several commands.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "viewport height (default from config)")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", "general layout engine: graphviz, layered")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "layout mode: auto, general")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on node count mismatches instead of truncating")
}

// addAnimationFlags registers the animation overrides.
func addAnimationFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().IntVar(&opts.FPS, "fps", 0, "frames per second (default from config)")
	cmd.Flags().Int64Var(&opts.StaggerMs, "stagger", 0, "stagger between untimed elements in ms")
}
