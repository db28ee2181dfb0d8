package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidemotion/pkg/pipeline"
)

// framesOpts holds the command-line flags for the frames command.
type framesOpts struct {
	input   inputFlags
	flags   pipeline.Options
	outDir  string
	noCache bool
}

// framesCommand creates the frames command for rendering the animation.
func (c *CLI) framesCommand() *cobra.Command {
	var o framesOpts

	cmd := &cobra.Command{
		Use:   "frames [graph.json|graph.yaml]",
		Short: "Render the animation of a slide frame by frame",
		Long: `Render the animation of a slide frame by frame.

Each frame is written as frame-NNNNN.svg (or .json with -f json) into the
output directory. By default every frame from 0 through the end of the
animation is rendered; --start, --end and --step select a subset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.flags.Format != "" {
				if err := pipeline.ValidateFormat(o.flags.Format); err != nil {
					return err
				}
			}
			return c.runFrames(cmd.Context(), args[0], o)
		},
	}

	o.input.register(cmd)
	addLayoutFlags(cmd, &o.flags)
	addAnimationFlags(cmd, &o.flags)
	cmd.Flags().StringVarP(&o.outDir, "output", "o", "", "output directory (default: <input>.frames)")
	cmd.Flags().StringVarP(&o.flags.Format, "format", "f", "", "frame format: svg (default), json")
	cmd.Flags().IntVar(&o.flags.FrameStart, "start", 0, "first frame")
	cmd.Flags().IntVar(&o.flags.FrameEnd, "end", 0, "last frame (default: end of the animation)")
	cmd.Flags().IntVar(&o.flags.FrameStep, "step", 0, "render every n-th frame")
	cmd.Flags().IntVarP(&o.flags.Workers, "workers", "w", 0, "frames rendered in parallel")
	cmd.Flags().BoolVar(&o.flags.Title, "title", false, "draw the slide title")
	cmd.Flags().BoolVar(&o.flags.Transparent, "transparent", false, "omit the SVG background fill")
	cmd.Flags().BoolVar(&o.flags.Refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runFrames(ctx context.Context, input string, o framesOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	slide, err := o.input.load(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, o.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	opts := mergeOptions(cfg.PipelineOptions(), o.flags)
	opts.Logger = logger

	prog := newProgress(logger)
	spinner := c.spinner(ctx, "Rendering frames...")

	result, err := runner.Execute(ctx, slide, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Rendering failed")
		return err
	}

	dir := o.outDir
	if dir == "" {
		dir = strings.TrimSuffix(input, filepath.Ext(input)) + ".frames"
	}
	paths, err := writeFrames(dir, result.Frames)
	if err != nil {
		spinner.StopWithError("Frames not written")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %d of %d frames", len(paths), result.Stats.DurationFrames+1))
	prog.done(fmt.Sprintf("Rendered %d frames", len(paths)))

	printFile(dir)
	printStats(slideStats{
		family:   result.Layout.Family,
		nodes:    result.Stats.NodeCount,
		edges:    result.Stats.EdgeCount,
		entries:  result.Stats.EntryCount,
		cached:   result.CacheInfo.LayoutHit,
		computed: true,
	})
	printLayoutWarnings(result.Layout.Warnings)
	printDetail("timeline %s · %d entries · %d frames cached",
		result.Timeline.Meta.Status, result.Stats.EntryCount, result.CacheInfo.FrameHits)
	printNewline()
	printNextStep("Preview", appName+" preview "+input)

	return nil
}

// writeFrames writes every frame into dir and returns the written paths.
func writeFrames(dir string, frames []pipeline.Frame) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	paths := make([]string, 0, len(frames))
	for _, f := range frames {
		path := filepath.Join(dir, frameFileName(f))
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func frameFileName(f pipeline.Frame) string {
	return fmt.Sprintf("frame-%05d.%s", f.Frame, f.Format)
}
