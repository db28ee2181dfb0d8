package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/pipeline"
)

// layoutCommand creates the layout command for positioning a motion graph.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	var flags pipeline.Options

	cmd := &cobra.Command{
		Use:   "layout [graph.json|graph.yaml]",
		Short: "Position the nodes of a motion graph",
		Long: `Position the nodes of a motion graph.

The layout command reads a motion graph, picks the layout family for its
archetype and writes the positioned graph together with the rendering
geometry (edge paths, connectors, quadrant headers) as <input>.layout.json.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &flags)

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, flags pipeline.Options, output string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	g, err := motion.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	opts := mergeOptions(cfg.PipelineOptions(), flags)
	opts.Logger = logger

	spinner := c.spinner(ctx, "Computing %s layout...", g.Archetype)
	res, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}

	path := outputPath(output, input, ".layout.json")
	if err := writeJSON(path, res); err != nil {
		spinner.StopWithError("Layout not written")
		return fmt.Errorf("write output %s: %w", path, err)
	}
	spinner.StopWithSuccess("Layout complete")
	logger.Debug("layout written", "path", path, "cached", cacheHit, "warnings", len(res.Warnings))

	printFile(path)
	printStats(slideStats{family: res.Family, nodes: len(res.Graph.Nodes), edges: len(res.Edges), cached: cacheHit, computed: true})
	printLayoutWarnings(res.Warnings)
	printNewline()
	printNextStep("Render", appName+" frames "+input)

	return nil
}

// validateCommand checks a motion graph without laying it out.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [graph.json|graph.yaml]",
		Short: "Check a motion graph for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := motion.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			issues := motion.Check(g)
			for _, is := range issues {
				printWarning("%s", is.Message)
			}
			if err := motion.Validate(g); err != nil {
				return err
			}
			if len(issues) == 0 {
				printSuccess("%s is valid", args[0])
			} else {
				printInfo("%s is usable with %d warnings", args[0], len(issues))
			}
			printStats(slideStats{nodes: len(g.Nodes), edges: len(g.Edges)})
			return nil
		},
	}
}
