package pipeline

import (
	"context"

	"github.com/matzehuels/slidemotion/pkg/layout"
	"github.com/matzehuels/slidemotion/pkg/motion"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GraphEngine returns the general layout backend with the given name.
func GraphEngine(name string) (layout.GraphEngine, error) {
	if err := ValidateEngine(name); err != nil {
		return nil, err
	}
	if name == EngineLayered {
		return layout.LayeredEngine{}, nil
	}
	return layout.NewGraphvizEngine(), nil
}

// GenerateLayout positions a graph without caching. Options must have been
// validated with ValidateForLayout.
func GenerateLayout(ctx context.Context, g motion.Graph, opts Options) (layout.Result, error) {
	ge, err := GraphEngine(opts.Engine)
	if err != nil {
		return layout.Result{}, err
	}
	res, err := layout.New(layout.WithGraphEngine(ge)).Layout(ctx, g, opts.LayoutOptions())
	if err != nil {
		return layout.Result{}, err
	}
	for _, w := range res.Warnings {
		if opts.Logger == nil {
			break
		}
		opts.Logger.Warn("layout", "kind", w.Kind, "element", w.ElementID, "message", w.Message)
	}
	return res, nil
}
