package layout

import (
	"context"
	"math"

	"github.com/matzehuels/slidemotion/pkg/errors"
	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/sizing"
)

// Direction is the rank direction of a layered graph layout.
type Direction string

const (
	TopToBottom Direction = "TB"
	LeftToRight Direction = "LR"
)

// DirectionOf returns the rank direction for an archetype: horizontal for
// process and cycle, vertical for everything else.
func DirectionOf(a motion.Archetype) Direction {
	switch a {
	case motion.ArchetypeProcess, motion.ArchetypeCycle:
		return LeftToRight
	}
	return TopToBottom
}

// GraphNode is a sized node handed to a GraphEngine.
type GraphNode struct {
	ID   string
	Size motion.Size
}

// GraphEdge is a directed pair handed to a GraphEngine.
type GraphEdge struct {
	Source string
	Target string
}

// GraphInput is the engine-neutral description of a general layout problem.
type GraphInput struct {
	Direction   Direction
	NodeSpacing float64
	RankSpacing float64
	Nodes       []GraphNode
	Edges       []GraphEdge
}

// GraphLayout holds node centers in an engine-defined coordinate space.
type GraphLayout struct {
	Centers map[string]motion.Point
}

// GraphEngine computes non-overlapping node centers for a sized graph.
// Implementations must be deterministic for identical inputs.
type GraphEngine interface {
	Name() string
	Layout(ctx context.Context, in GraphInput) (GraphLayout, error)
}

// layoutGeneral delegates to the engine's GraphEngine and recenters the
// bounding box of the result in the viewport. Oversized results are scaled
// down around the viewport center. When a non-layered engine fails, the
// layered engine takes over and a warning is recorded.
func layoutGeneral(ctx context.Context, e *Engine, p *plan) error {
	nodes := p.graph.Nodes
	in := GraphInput{
		Direction:   DirectionOf(p.graph.Archetype),
		NodeSpacing: p.opts.NodeSpacing,
		RankSpacing: p.opts.RankSpacing,
		Nodes:       make([]GraphNode, len(nodes)),
	}
	sizes := make([]motion.Size, len(nodes))
	for i, n := range nodes {
		sizes[i] = sizing.Estimate(n.Data)
		in.Nodes[i] = GraphNode{ID: n.ID, Size: sizes[i]}
	}
	for _, edge := range p.edges {
		in.Edges = append(in.Edges, GraphEdge{Source: edge.Source, Target: edge.Target})
	}

	engine := e.graph
	out, err := engine.Layout(ctx, in)
	if err != nil && ctx.Err() == nil {
		if _, layered := engine.(LayeredEngine); !layered {
			p.warn(WarnEngineFailure, p.graph.ID, "%s layout failed, using layered fallback: %v", engine.Name(), err)
			engine = LayeredEngine{}
			out, err = engine.Layout(ctx, in)
		}
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeLayoutFailed, err, "%s layout of %q", engine.Name(), p.graph.ID)
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, n := range nodes {
		c, ok := out.Centers[n.ID]
		if !ok {
			return errors.New(errors.ErrCodeLayoutFailed, "%s layout returned no position for %q", engine.Name(), n.ID)
		}
		minX = math.Min(minX, c.X-sizes[i].Width/2)
		maxX = math.Max(maxX, c.X+sizes[i].Width/2)
		minY = math.Min(minY, c.Y-sizes[i].Height/2)
		maxY = math.Max(maxY, c.Y+sizes[i].Height/2)
	}

	bw, bh := maxX-minX, maxY-minY
	vc := p.avail.center()
	dx := vc.X - (minX + bw/2)
	dy := vc.Y - (minY + bh/2)
	for i, n := range nodes {
		c := out.Centers[n.ID]
		nodes[i].Position = point(c.X+dx-sizes[i].Width/2, c.Y+dy-sizes[i].Height/2)
		nodes[i].NodeSize = size(sizes[i].Width, sizes[i].Height)
	}

	p.result.Natural = motion.Size{Width: round2(bw), Height: round2(bh)}
	if scale := FlowScale(p.result.Natural, p.avail.W, p.avail.H); scale < 1 {
		p.result.Transform = Transform{
			Scale:      scale,
			TranslateX: round2(vc.X * (1 - scale)),
			TranslateY: round2(vc.Y * (1 - scale)),
		}
		p.checkOverflow(bw*scale, bh*scale)
	}
	return nil
}
