package layout

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/slidemotion/pkg/motion"
)

// pointsPerInch converts design-canvas units to Graphviz inches. Graphviz
// reports positions in points, so one canvas unit maps to one point.
const pointsPerInch = 72.0

// GraphvizEngine lays out graphs with the Graphviz dot algorithm.
type GraphvizEngine struct{}

// NewGraphvizEngine returns a Graphviz-backed GraphEngine.
func NewGraphvizEngine() GraphvizEngine { return GraphvizEngine{} }

// Name implements GraphEngine.
func (GraphvizEngine) Name() string { return "graphviz" }

// Layout implements GraphEngine. Node ids are replaced by positional names in
// the generated DOT so arbitrary ids need no escaping.
func (GraphvizEngine) Layout(ctx context.Context, in GraphInput) (GraphLayout, error) {
	if len(in.Nodes) == 0 {
		return GraphLayout{Centers: map[string]motion.Point{}}, nil
	}
	dot := ToDOT(in)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return GraphLayout{}, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return GraphLayout{}, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return GraphLayout{}, fmt.Errorf("render: %w", err)
	}
	return parsePositions(buf.Bytes(), in)
}

// ToDOT builds the DOT source for a general layout problem. Nodes are fixed
// size boxes named n0..nK in input order.
func ToDOT(in GraphInput) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", in.Direction)
	fmt.Fprintf(&buf, "  nodesep=%.4f;\n", in.NodeSpacing/pointsPerInch)
	fmt.Fprintf(&buf, "  ranksep=%.4f;\n", in.RankSpacing/pointsPerInch)
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	idx := make(map[string]int, len(in.Nodes))
	for i, n := range in.Nodes {
		idx[n.ID] = i
		fmt.Fprintf(&buf, "  n%d [width=%.4f, height=%.4f];\n",
			i, n.Size.Width/pointsPerInch, n.Size.Height/pointsPerInch)
	}

	buf.WriteString("\n")
	for _, e := range in.Edges {
		s, ok1 := idx[e.Source]
		t, ok2 := idx[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", s, t)
	}

	buf.WriteString("}\n")
	return buf.String()
}

var (
	bbRe   = regexp.MustCompile(`bb="([-0-9.e+]+),([-0-9.e+]+),([-0-9.e+]+),([-0-9.e+]+)"`)
	nodeRe = regexp.MustCompile(`(?m)^\s*n(\d+)\s*\[([^\]]*)\]`)
	posRe  = regexp.MustCompile(`pos="([-0-9.e+]+),([-0-9.e+]+)"`)
)

// parsePositions reads node positions from laid-out DOT output and flips the
// y axis, since Graphviz puts the origin at the bottom left.
func parsePositions(out []byte, in GraphInput) (GraphLayout, error) {
	m := bbRe.FindSubmatch(out)
	if m == nil {
		return GraphLayout{}, fmt.Errorf("graphviz output has no bounding box")
	}
	top, err := strconv.ParseFloat(string(m[4]), 64)
	if err != nil {
		return GraphLayout{}, fmt.Errorf("parse bounding box: %w", err)
	}

	centers := make(map[string]motion.Point, len(in.Nodes))
	for _, nm := range nodeRe.FindAllSubmatch(out, -1) {
		i, err := strconv.Atoi(string(nm[1]))
		if err != nil || i >= len(in.Nodes) {
			continue
		}
		pm := posRe.FindSubmatch(nm[2])
		if pm == nil {
			continue
		}
		x, errX := strconv.ParseFloat(string(pm[1]), 64)
		y, errY := strconv.ParseFloat(string(pm[2]), 64)
		if errX != nil || errY != nil {
			return GraphLayout{}, fmt.Errorf("parse position of n%d: %q", i, pm[0])
		}
		centers[in.Nodes[i].ID] = motion.Point{X: x, Y: top - y}
	}
	if len(centers) != len(in.Nodes) {
		return GraphLayout{}, fmt.Errorf("graphviz positioned %d of %d nodes", len(centers), len(in.Nodes))
	}
	return GraphLayout{Centers: centers}, nil
}
