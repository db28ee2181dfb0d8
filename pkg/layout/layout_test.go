package layout

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/slidemotion/pkg/errors"
	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/sizing"
)

const eps = 0.011

func graphOf(a motion.Archetype, labels ...string) motion.Graph {
	g := motion.Graph{ID: "g", Archetype: a}
	for i, l := range labels {
		g.Nodes = append(g.Nodes, motion.Node{ID: fmt.Sprintf("n%d", i), Data: motion.NodeData{Label: l}})
	}
	return g
}

func chain(g motion.Graph) motion.Graph {
	for i := 1; i < len(g.Nodes); i++ {
		g.Edges = append(g.Edges, motion.Edge{
			ID:     fmt.Sprintf("e%d", i),
			Source: g.Nodes[i-1].ID,
			Target: g.Nodes[i].ID,
		})
	}
	return g
}

func mustLayout(t *testing.T, e *Engine, g motion.Graph, opts Options) Result {
	t.Helper()
	res, err := e.Layout(context.Background(), g, opts)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return res
}

func TestFamilyOf(t *testing.T) {
	tests := map[motion.Archetype]Family{
		motion.ArchetypeProcess:      FamilyFlow,
		motion.ArchetypeCycle:        FamilyFlow,
		motion.ArchetypeTimeline:     FamilyFlow,
		motion.ArchetypeHierarchy:    FamilyStack,
		motion.ArchetypeFunnel:       FamilyStack,
		motion.ArchetypePyramid:      FamilyStack,
		motion.ArchetypeGrid:         FamilyGrid,
		motion.ArchetypeComparison:   FamilyGrid,
		motion.ArchetypeMindmap:      FamilyRadial,
		motion.ArchetypeMatrix:       FamilyMatrix,
		motion.ArchetypeArchitecture: FamilyGeneral,
		motion.ArchetypeCode:         FamilyGeneral,
	}
	for a, want := range tests {
		if got := FamilyOf(a); got != want {
			t.Errorf("FamilyOf(%s) = %s, want %s", a, got, want)
		}
	}
	for _, a := range motion.Archetypes {
		if _, ok := handlers[FamilyOf(a)]; !ok {
			t.Errorf("no handler for archetype %s", a)
		}
	}
}

func TestProcessThreeNodes(t *testing.T) {
	g := graphOf(motion.ArchetypeProcess, "Plan", "Build", "Ship")
	res := mustLayout(t, New(), g, Options{})

	if res.Family != FamilyFlow {
		t.Fatalf("family = %s", res.Family)
	}
	if res.Transform.Scale != 1 {
		t.Errorf("scale = %v, want 1", res.Transform.Scale)
	}

	want := sizing.NormalizeNodes(g.Nodes)
	var gaps []float64
	for i, n := range res.Graph.Nodes {
		if *n.NodeSize != want {
			t.Errorf("node %d size = %+v, want %+v", i, *n.NodeSize, want)
		}
		if n.Position.Y != 0 {
			t.Errorf("node %d y = %v, want 0", i, n.Position.Y)
		}
		if i > 0 {
			prev := res.Graph.Nodes[i-1]
			gap := n.Position.X - (prev.Position.X + prev.NodeSize.Width)
			if gap <= 0 {
				t.Errorf("node %d not right of node %d", i, i-1)
			}
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) != 2 || math.Abs(gaps[0]-gaps[1]) > eps || math.Abs(gaps[0]-ArrowSlot) > eps {
		t.Errorf("gaps = %v, want two gaps of %v", gaps, ArrowSlot)
	}
	if len(res.Connectors) != 2 {
		t.Errorf("connectors = %d, want 2", len(res.Connectors))
	}

	// Row is centered in the viewport.
	left := res.Absolute(*res.Graph.Nodes[0].Position)
	last := res.Graph.Nodes[2]
	right := res.Absolute(motion.Point{X: last.Position.X + last.NodeSize.Width})
	if math.Abs(left.X-(DefaultViewportWidth-right.X)) > eps {
		t.Errorf("row not centered: left %v right %v", left.X, right.X)
	}
}

func TestFlowFitGuarantee(t *testing.T) {
	long := strings.Repeat("Extraordinarily long step label ", 4)
	for _, a := range []motion.Archetype{motion.ArchetypeProcess, motion.ArchetypeCycle, motion.ArchetypeTimeline} {
		for n := 1; n <= 12; n++ {
			labels := make([]string, n)
			for i := range labels {
				labels[i] = long
			}
			opts := Options{}
			res := mustLayout(t, New(), graphOf(a, labels...), opts)
			opts.SetDefaults()
			avail := opts.available()

			s := res.Transform.Scale
			if s > 1 || s < MinFlowScale {
				t.Errorf("%s n=%d: scale %v outside [%v, 1]", a, n, s, MinFlowScale)
			}
			if s*res.Natural.Width > avail.W+eps || s*res.Natural.Height > avail.H+eps {
				t.Errorf("%s n=%d: scaled %vx%v exceeds %vx%v", a, n,
					s*res.Natural.Width, s*res.Natural.Height, avail.W, avail.H)
			}
			for _, w := range res.Warnings {
				if w.Kind == WarnOverflow {
					t.Errorf("%s n=%d: unexpected overflow warning", a, n)
				}
			}
		}
	}
}

func TestFlowScale(t *testing.T) {
	tests := []struct {
		natural motion.Size
		w, h    float64
		want    float64
	}{
		{motion.Size{Width: 500, Height: 100}, 1000, 1000, 1},
		{motion.Size{Width: 2000, Height: 100}, 1000, 1000, 0.5},
		{motion.Size{Width: 100, Height: 4000}, 1000, 1000, 0.35},
		{motion.Size{Width: 1000, Height: 500}, 1000, 250, 0.5},
		{motion.Size{}, 1000, 1000, 1},
	}
	for _, tt := range tests {
		if got := FlowScale(tt.natural, tt.w, tt.h); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("FlowScale(%+v, %v, %v) = %v, want %v", tt.natural, tt.w, tt.h, got, tt.want)
		}
	}
}

func TestCycleReturnSlot(t *testing.T) {
	g := graphOf(motion.ArchetypeCycle, "a", "b", "c", "d")
	res := mustLayout(t, New(), g, Options{})
	if len(res.Connectors) != 4 {
		t.Fatalf("connectors = %d, want 4", len(res.Connectors))
	}
	ret := res.Connectors[3]
	if !ret.Return || ret.Before != "n3" || ret.After != "n0" {
		t.Errorf("return connector = %+v", ret)
	}
	card := res.Graph.Nodes[0].NodeSize.Width
	if want := 4*card + 4*ArrowSlot; math.Abs(res.Natural.Width-want) > eps {
		t.Errorf("natural width = %v, want %v", res.Natural.Width, want)
	}
}

func TestStackTapers(t *testing.T) {
	labels := []string{"Awareness", "Interest", "Decision", "Action"}

	funnel := mustLayout(t, New(), graphOf(motion.ArchetypeFunnel, labels...), Options{})
	for i := 1; i < len(labels); i++ {
		if funnel.Graph.Nodes[i].NodeSize.Width >= funnel.Graph.Nodes[i-1].NodeSize.Width {
			t.Errorf("funnel row %d not narrower than row %d", i, i-1)
		}
	}

	pyramid := mustLayout(t, New(), graphOf(motion.ArchetypePyramid, labels...), Options{})
	for i := 1; i < len(labels); i++ {
		if pyramid.Graph.Nodes[i].NodeSize.Width <= pyramid.Graph.Nodes[i-1].NodeSize.Width {
			t.Errorf("pyramid row %d not wider than row %d", i, i-1)
		}
	}

	hierarchy := mustLayout(t, New(), graphOf(motion.ArchetypeHierarchy, labels...), Options{})
	for i, n := range hierarchy.Graph.Nodes {
		if i > 0 && n.Position.Y <= hierarchy.Graph.Nodes[i-1].Position.Y {
			t.Errorf("hierarchy row %d not below row %d", i, i-1)
		}
		center := n.Position.X + n.NodeSize.Width/2
		if math.Abs(center-DefaultViewportWidth/2) > eps {
			t.Errorf("row %d center = %v, want %v", i, center, DefaultViewportWidth/2)
		}
	}
	if hierarchy.Transform != Identity {
		t.Errorf("stack must not use a geometric transform: %+v", hierarchy.Transform)
	}
}

func TestTaperFactor(t *testing.T) {
	if got := TaperFactor(motion.ArchetypeFunnel, 0, 5); got != 1 {
		t.Errorf("funnel top = %v, want 1", got)
	}
	if got := TaperFactor(motion.ArchetypePyramid, 4, 5); got != 1 {
		t.Errorf("pyramid bottom = %v, want 1", got)
	}
	if got := TaperFactor(motion.ArchetypeFunnel, 100, 101); got != MinTaperFactor {
		t.Errorf("deep funnel = %v, want %v", got, MinTaperFactor)
	}
	if got := TaperFactor(motion.ArchetypeHierarchy, 3, 5); got != 1 {
		t.Errorf("hierarchy = %v, want 1", got)
	}
}

func TestDensityScale(t *testing.T) {
	tests := []struct {
		avail float64
		n     int
		want  float64
	}{
		{952, 3, 1},
		{952, 10, 952.0 / 1200},
		{952, 40, MinDensityScale},
		{952, 0, 1},
	}
	for _, tt := range tests {
		if got := DensityScale(tt.avail, tt.n, BaseRowHeight); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DensityScale(%v, %d) = %v, want %v", tt.avail, tt.n, got, tt.want)
		}
	}

	res := mustLayout(t, New(), graphOf(motion.ArchetypeHierarchy, make([]string, 10)...), Options{})
	if res.Density.Scale >= 1 || res.Density.FontSize >= BaseFontSize {
		t.Errorf("10 rows should shrink density: %+v", res.Density)
	}
}

func TestGridLayout(t *testing.T) {
	for n := 1; n <= 7; n++ {
		cols, rows := GridShape(n)
		if cols > GridColumns || rows != int(math.Ceil(float64(n)/2)) {
			t.Errorf("GridShape(%d) = %d, %d", n, cols, rows)
		}
	}

	res := mustLayout(t, New(), graphOf(motion.ArchetypeGrid, "a", "b", "c", "d", "e"), Options{})
	nodes := res.Graph.Nodes
	if nodes[0].Position.Y != nodes[1].Position.Y || nodes[0].Position.X >= nodes[1].Position.X {
		t.Errorf("first row misplaced: %+v %+v", nodes[0].Position, nodes[1].Position)
	}
	if nodes[2].Position.X != nodes[0].Position.X || nodes[2].Position.Y <= nodes[0].Position.Y {
		t.Errorf("second row misplaced: %+v", nodes[2].Position)
	}
	if nodes[4].Position.X != nodes[0].Position.X {
		t.Errorf("odd node should start a row in column 0: %+v", nodes[4].Position)
	}
}

func TestRadialLayout(t *testing.T) {
	t.Run("symmetric", func(t *testing.T) {
		res := mustLayout(t, New(), graphOf(motion.ArchetypeMindmap, "Hub", "A", "B"), Options{})
		if res.Radial == nil || res.Radial.Hub != "n0" {
			t.Fatalf("radial = %+v", res.Radial)
		}
		if math.Abs(res.Radial.OffsetY) > eps {
			t.Errorf("two orbit nodes are symmetric, offset = %v", res.Radial.OffsetY)
		}
	})

	t.Run("three orbit nodes", func(t *testing.T) {
		res := mustLayout(t, New(), graphOf(motion.ArchetypeMindmap, "Hub", "A", "B", "C"), Options{})
		// Orbit centers at -R, R/2, R/2: extent midpoint is -R/4, so the figure moves down by R/4.
		if want := MindmapRadius / 4; math.Abs(res.Radial.OffsetY-want) > eps {
			t.Errorf("offset = %v, want %v", res.Radial.OffsetY, want)
		}
		hub := res.Graph.Nodes[0]
		hc := centerOf(hub)
		if math.Abs(hc.X-DefaultViewportWidth/2) > eps {
			t.Errorf("hub x = %v", hc.X)
		}
		for i, n := range res.Graph.Nodes[1:] {
			c := centerOf(n)
			if d := math.Hypot(c.X-hc.X, c.Y-hc.Y); math.Abs(d-MindmapRadius) > 0.05 {
				t.Errorf("orbit node %d at distance %v, want %v", i, d, MindmapRadius)
			}
		}
		first := centerOf(res.Graph.Nodes[1])
		if math.Abs(first.X-hc.X) > eps || first.Y >= hc.Y {
			t.Errorf("first orbit node should be straight above the hub: %+v", first)
		}
	})

	t.Run("hub only", func(t *testing.T) {
		res := mustLayout(t, New(), graphOf(motion.ArchetypeMindmap, "Alone"), Options{})
		if res.Radial.OffsetY != 0 {
			t.Errorf("offset = %v", res.Radial.OffsetY)
		}
	})
}

func TestMatrixQuadrants(t *testing.T) {
	res := mustLayout(t, New(), graphOf(motion.ArchetypeMatrix, "a", "b", "c", "d"), Options{})
	names := []string{"top-left", "top-right", "bottom-left", "bottom-right"}
	if len(res.Quadrants) != 4 {
		t.Fatalf("quadrants = %d", len(res.Quadrants))
	}
	for i, q := range res.Quadrants {
		if q.Name != names[i] || q.NodeID != res.Graph.Nodes[i].ID {
			t.Errorf("quadrant %d = %+v", i, q)
		}
	}
	n := res.Graph.Nodes
	if n[0].Position.X >= n[1].Position.X || n[0].Position.Y >= n[2].Position.Y {
		t.Error("quadrants out of place")
	}
}

func TestCardinality(t *testing.T) {
	t.Run("matrix truncates", func(t *testing.T) {
		res := mustLayout(t, New(), graphOf(motion.ArchetypeMatrix, "a", "b", "c", "d", "e", "f"), Options{})
		if len(res.Graph.Nodes) != 4 {
			t.Errorf("nodes = %d, want 4", len(res.Graph.Nodes))
		}
		if countKind(res.Warnings, WarnTruncated) != 2 {
			t.Errorf("warnings = %+v", res.Warnings)
		}
	})

	t.Run("comparison truncates", func(t *testing.T) {
		res := mustLayout(t, New(), graphOf(motion.ArchetypeComparison, "a", "b", "c"), Options{})
		if len(res.Graph.Nodes) != 2 || countKind(res.Warnings, WarnTruncated) != 1 {
			t.Errorf("nodes = %d, warnings = %+v", len(res.Graph.Nodes), res.Warnings)
		}
	})

	t.Run("too few", func(t *testing.T) {
		res := mustLayout(t, New(), graphOf(motion.ArchetypeMatrix, "a", "b"), Options{})
		if len(res.Graph.Nodes) != 2 || countKind(res.Warnings, WarnTooFewNodes) != 1 {
			t.Errorf("nodes = %d, warnings = %+v", len(res.Graph.Nodes), res.Warnings)
		}
	})

	t.Run("strict", func(t *testing.T) {
		_, err := New().Layout(context.Background(), graphOf(motion.ArchetypeMatrix, "a", "b", "c"), Options{Strict: true})
		if !errors.Is(err, errors.ErrCodeInvalidCardinality) {
			t.Errorf("err = %v, want INVALID_CARDINALITY", err)
		}
	})
}

func TestBadInputDegrades(t *testing.T) {
	g := graphOf(motion.ArchetypeArchitecture, "api", "db", "cache")
	g.Nodes = append(g.Nodes, motion.Node{ID: "n1", Data: motion.NodeData{Label: "dup"}})
	g.Edges = []motion.Edge{
		{ID: "ok", Source: "n0", Target: "n1"},
		{ID: "ghost", Source: "n0", Target: "missing"},
		{ID: "loop", Source: "n2", Target: "n2"},
	}
	res := mustLayout(t, New(), g, Options{})

	if len(res.Graph.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(res.Graph.Nodes))
	}
	if len(res.Graph.Edges) != 1 || len(res.Edges) != 1 {
		t.Errorf("edges = %d / paths = %d, want 1", len(res.Graph.Edges), len(res.Edges))
	}
	if countKind(res.Warnings, WarnDroppedEdge) != 2 || countKind(res.Warnings, WarnDroppedNode) != 1 {
		t.Errorf("warnings = %+v", res.Warnings)
	}
}

func TestEdgePathKeys(t *testing.T) {
	g := graphOf(motion.ArchetypeArchitecture, "api", "db", "cache")
	g.Edges = []motion.Edge{
		{Source: "n0", Target: "n1"},
		{Source: "n0", Target: "n2"},
		{ID: "named", Source: "n1", Target: "n2"},
	}
	res := mustLayout(t, New(), g, Options{})

	want := []string{"n0->n1", "n0->n2", "named"}
	if len(res.Edges) != len(want) {
		t.Fatalf("paths = %d, want %d", len(res.Edges), len(want))
	}
	for i, id := range want {
		if res.Edges[i].ID != id {
			t.Errorf("path %d id = %q, want %q", i, res.Edges[i].ID, id)
		}
	}
}

func TestUnknownArchetype(t *testing.T) {
	_, err := New().Layout(context.Background(), graphOf("venn", "a"), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidArchetype) {
		t.Errorf("err = %v", err)
	}
}

func TestEmptyGraph(t *testing.T) {
	for _, a := range motion.Archetypes {
		res := mustLayout(t, New(), graphOf(a), Options{})
		if len(res.Graph.Nodes) != 0 || len(res.Edges) != 0 || len(res.Connectors) != 0 {
			t.Errorf("%s: empty graph produced output", a)
		}
	}
}

func TestLayoutDoesNotMutateInput(t *testing.T) {
	g := chain(graphOf(motion.ArchetypeProcess, "a", "b"))
	before, _ := json.Marshal(g)
	mustLayout(t, New(), g, Options{})
	after, _ := json.Marshal(g)
	if string(before) != string(after) {
		t.Errorf("input mutated:\n%s\n%s", before, after)
	}
}

func TestDeterminism(t *testing.T) {
	for _, a := range motion.Archetypes {
		g := chain(graphOf(a, "One", "Two words", "Three little words", "Four", "Five"))
		first, _ := json.Marshal(mustLayout(t, New(), g, Options{}))
		for range 3 {
			again, _ := json.Marshal(mustLayout(t, New(), g, Options{}))
			if string(first) != string(again) {
				t.Fatalf("%s: layout not deterministic", a)
			}
		}
	}
}

func TestEdgeAnchorsOnBorders(t *testing.T) {
	g := chain(graphOf(motion.ArchetypeHierarchy, "CEO", "CTO", "Engineer"))
	res := mustLayout(t, New(), g, Options{})
	for _, e := range res.Edges {
		src, _ := res.Graph.Node(e.Source)
		tgt, _ := res.Graph.Node(e.Target)
		if math.Abs(e.From.Y-(src.Position.Y+src.NodeSize.Height)) > eps {
			t.Errorf("edge %s should leave the bottom of %s: %+v", e.ID, e.Source, e.From)
		}
		if math.Abs(e.To.Y-tgt.Position.Y) > eps {
			t.Errorf("edge %s should enter the top of %s: %+v", e.ID, e.Target, e.To)
		}
	}
}

func TestOptions(t *testing.T) {
	var o Options
	o.SetDefaults()
	if o.Viewport.Width != DefaultViewportWidth || o.Mode != ModeAuto {
		t.Errorf("defaults = %+v", o)
	}
	if err := o.Validate(); err != nil {
		t.Errorf("Validate(defaults) = %v", err)
	}

	bad := Options{Viewport: motion.Size{Width: 100, Height: 100}, Margin: 60}
	bad.SetDefaults()
	if err := bad.Validate(); err == nil {
		t.Error("expected error for margin larger than viewport")
	}

	mode := Options{Mode: "spiral"}
	mode.SetDefaults()
	if err := mode.Validate(); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestObservedViewport(t *testing.T) {
	g := graphOf(motion.ArchetypeProcess, "a", "b", "c", "d", "e", "f")
	res := mustLayout(t, New(), g, Options{Viewport: motion.Size{Width: 800, Height: 450}, Margin: 16})
	if res.Transform.Scale >= 1 {
		t.Errorf("small viewport should shrink the row, scale = %v", res.Transform.Scale)
	}
	if res.Viewport.Width != 800 {
		t.Errorf("viewport = %+v", res.Viewport)
	}
}

func TestModeGeneral(t *testing.T) {
	g := chain(graphOf(motion.ArchetypeProcess, "a", "b", "c"))
	res := mustLayout(t, New(), g, Options{Mode: ModeGeneral})
	if res.Family != FamilyGeneral {
		t.Errorf("family = %s", res.Family)
	}
	// Process runs left to right in the general layout too.
	n := res.Graph.Nodes
	if !(n[0].Position.X < n[1].Position.X && n[1].Position.X < n[2].Position.X) {
		t.Errorf("nodes not left to right: %v %v %v", n[0].Position, n[1].Position, n[2].Position)
	}
}

func countKind(ws []Warning, kind WarningKind) int {
	c := 0
	for _, w := range ws {
		if w.Kind == kind {
			c++
		}
	}
	return c
}
