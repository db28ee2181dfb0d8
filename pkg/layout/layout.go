package layout

import (
	"context"
	"fmt"

	"github.com/matzehuels/slidemotion/pkg/errors"
	"github.com/matzehuels/slidemotion/pkg/motion"
)

// =============================================================================
// Archetype Dispatch Table
// =============================================================================

// Archetype families. Unlisted archetypes use FamilyGeneral.
var archetypeFamilies = map[motion.Archetype]Family{
	motion.ArchetypeProcess:    FamilyFlow,
	motion.ArchetypeCycle:      FamilyFlow,
	motion.ArchetypeTimeline:   FamilyFlow,
	motion.ArchetypeHierarchy:  FamilyStack,
	motion.ArchetypeFunnel:     FamilyStack,
	motion.ArchetypePyramid:    FamilyStack,
	motion.ArchetypeGrid:       FamilyGrid,
	motion.ArchetypeComparison: FamilyGrid,
	motion.ArchetypeStatistic:  FamilyGrid,
	motion.ArchetypeMindmap:    FamilyRadial,
	motion.ArchetypeMatrix:     FamilyMatrix,
}

// Expected node counts of fixed-cardinality archetypes.
var cardinality = map[motion.Archetype]int{
	motion.ArchetypeMatrix:     4,
	motion.ArchetypeComparison: 2,
}

type handler func(ctx context.Context, e *Engine, p *plan) error

var handlers = map[Family]handler{
	FamilyFlow:    layoutFlow,
	FamilyStack:   layoutStack,
	FamilyGrid:    layoutGrid,
	FamilyRadial:  layoutRadial,
	FamilyMatrix:  layoutMatrix,
	FamilyGeneral: layoutGeneral,
}

// FamilyOf returns the layout family of an archetype.
func FamilyOf(a motion.Archetype) Family {
	if f, ok := archetypeFamilies[a]; ok {
		return f
	}
	return FamilyGeneral
}

// Cardinality returns the expected node count of a, or 0 when any count is
// accepted.
func Cardinality(a motion.Archetype) int {
	return cardinality[a]
}

// =============================================================================
// Engine
// =============================================================================

// Engine computes layouts. It holds no per-layout state and is safe for
// concurrent use when its GraphEngine is.
type Engine struct {
	graph GraphEngine
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithGraphEngine sets the backend for the general family.
func WithGraphEngine(g GraphEngine) EngineOption {
	return func(e *Engine) {
		if g != nil {
			e.graph = g
		}
	}
}

// New creates an Engine. Without options the general family uses a
// LayeredEngine.
func New(opts ...EngineOption) *Engine {
	e := &Engine{graph: LayeredEngine{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GraphEngine returns the configured general layout backend.
func (e *Engine) GraphEngine() GraphEngine { return e.graph }

// plan is the working state of one layout pass.
type plan struct {
	graph    motion.Graph
	edges    []motion.Edge
	opts     Options
	avail    rect
	result   *Result
	warnings []Warning
}

func (p *plan) warn(kind WarningKind, id, format string, args ...any) {
	p.warnings = append(p.warnings, Warning{Kind: kind, ElementID: id, Message: fmt.Sprintf(format, args...)})
}

// Layout positions g for its archetype. The input graph is not modified; the
// returned Result holds a positioned copy. A graph without nodes yields an
// empty result.
func (e *Engine) Layout(ctx context.Context, g motion.Graph, opts Options) (Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	if !g.Archetype.Valid() {
		return Result{}, errors.New(errors.ErrCodeInvalidArchetype, "unknown archetype %q", g.Archetype)
	}

	family := FamilyOf(g.Archetype)
	if opts.Mode == ModeGeneral {
		family = FamilyGeneral
	}

	p := &plan{
		graph: g.Clone(),
		opts:  opts,
		avail: opts.available(),
		result: &Result{
			Family:    family,
			Viewport:  opts.Viewport,
			Transform: Identity,
			Density:   densityAt(1, 0),
		},
	}
	p.dedupeNodes()
	if err := p.checkCardinality(); err != nil {
		return Result{}, err
	}
	p.collectEdges()

	if len(p.graph.Nodes) > 0 {
		if err := handlers[family](ctx, e, p); err != nil {
			return Result{}, err
		}
		p.routeEdges()
	}

	res := *p.result
	res.Graph = p.graph
	res.Warnings = p.warnings
	return res, nil
}

// dedupeNodes drops nodes with empty or repeated ids, keeping the first.
func (p *plan) dedupeNodes() {
	seen := make(map[string]bool, len(p.graph.Nodes))
	kept := p.graph.Nodes[:0]
	for i, n := range p.graph.Nodes {
		switch {
		case n.ID == "":
			p.warn(WarnDroppedNode, "", "node %d has an empty id", i)
			continue
		case seen[n.ID]:
			p.warn(WarnDroppedNode, n.ID, "duplicate node id %q", n.ID)
			continue
		}
		seen[n.ID] = true
		kept = append(kept, n)
	}
	p.graph.Nodes = kept
}

// checkCardinality truncates extra nodes of fixed-cardinality archetypes and
// records shortfalls. In strict mode both are errors.
func (p *plan) checkCardinality() error {
	want := Cardinality(p.graph.Archetype)
	have := len(p.graph.Nodes)
	if want == 0 || have == want || have == 0 {
		return nil
	}
	if p.opts.Strict {
		return errors.New(errors.ErrCodeInvalidCardinality,
			"%s expects %d nodes, got %d", p.graph.Archetype, want, have)
	}
	if have > want {
		for _, n := range p.graph.Nodes[want:] {
			p.warn(WarnTruncated, n.ID, "%s shows %d nodes; %q is not rendered", p.graph.Archetype, want, n.ID)
		}
		p.graph.Nodes = p.graph.Nodes[:want]
		return nil
	}
	p.warn(WarnTooFewNodes, p.graph.ID, "%s expects %d nodes, got %d", p.graph.Archetype, want, have)
	return nil
}

// collectEdges keeps the usable edges and records the rest as warnings. The
// positioned graph keeps only usable edges.
func (p *plan) collectEdges() {
	kept, dropped := motion.UsableEdges(p.graph)
	for _, issue := range dropped {
		p.warn(WarnDroppedEdge, issue.ElementID, "%s", issue.Message)
	}
	p.edges = kept
	p.graph.Edges = kept
}

// routeEdges clips every usable edge to its endpoint boxes.
func (p *plan) routeEdges() {
	idx := p.graph.NodeIndex()
	for _, e := range p.edges {
		src, tgt := p.graph.Nodes[idx[e.Source]], p.graph.Nodes[idx[e.Target]]
		sc, tc := centerOf(src), centerOf(tgt)
		p.result.Edges = append(p.result.Edges, EdgePath{
			ID:       e.Key(),
			Source:   e.Source,
			Target:   e.Target,
			Label:    e.Label,
			Animated: e.Animated,
			From:     anchor(*src.Position, *src.NodeSize, tc),
			To:       anchor(*tgt.Position, *tgt.NodeSize, sc),
		})
	}
}

// checkOverflow records a warning when the laid-out content exceeds the
// available area.
func (p *plan) checkOverflow(w, h float64) {
	if w > p.avail.W+0.5 || h > p.avail.H+0.5 {
		p.warn(WarnOverflow, p.graph.ID, "content %.0fx%.0f exceeds available %.0fx%.0f", w, h, p.avail.W, p.avail.H)
	}
}
