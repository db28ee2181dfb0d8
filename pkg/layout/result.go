package layout

import (
	"math"

	"github.com/matzehuels/slidemotion/pkg/motion"
)

// Family is a group of archetypes sharing one layout handler.
type Family string

// Layout families.
const (
	FamilyFlow    Family = "flow"
	FamilyStack   Family = "stack"
	FamilyGrid    Family = "grid"
	FamilyRadial  Family = "radial"
	FamilyMatrix  Family = "matrix"
	FamilyGeneral Family = "general"
)

// Result is a positioned graph plus the presentation data renderers need.
//
// Node positions are top-left corners in layout space. Transform maps layout
// space into the viewport; it is the identity except for flow rows and
// oversized general layouts. Edge and connector points share the node
// coordinate space.
type Result struct {
	Graph      motion.Graph `json:"graph"`
	Family     Family       `json:"family"`
	Viewport   motion.Size  `json:"viewport"`
	Transform  Transform    `json:"transform"`
	Density    Density      `json:"density"`
	Natural    motion.Size  `json:"natural"`
	Edges      []EdgePath   `json:"edges,omitempty"`
	Connectors []Connector  `json:"connectors,omitempty"`
	Quadrants  []Quadrant   `json:"quadrants,omitempty"`
	Radial     *Radial      `json:"radial,omitempty"`
	Warnings   []Warning    `json:"warnings,omitempty"`
}

// Absolute maps a layout-space point into viewport coordinates.
func (r Result) Absolute(p motion.Point) motion.Point {
	return r.Transform.Apply(p)
}

// Bounds returns the bounding box of the node with the given id in viewport
// coordinates.
func (r Result) Bounds(id string) (x, y, w, h float64, ok bool) {
	n, found := r.Graph.Node(id)
	if !found || n.Position == nil || n.NodeSize == nil {
		return 0, 0, 0, 0, false
	}
	p := r.Absolute(*n.Position)
	s := r.Transform.scale()
	return p.X, p.Y, n.NodeSize.Width * s, n.NodeSize.Height * s, true
}

// Transform is a uniform scale followed by a translation.
type Transform struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
}

// Identity is the transform that leaves points unchanged.
var Identity = Transform{Scale: 1}

// Apply maps p through the transform.
func (t Transform) Apply(p motion.Point) motion.Point {
	s := t.scale()
	return motion.Point{X: p.X*s + t.TranslateX, Y: p.Y*s + t.TranslateY}
}

func (t Transform) scale() float64 {
	if t.Scale == 0 {
		return 1
	}
	return t.Scale
}

// Density carries the content scale for families that shrink chrome and type
// rather than geometry.
type Density struct {
	Scale    float64 `json:"scale"`
	Gap      float64 `json:"gap"`
	Padding  float64 `json:"padding"`
	IconSize float64 `json:"icon_size"`
	FontSize float64 `json:"font_size"`
}

// densityAt derives all density values from one scale factor.
func densityAt(scale float64, gap float64) Density {
	return Density{
		Scale:    scale,
		Gap:      round2(gap * scale),
		Padding:  round2(BasePadding * scale),
		IconSize: round2(BaseIconSize * scale),
		FontSize: round2(BaseFontSize * scale),
	}
}

// EdgePath is a straight edge clipped to the borders of its endpoint boxes.
type EdgePath struct {
	ID       string       `json:"id"`
	Source   string       `json:"source"`
	Target   string       `json:"target"`
	Label    string       `json:"label,omitempty"`
	Animated bool         `json:"animated,omitempty"`
	From     motion.Point `json:"from"`
	To       motion.Point `json:"to"`
}

// Connector is a flow arrow occupying one arrow slot.
type Connector struct {
	From   motion.Point `json:"from"`
	To     motion.Point `json:"to"`
	Before string       `json:"before"`
	After  string       `json:"after,omitempty"`
	Return bool         `json:"return,omitempty"`
}

// Quadrant assigns a matrix node to a fixed quadrant style.
type Quadrant struct {
	Index   int            `json:"index"`
	Name    string         `json:"name"`
	NodeID  string         `json:"node_id"`
	Variant motion.Variant `json:"variant"`
}

// Radial describes the orbit of a mindmap layout.
type Radial struct {
	Hub     string       `json:"hub"`
	Center  motion.Point `json:"center"`
	Radius  float64      `json:"radius"`
	OffsetY float64      `json:"offset_y"`
}

// WarningKind classifies a soft layout problem.
type WarningKind string

// Warning kinds.
const (
	WarnDroppedEdge   WarningKind = "dropped_edge"
	WarnDroppedNode   WarningKind = "dropped_node"
	WarnTruncated     WarningKind = "truncated"
	WarnTooFewNodes   WarningKind = "too_few_nodes"
	WarnOverflow      WarningKind = "overflow"
	WarnEngineFailure WarningKind = "engine_fallback"
)

// Warning is a soft problem recorded during layout.
type Warning struct {
	Kind      WarningKind `json:"kind"`
	ElementID string      `json:"element_id,omitempty"`
	Message   string      `json:"message"`
}

// =============================================================================
// Geometry helpers
// =============================================================================

type rect struct{ X, Y, W, H float64 }

func (r rect) center() motion.Point { return motion.Point{X: r.X + r.W/2, Y: r.Y + r.H/2} }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

func point(x, y float64) *motion.Point {
	return &motion.Point{X: round2(x), Y: round2(y)}
}

func size(w, h float64) *motion.Size {
	return &motion.Size{Width: round2(w), Height: round2(h)}
}

// anchor returns the point where the ray from the center of box (p, s)
// towards target leaves the box.
func anchor(p motion.Point, s motion.Size, target motion.Point) motion.Point {
	cx, cy := p.X+s.Width/2, p.Y+s.Height/2
	dx, dy := target.X-cx, target.Y-cy
	if dx == 0 && dy == 0 {
		return motion.Point{X: cx, Y: cy}
	}
	t := math.Inf(1)
	if dx != 0 {
		t = math.Min(t, (s.Width/2)/math.Abs(dx))
	}
	if dy != 0 {
		t = math.Min(t, (s.Height/2)/math.Abs(dy))
	}
	return motion.Point{X: round2(cx + dx*t), Y: round2(cy + dy*t)}
}

func centerOf(n motion.Node) motion.Point {
	return motion.Point{X: n.Position.X + n.NodeSize.Width/2, Y: n.Position.Y + n.NodeSize.Height/2}
}
