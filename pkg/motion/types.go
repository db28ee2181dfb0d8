package motion

import (
	"encoding/json"
	"strconv"
)

// =============================================================================
// Archetypes - Single Source of Truth
// =============================================================================

// Archetype is the diagram family a MotionGraph belongs to. It selects both the
// layout strategy and the box renderer.
type Archetype string

// Supported archetypes.
const (
	ArchetypeProcess           Archetype = "process"
	ArchetypeCycle             Archetype = "cycle"
	ArchetypeHierarchy         Archetype = "hierarchy"
	ArchetypeComparison        Archetype = "comparison"
	ArchetypeStatistic         Archetype = "statistic"
	ArchetypeGrid              Archetype = "grid"
	ArchetypeTimeline          Archetype = "timeline"
	ArchetypeFunnel            Archetype = "funnel"
	ArchetypePyramid           Archetype = "pyramid"
	ArchetypeMindmap           Archetype = "mindmap"
	ArchetypeCode              Archetype = "code"
	ArchetypeMath              Archetype = "math"
	ArchetypeArchitecture      Archetype = "architecture"
	ArchetypeMatrix            Archetype = "matrix"
	ArchetypeMetaphor          Archetype = "metaphor"
	ArchetypeAnatomy           Archetype = "anatomy"
	ArchetypeDocumentAnchor    Archetype = "document-anchor"
	ArchetypeContextualOverlay Archetype = "contextual-overlay"
)

// Archetypes lists every supported archetype in declaration order.
var Archetypes = []Archetype{
	ArchetypeProcess, ArchetypeCycle, ArchetypeHierarchy, ArchetypeComparison,
	ArchetypeStatistic, ArchetypeGrid, ArchetypeTimeline, ArchetypeFunnel,
	ArchetypePyramid, ArchetypeMindmap, ArchetypeCode, ArchetypeMath,
	ArchetypeArchitecture, ArchetypeMatrix, ArchetypeMetaphor, ArchetypeAnatomy,
	ArchetypeDocumentAnchor, ArchetypeContextualOverlay,
}

// Valid reports whether a is a supported archetype.
func (a Archetype) Valid() bool {
	for _, known := range Archetypes {
		if a == known {
			return true
		}
	}
	return false
}

// Variant is the color role of a node card.
type Variant string

// Node variants.
const (
	VariantNeutral   Variant = "neutral"
	VariantPrimary   Variant = "primary"
	VariantSecondary Variant = "secondary"
	VariantAccent    Variant = "accent"
	VariantPositive  Variant = "positive"
	VariantNegative  Variant = "negative"
	VariantWarning   Variant = "warning"
)

// Valid reports whether v is a known variant. The empty variant is valid and
// renders as neutral.
func (v Variant) Valid() bool {
	switch v {
	case "", VariantNeutral, VariantPrimary, VariantSecondary, VariantAccent,
		VariantPositive, VariantNegative, VariantWarning:
		return true
	}
	return false
}

// OrNeutral returns v, or VariantNeutral when v is empty.
func (v Variant) OrNeutral() Variant {
	if v == "" {
		return VariantNeutral
	}
	return v
}

// =============================================================================
// Graph - Motion Graph Document
// =============================================================================

// Graph is a MotionGraph: one archetype-tagged diagram of a slide.
//
// Graphs are value objects. The engine never mutates a Graph it receives; layout
// returns a new Graph with Position and NodeSize populated.
type Graph struct {
	ID        string    `json:"id" yaml:"id" bson:"id"`
	Archetype Archetype `json:"archetype" yaml:"archetype" bson:"archetype"`
	Nodes     []Node    `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges     []Edge    `json:"edges" yaml:"edges" bson:"edges"`
	Metadata  *Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Metadata holds optional document-level information.
type Metadata struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty" bson:"title,omitempty"`
}

// Title returns the graph title, or an empty string.
func (g *Graph) Title() string {
	if g.Metadata == nil {
		return ""
	}
	return g.Metadata.Title
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// NodeIndex maps node ids to their index in Nodes. Later duplicates do not
// overwrite the first occurrence.
func (g *Graph) NodeIndex() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, dup := idx[n.ID]; !dup {
			idx[n.ID] = i
		}
	}
	return idx
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	out := g
	out.Nodes = make([]Node, len(g.Nodes))
	for i, n := range g.Nodes {
		out.Nodes[i] = n.clone()
	}
	out.Edges = append([]Edge(nil), g.Edges...)
	if g.Metadata != nil {
		m := *g.Metadata
		out.Metadata = &m
	}
	return out
}

// =============================================================================
// Node - Visual Card
// =============================================================================

// Node is one visual card of a MotionGraph.
type Node struct {
	ID       string   `json:"id" yaml:"id" bson:"id"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty" bson:"type,omitempty"`
	Data     NodeData `json:"data" yaml:"data" bson:"data"`
	Position *Point   `json:"position,omitempty" yaml:"position,omitempty" bson:"position,omitempty"`
	NodeSize *Size    `json:"nodeSize,omitempty" yaml:"nodeSize,omitempty" bson:"node_size,omitempty"`
}

func (n Node) clone() Node {
	out := n
	if n.Position != nil {
		p := *n.Position
		out.Position = &p
	}
	if n.NodeSize != nil {
		s := *n.NodeSize
		out.NodeSize = &s
	}
	return out
}

// NodeData is the text and styling content of a node.
type NodeData struct {
	Label       string     `json:"label" yaml:"label" bson:"label"`
	SubLabel    string     `json:"subLabel,omitempty" yaml:"subLabel,omitempty" bson:"sub_label,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Icon        string     `json:"icon,omitempty" yaml:"icon,omitempty" bson:"icon,omitempty"`
	Value       FlexString `json:"value,omitempty" yaml:"value,omitempty" bson:"value,omitempty"`
	Image       string     `json:"image,omitempty" yaml:"image,omitempty" bson:"image,omitempty"`
	Variant     Variant    `json:"variant,omitempty" yaml:"variant,omitempty" bson:"variant,omitempty"`
}

// Text returns the node's readable text (label, sub-label, description) joined
// by spaces, skipping empty fields.
func (d NodeData) Text() string {
	out := d.Label
	for _, s := range []string{d.SubLabel, d.Description} {
		if s == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += s
	}
	return out
}

// FlexString is a string that also accepts JSON numbers. Statistic cards carry
// values such as 42 or "42%" interchangeably.
type FlexString string

// UnmarshalJSON accepts a JSON string, number or null.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Float parses the value as a number, reporting whether it is numeric.
func (f FlexString) Float() (float64, bool) {
	v, err := strconv.ParseFloat(string(f), 64)
	return v, err == nil
}

// =============================================================================
// Edge - Directed Connection
// =============================================================================

// Edge connects two nodes of the same graph.
type Edge struct {
	ID       string `json:"id" yaml:"id" bson:"id"`
	Source   string `json:"source" yaml:"source" bson:"source"`
	Target   string `json:"target" yaml:"target" bson:"target"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
	Animated bool   `json:"animated,omitempty" yaml:"animated,omitempty" bson:"animated,omitempty"`
}

// Key identifies the edge for animation and timing: its ID, or
// "source->target" when the edge has none.
func (e Edge) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Source + "->" + e.Target
}

// =============================================================================
// Geometry
// =============================================================================

// Point is a position in design-canvas units (1920×1080 logical pixels).
type Point struct {
	X float64 `json:"x" yaml:"x" bson:"x"`
	Y float64 `json:"y" yaml:"y" bson:"y"`
}

// Size is a width/height pair in design-canvas units.
type Size struct {
	Width  float64 `json:"width" yaml:"width" bson:"width"`
	Height float64 `json:"height" yaml:"height" bson:"height"`
}

// Max returns the elementwise maximum of s and o.
func (s Size) Max(o Size) Size {
	return Size{Width: max(s.Width, o.Width), Height: max(s.Height, o.Height)}
}
