package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/slidemotion/pkg/animation"
	"github.com/matzehuels/slidemotion/pkg/layout"
	"github.com/matzehuels/slidemotion/pkg/motion"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	frame      *animation.Frame
	background bool
	title      bool
}

// WithFrame draws every element in its state at an evaluated frame. Without
// a frame all elements are drawn at rest.
func WithFrame(f animation.Frame) SVGOption { return func(r *svgRenderer) { r.frame = &f } }

// WithTransparentBackground omits the background fill.
func WithTransparentBackground() SVGOption { return func(r *svgRenderer) { r.background = false } }

// WithTitle draws the graph title in the top margin.
func WithTitle() SVGOption { return func(r *svgRenderer) { r.title = true } }

// RenderSVG renders a positioned graph as one SVG frame. The output depends
// only on its arguments.
func RenderSVG(res layout.Result, opts ...SVGOption) []byte {
	r := svgRenderer{background: true}
	for _, opt := range opts {
		opt(&r)
	}

	vw, vh := res.Viewport.Width, res.Viewport.Height
	if vw <= 0 || vh <= 0 {
		vw, vh = layout.DefaultViewportWidth, layout.DefaultViewportHeight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		vw, vh, vw, vh)
	renderArrowDefs(&buf)
	if r.background {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", backgroundColor)
	}
	if r.title && res.Graph.Title() != "" {
		writeText(&buf, layout.DefaultMargin, layout.DefaultMargin*0.75, []string{res.Graph.Title()},
			textStyle{size: 36, weight: 700, color: "#18181b"})
	}

	t := res.Transform
	if t.Scale == 0 {
		t.Scale = 1
	}
	fmt.Fprintf(&buf, `  <g transform="translate(%.2f %.2f) scale(%.4f)">`+"\n", t.TranslateX, t.TranslateY, t.Scale)

	for i, c := range res.Connectors {
		st := r.style(r.connectorStates(), i)
		r.group(&buf, "connector", fmt.Sprintf("%d", i), st, c.From, c.To, func() { renderConnector(&buf, c) })
	}
	for i, e := range res.Edges {
		st := r.styleOf(r.edgeStates(), e.ID, i)
		r.group(&buf, "edge", e.ID, st, e.From, e.To, func() { renderEdge(&buf, e) })
	}

	quadrants := make(map[string]*layout.Quadrant, len(res.Quadrants))
	for i := range res.Quadrants {
		quadrants[res.Quadrants[i].NodeID] = &res.Quadrants[i]
	}
	for i, n := range res.Graph.Nodes {
		if n.Position == nil || n.NodeSize == nil {
			continue
		}
		b := Box{
			Node:     n,
			X:        n.Position.X,
			Y:        n.Position.Y,
			W:        n.NodeSize.Width,
			H:        n.NodeSize.Height,
			Colors:   DefaultPalette.Of(variantOf(n, quadrants[n.ID])),
			Density:  res.Density,
			Quadrant: quadrants[n.ID],
			Index:    i,
			Count:    len(res.Graph.Nodes),
		}
		if b.Density.FontSize == 0 {
			b.Density = layout.Density{Scale: 1, Padding: layout.BasePadding, IconSize: layout.BaseIconSize, FontSize: layout.BaseFontSize}
		}
		draw := boxRenderers[BoxKind(res, n)]
		st := r.styleOf(r.nodeStates(), n.ID, i)
		from := motion.Point{X: b.X, Y: b.Y}
		to := motion.Point{X: b.X + b.W, Y: b.Y + b.H}
		r.group(&buf, "node", n.ID, st, from, to, func() { draw(&buf, b) })
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func variantOf(n motion.Node, q *layout.Quadrant) motion.Variant {
	if n.Data.Variant == "" && q != nil {
		return q.Variant
	}
	return n.Data.Variant
}

func (r *svgRenderer) nodeStates() []animation.ElementState {
	if r.frame == nil {
		return nil
	}
	return r.frame.Nodes
}

func (r *svgRenderer) edgeStates() []animation.ElementState {
	if r.frame == nil {
		return nil
	}
	return r.frame.Edges
}

func (r *svgRenderer) connectorStates() []animation.ElementState {
	if r.frame == nil {
		return nil
	}
	return r.frame.Connectors
}

// styleOf finds the state of id, trying position i first since frames list
// elements in graph order.
func (r *svgRenderer) styleOf(states []animation.ElementState, id string, i int) animation.Style {
	if r.frame == nil {
		return animation.Settled
	}
	if i < len(states) && states[i].ID == id {
		return states[i].Style
	}
	for _, s := range states {
		if s.ID == id {
			return s.Style
		}
	}
	return animation.Settled
}

func (r *svgRenderer) style(states []animation.ElementState, i int) animation.Style {
	if r.frame == nil || i >= len(states) {
		return animation.Settled
	}
	return states[i].Style
}

// group wraps an element in a <g> carrying its animated opacity, scale about
// its center and vertical offset. Fully transparent elements are omitted.
func (r *svgRenderer) group(buf *bytes.Buffer, kind, id string, st animation.Style, from, to motion.Point, draw func()) {
	if !st.Visible() {
		return
	}
	fmt.Fprintf(buf, `   <g id="%s-%s" class="%s"`, kind, EscapeXML(id), kind)
	if st.Opacity < 1 {
		fmt.Fprintf(buf, ` opacity="%.3f"`, st.Opacity)
	}
	if st.Scale != 1 || st.TranslateY != 0 {
		cx, cy := (from.X+to.X)/2, (from.Y+to.Y)/2
		fmt.Fprintf(buf, ` transform="translate(%.2f %.2f) scale(%.4f) translate(%.2f %.2f)"`,
			cx, cy+st.TranslateY, st.Scale, -cx, -cy)
	}
	buf.WriteString(">\n")
	draw()
	buf.WriteString("   </g>\n")
}
