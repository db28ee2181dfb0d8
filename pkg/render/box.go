package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/slidemotion/pkg/layout"
	"github.com/matzehuels/slidemotion/pkg/motion"
)

// Box is everything a box renderer needs to draw one node. Coordinates are
// in layout space; the frame transform is applied by the enclosing group.
type Box struct {
	Node       motion.Node
	X, Y, W, H float64
	Colors     Colors
	Density    layout.Density
	Quadrant   *layout.Quadrant
	Index      int
	Count      int
}

// BoxRenderer draws a node box.
type BoxRenderer func(buf *bytes.Buffer, b Box)

// Box renderer names.
const (
	BoxCard     = "card"
	BoxStat     = "stat"
	BoxBand     = "band"
	BoxQuadrant = "quadrant"
	BoxHub      = "hub"
	BoxCode     = "code"
	BoxMarker   = "marker"
)

var boxRenderers = map[string]BoxRenderer{
	BoxCard:     renderCard,
	BoxStat:     renderStat,
	BoxBand:     renderBand,
	BoxQuadrant: renderQuadrant,
	BoxHub:      renderHub,
	BoxCode:     renderCode,
	BoxMarker:   renderMarker,
}

var archetypeBoxes = map[motion.Archetype]string{
	motion.ArchetypeStatistic: BoxStat,
	motion.ArchetypeHierarchy: BoxBand,
	motion.ArchetypeFunnel:    BoxBand,
	motion.ArchetypePyramid:   BoxBand,
	motion.ArchetypeMatrix:    BoxQuadrant,
	motion.ArchetypeCode:      BoxCode,
	motion.ArchetypeTimeline:  BoxMarker,
}

// BoxKind returns the renderer name for a node of a positioned graph. The hub
// of a radial layout draws as a hub; everything else follows the archetype
// and defaults to a card.
func BoxKind(res layout.Result, n motion.Node) string {
	if res.Radial != nil && res.Radial.Hub == n.ID {
		return BoxHub
	}
	if k, ok := archetypeBoxes[res.Graph.Archetype]; ok {
		return k
	}
	return BoxCard
}

func (b Box) fontSize() float64 { return b.Density.FontSize }
func (b Box) padding() float64  { return b.Density.Padding }

func drawIcon(buf *bytes.Buffer, name string, x, y, s float64, color string) {
	if name == "" {
		return
	}
	f, _ := Icon(name)
	f(buf, x, y, s, color)
}

func renderCard(buf *bytes.Buffer, b Box) {
	d, c, pad := b.Node.Data, b.Colors, b.padding()
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="16" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		b.X, b.Y, b.W, b.H, c.Fill, c.Stroke)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="6" rx="3" fill="%s"/>`+"\n",
		b.X+16, b.Y, b.W-32, c.Accent)

	y := b.Y + pad + 6
	if d.Icon != "" {
		drawIcon(buf, d.Icon, b.X+pad, y, b.Density.IconSize, c.Accent)
		y += b.Density.IconSize + 8
	}
	inner := b.W - 2*pad
	fs := b.fontSize()
	if d.Value != "" {
		y = writeText(buf, b.X+pad, y+fs*1.5, Wrap(string(d.Value), inner, fs*1.6, 1),
			textStyle{size: fs * 1.6, weight: 700, color: c.Accent})
	}
	y = writeText(buf, b.X+pad, y+fs, Wrap(d.Label, inner, fs, 2), textStyle{size: fs, weight: 600, color: c.Text})
	if d.SubLabel != "" {
		y = writeText(buf, b.X+pad, y+fs*0.3, Wrap(d.SubLabel, inner, fs*0.7, 2),
			textStyle{size: fs * 0.7, weight: 500, color: c.Muted})
	}
	if d.Description != "" {
		lines := max(int((b.Y+b.H-pad-y)/(fs*0.6*lineHeightRatio)), 1)
		writeText(buf, b.X+pad, y+fs*0.3, Wrap(d.Description, inner, fs*0.6, lines),
			textStyle{size: fs * 0.6, weight: 400, color: c.Muted})
	}
}

func renderStat(buf *bytes.Buffer, b Box) {
	d, c, fs := b.Node.Data, b.Colors, b.fontSize()
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="16" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		b.X, b.Y, b.W, b.H, c.Fill, c.Stroke)
	cx := b.X + b.W/2
	value := string(d.Value)
	if value == "" {
		value = d.Label
	}
	vs := fs * 2.2
	y := writeText(buf, cx, b.Y+b.H/2, Wrap(value, b.W-2*b.padding(), vs, 1),
		textStyle{size: vs, weight: 800, color: c.Accent, anchor: "middle"})
	if d.Value != "" {
		y = writeText(buf, cx, y, Wrap(d.Label, b.W-2*b.padding(), fs*0.8, 1),
			textStyle{size: fs * 0.8, weight: 600, color: c.Text, anchor: "middle"})
	}
	if d.SubLabel != "" {
		writeText(buf, cx, y, Wrap(d.SubLabel, b.W-2*b.padding(), fs*0.6, 1),
			textStyle{size: fs * 0.6, weight: 400, color: c.Muted, anchor: "middle"})
	}
}

func renderBand(buf *bytes.Buffer, b Box) {
	d, c, fs, pad := b.Node.Data, b.Colors, b.fontSize(), b.padding()
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="12" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		b.X, b.Y, b.W, b.H, c.Fill, c.Stroke)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="8" height="%.1f" rx="4" fill="%s"/>`+"\n",
		b.X, b.Y+8, max(b.H-16, 0), c.Accent)

	x := b.X + pad
	if d.Icon != "" {
		drawIcon(buf, d.Icon, x, b.Y+(b.H-b.Density.IconSize)/2, b.Density.IconSize, c.Accent)
		x += b.Density.IconSize + pad/2
	}
	mid := b.Y + b.H/2 + fs*0.35
	if d.SubLabel != "" || d.Description != "" {
		mid = b.Y + b.H/2 - fs*0.15
	}
	y := writeText(buf, x, mid, Wrap(d.Label, b.X+b.W-pad-x, fs, 1), textStyle{size: fs, weight: 600, color: c.Text})
	sub := d.SubLabel
	if sub == "" {
		sub = d.Description
	}
	writeText(buf, x, y, Wrap(sub, b.X+b.W-pad-x, fs*0.65, 1), textStyle{size: fs * 0.65, weight: 400, color: c.Muted})
	if d.Value != "" {
		writeText(buf, b.X+b.W-pad, b.Y+b.H/2+fs*0.35, []string{string(d.Value)},
			textStyle{size: fs, weight: 700, color: c.Accent, anchor: "end"})
	}
}

func renderQuadrant(buf *bytes.Buffer, b Box) {
	c, fs, pad := b.Colors, b.fontSize(), b.padding()
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="20" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		b.X, b.Y, b.W, b.H, c.Fill, c.Stroke)
	y := b.Y + pad
	if b.Quadrant != nil {
		y = writeText(buf, b.X+pad, y+fs*0.55, []string{b.Quadrant.Name},
			textStyle{size: fs * 0.55, weight: 700, color: c.Accent})
	}
	d := b.Node.Data
	inner := b.W - 2*pad
	y = writeText(buf, b.X+pad, y+fs, Wrap(d.Label, inner, fs*1.1, 2), textStyle{size: fs * 1.1, weight: 700, color: c.Text})
	if d.Description != "" {
		writeText(buf, b.X+pad, y+fs*0.3, Wrap(d.Description, inner, fs*0.65, 4),
			textStyle{size: fs * 0.65, weight: 400, color: c.Muted})
	}
}

func renderHub(buf *bytes.Buffer, b Box) {
	c, fs := b.Colors, b.fontSize()
	cx, cy := b.X+b.W/2, b.Y+b.H/2
	fmt.Fprintf(buf, `    <ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" stroke="%s" stroke-width="4"/>`+"\n",
		cx, cy, b.W/2, b.H/2, c.Accent, c.Stroke)
	lines := Wrap(b.Node.Data.Label, b.W*0.75, fs*1.1, 3)
	top := cy - float64(len(lines)-1)*fs*1.1*lineHeightRatio/2 + fs*0.35
	writeText(buf, cx, top, lines, textStyle{size: fs * 1.1, weight: 700, color: "#ffffff", anchor: "middle"})
}

func renderCode(buf *bytes.Buffer, b Box) {
	d, fs, pad := b.Node.Data, b.fontSize(), b.padding()
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="12" fill="%s"/>`+"\n",
		b.X, b.Y, b.W, b.H, codeFill)
	for i, dot := range []string{"#ef4444", "#f59e0b", "#22c55e"} {
		fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="5" fill="%s"/>`+"\n", b.X+pad+float64(i)*16, b.Y+pad, dot)
	}
	y := writeText(buf, b.X+b.W-pad, b.Y+pad+fs*0.2, []string{d.Label},
		textStyle{size: fs * 0.55, weight: 500, color: edgeColor, anchor: "end"})
	code := d.Description
	if code == "" {
		code = string(d.Value)
	}
	mono := "JetBrains Mono, Menlo, monospace"
	lines := max(int((b.Y+b.H-pad-y)/(fs*0.6*lineHeightRatio)), 1)
	writeCode(buf, b.X+pad, y+fs*0.6, code, fs*0.6, lines, mono)
}

// writeCode keeps the line structure of source text instead of reflowing it.
func writeCode(buf *bytes.Buffer, x, y float64, code string, size float64, maxLines int, family string) {
	lines := strings.Split(strings.TrimRight(code, "\n"), "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	writeText(buf, x, y, lines, textStyle{size: size, weight: 400, color: codeText, family: family})
}

func renderMarker(buf *bytes.Buffer, b Box) {
	d, c, fs := b.Node.Data, b.Colors, b.fontSize()
	cx := b.X + b.W/2
	r := b.Density.IconSize / 2
	fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="4"/>`+"\n",
		cx, b.Y+r, r, c.Fill, c.Accent)
	if d.Icon != "" {
		drawIcon(buf, d.Icon, cx-r*0.6, b.Y+r*0.4, r*1.2, c.Accent)
	}
	y := b.Y + 2*r + fs*1.2
	if d.Value != "" {
		y = writeText(buf, cx, y, []string{string(d.Value)}, textStyle{size: fs * 0.7, weight: 700, color: c.Accent, anchor: "middle"})
	}
	y = writeText(buf, cx, y, Wrap(d.Label, b.W, fs, 2), textStyle{size: fs, weight: 600, color: c.Text, anchor: "middle"})
	if d.Description != "" {
		writeText(buf, cx, y, Wrap(d.Description, b.W, fs*0.6, 3), textStyle{size: fs * 0.6, weight: 400, color: c.Muted, anchor: "middle"})
	}
}
