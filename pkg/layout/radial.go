package layout

import (
	"context"
	"math"

	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/sizing"
)

// OrbitAngle returns the angle of orbit node i of k, starting at twelve
// o'clock and going clockwise in screen coordinates.
func OrbitAngle(i, k int) float64 {
	return -math.Pi/2 + 2*math.Pi*float64(i)/float64(k)
}

// layoutRadial puts the first node at the hub and spreads the rest evenly on a
// circle of MindmapRadius. The whole figure is shifted vertically by the
// midpoint of the orbit nodes' y-extent, so odd orbit counts still look
// centered.
func layoutRadial(_ context.Context, _ *Engine, p *plan) error {
	nodes := p.graph.Nodes
	hub := sizing.Estimate(nodes[0].Data)
	orbit := nodes[1:]
	card := sizing.NormalizeNodes(orbit)
	k := len(orbit)

	// Orbit centers relative to the hub center.
	rel := make([]motion.Point, k)
	minY, maxY := -hub.Height/2, hub.Height/2
	if k > 0 {
		minY, maxY = math.Inf(1), math.Inf(-1)
	}
	for i := range orbit {
		a := OrbitAngle(i, k)
		rel[i] = motion.Point{X: MindmapRadius * math.Cos(a), Y: MindmapRadius * math.Sin(a)}
		minY = math.Min(minY, rel[i].Y-card.Height/2)
		maxY = math.Max(maxY, rel[i].Y+card.Height/2)
	}
	offset := -(minY + maxY) / 2

	c := p.avail.center()
	hubCenter := motion.Point{X: c.X, Y: c.Y + offset}
	nodes[0].Position = point(hubCenter.X-hub.Width/2, hubCenter.Y-hub.Height/2)
	nodes[0].NodeSize = size(hub.Width, hub.Height)
	for i := range orbit {
		cx, cy := hubCenter.X+rel[i].X, hubCenter.Y+rel[i].Y
		orbit[i].Position = point(cx-card.Width/2, cy-card.Height/2)
		orbit[i].NodeSize = size(card.Width, card.Height)
	}

	p.result.Radial = &Radial{
		Hub:     nodes[0].ID,
		Center:  motion.Point{X: round2(hubCenter.X), Y: round2(hubCenter.Y)},
		Radius:  MindmapRadius,
		OffsetY: round2(offset),
	}

	w := 2*MindmapRadius + card.Width
	if k <= 1 {
		w = math.Max(hub.Width, card.Width)
	}
	p.result.Natural = motion.Size{Width: round2(w), Height: round2(maxY - minY)}
	p.checkOverflow(w, maxY-minY)
	return nil
}
