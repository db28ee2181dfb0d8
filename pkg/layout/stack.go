package layout

import (
	"context"
	"math"

	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/sizing"
)

// DensityScale is the content scale for n rows of baseRow height in avail
// height, clamped to [MinDensityScale, 1].
func DensityScale(avail float64, n int, baseRow float64) float64 {
	if n <= 0 {
		return 1
	}
	return clamp(avail/(float64(n)*baseRow), MinDensityScale, 1)
}

// TaperFactor returns the width factor of row i out of n. Funnels narrow
// downward, pyramids narrow upward, every other archetype keeps full width.
func TaperFactor(a motion.Archetype, i, n int) float64 {
	var steps int
	switch a {
	case motion.ArchetypeFunnel:
		steps = i
	case motion.ArchetypePyramid:
		steps = n - 1 - i
	default:
		return 1
	}
	return math.Max(1-StackTaper*float64(steps), MinTaperFactor)
}

// minRowHeight keeps very long stacks from collapsing; they overflow instead.
const minRowHeight = 32.0

// layoutStack stacks nodes top to bottom in rows of equal height. Geometry is
// not transformed; the density scale shrinks gaps, padding, icons and fonts.
func layoutStack(_ context.Context, _ *Engine, p *plan) error {
	nodes := p.graph.Nodes
	n := len(nodes)
	card := sizing.NormalizeNodes(nodes)

	scale := DensityScale(p.avail.H, n, BaseRowHeight)
	density := densityAt(scale, StackGap)
	p.result.Density = density

	rowHeight := min(BaseRowHeight*scale, (p.avail.H-density.Gap*float64(n-1))/float64(n))
	rowHeight = max(rowHeight, minRowHeight)
	baseWidth := clamp(p.avail.W*StackWidthRatio, card.Width, p.avail.W)

	total := float64(n)*rowHeight + float64(n-1)*density.Gap
	top := p.avail.Y + (p.avail.H-total)/2
	cx := p.avail.center().X

	for i := range nodes {
		w := baseWidth * TaperFactor(p.graph.Archetype, i, n)
		y := top + float64(i)*(rowHeight+density.Gap)
		nodes[i].Position = point(cx-w/2, y)
		nodes[i].NodeSize = size(w, rowHeight)
	}

	p.result.Natural = motion.Size{Width: round2(baseWidth), Height: round2(total)}
	p.checkOverflow(baseWidth, total)
	return nil
}
