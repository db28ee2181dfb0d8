package layout

import (
	"context"

	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/sizing"
)

// layoutFlow places all nodes in one row of equal cards separated by arrow
// slots. Cycles get one extra slot after the last card for the return arrow.
// Positions are row-local; the row is fitted by a single transform.
func layoutFlow(_ context.Context, _ *Engine, p *plan) error {
	nodes := p.graph.Nodes
	n := len(nodes)
	card := sizing.NormalizeNodes(nodes)

	slots := n - 1
	if p.graph.Archetype == motion.ArchetypeCycle {
		slots++
	}
	natural := motion.Size{
		Width:  float64(n)*card.Width + float64(slots)*ArrowSlot,
		Height: card.Height,
	}

	step := card.Width + ArrowSlot
	for i := range nodes {
		nodes[i].Position = point(float64(i)*step, 0)
		nodes[i].NodeSize = size(card.Width, card.Height)
	}

	mid := card.Height / 2
	for i := 0; i < n-1; i++ {
		x := float64(i)*step + card.Width
		p.result.Connectors = append(p.result.Connectors, Connector{
			From:   motion.Point{X: round2(x), Y: round2(mid)},
			To:     motion.Point{X: round2(x + ArrowSlot), Y: round2(mid)},
			Before: nodes[i].ID,
			After:  nodes[i+1].ID,
		})
	}
	if p.graph.Archetype == motion.ArchetypeCycle {
		x := float64(n-1)*step + card.Width
		p.result.Connectors = append(p.result.Connectors, Connector{
			From:   motion.Point{X: round2(x), Y: round2(mid)},
			To:     motion.Point{X: round2(x + ArrowSlot), Y: round2(mid)},
			Before: nodes[n-1].ID,
			After:  nodes[0].ID,
			Return: true,
		})
	}

	scale := FlowScale(natural, p.avail.W, p.avail.H)
	p.result.Natural = motion.Size{Width: round2(natural.Width), Height: round2(natural.Height)}
	p.result.Transform = Transform{
		Scale:      scale,
		TranslateX: round2((p.opts.Viewport.Width - natural.Width*scale) / 2),
		TranslateY: round2((p.opts.Viewport.Height - natural.Height*scale) / 2),
	}
	p.checkOverflow(natural.Width*scale, natural.Height*scale)
	return nil
}

// FlowScale returns the uniform scale that fits natural into the available
// width and height, never enlarging and never shrinking below MinFlowScale.
func FlowScale(natural motion.Size, availWidth, availHeight float64) float64 {
	scale := 1.0
	if natural.Width > 0 {
		scale = min(scale, availWidth/natural.Width)
	}
	if natural.Height > 0 {
		scale = min(scale, availHeight/natural.Height)
	}
	return max(scale, MinFlowScale)
}
