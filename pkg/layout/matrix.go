package layout

import (
	"context"

	"github.com/matzehuels/slidemotion/pkg/motion"
)

// quadrantStyles maps a matrix node index to its fixed quadrant.
var quadrantStyles = [4]struct {
	name    string
	variant motion.Variant
}{
	{"top-left", motion.VariantPositive},
	{"top-right", motion.VariantPrimary},
	{"bottom-left", motion.VariantWarning},
	{"bottom-right", motion.VariantNegative},
}

// layoutMatrix fills the four quadrants of the available area in index order.
// Missing nodes leave their quadrant empty.
func layoutMatrix(_ context.Context, _ *Engine, p *plan) error {
	nodes := p.graph.Nodes
	w := (p.avail.W - MatrixGap) / 2
	h := (p.avail.H - MatrixGap) / 2

	for i := range nodes {
		col, row := i%2, i/2
		nodes[i].Position = point(p.avail.X+float64(col)*(w+MatrixGap), p.avail.Y+float64(row)*(h+MatrixGap))
		nodes[i].NodeSize = size(w, h)

		style := quadrantStyles[i]
		variant := nodes[i].Data.Variant
		if variant == "" {
			variant = style.variant
		}
		p.result.Quadrants = append(p.result.Quadrants, Quadrant{
			Index:   i,
			Name:    style.name,
			NodeID:  nodes[i].ID,
			Variant: variant,
		})
	}
	p.result.Natural = motion.Size{Width: round2(p.avail.W), Height: round2(p.avail.H)}
	return nil
}
