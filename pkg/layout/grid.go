package layout

import (
	"context"

	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/sizing"
)

// GridColumns is the column count of grid layouts.
const GridColumns = 2

// GridShape returns the column and row counts for n cells.
func GridShape(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = min(GridColumns, n)
	rows = (n + GridColumns - 1) / GridColumns
	return cols, rows
}

// layoutGrid places nodes row-major in a two-column grid of equal cells,
// centered in the available area.
func layoutGrid(_ context.Context, _ *Engine, p *plan) error {
	nodes := p.graph.Nodes
	cols, rows := GridShape(len(nodes))
	card := sizing.NormalizeNodes(nodes)

	scale := DensityScale(p.avail.H, rows, BaseRowHeight+GridGap)
	density := densityAt(scale, GridGap)
	p.result.Density = density

	cellW := min((p.avail.W-density.Gap*float64(cols-1))/float64(cols), GridMaxCell)
	cellW = max(cellW, card.Width*scale)
	cellH := min((p.avail.H-density.Gap*float64(rows-1))/float64(rows), card.Height)

	totalW := float64(cols)*cellW + float64(cols-1)*density.Gap
	totalH := float64(rows)*cellH + float64(rows-1)*density.Gap
	left := p.avail.X + (p.avail.W-totalW)/2
	top := p.avail.Y + (p.avail.H-totalH)/2

	for i := range nodes {
		col, row := i%cols, i/cols
		nodes[i].Position = point(left+float64(col)*(cellW+density.Gap), top+float64(row)*(cellH+density.Gap))
		nodes[i].NodeSize = size(cellW, cellH)
	}

	p.result.Natural = motion.Size{Width: round2(totalW), Height: round2(totalH)}
	p.checkOverflow(totalW, totalH)
	return nil
}
