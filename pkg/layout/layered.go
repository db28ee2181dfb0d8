package layout

import (
	"context"
	"sort"

	"github.com/matzehuels/slidemotion/pkg/motion"
)

// LayeredEngine is a deterministic layered layout in pure Go.
//
// Nodes are assigned to layers by longest path from the sources (after
// removing back edges found by depth-first search), ordered within each layer
// by the barycenter of their predecessors, and packed with the configured
// spacing. Each layer is centered on a shared axis.
type LayeredEngine struct{}

// Name implements GraphEngine.
func (LayeredEngine) Name() string { return "layered" }

// Layout implements GraphEngine.
func (LayeredEngine) Layout(ctx context.Context, in GraphInput) (GraphLayout, error) {
	if err := ctx.Err(); err != nil {
		return GraphLayout{}, err
	}
	n := len(in.Nodes)
	idx := make(map[string]int, n)
	for i, node := range in.Nodes {
		idx[node.ID] = i
	}

	children := make([][]int, n)
	for _, e := range in.Edges {
		s, ok1 := idx[e.Source]
		t, ok2 := idx[e.Target]
		if ok1 && ok2 && s != t {
			children[s] = append(children[s], t)
		}
	}
	children = breakCycles(children)
	layers := assignLayers(children)
	rows := orderLayers(layers, children)

	// Main axis runs along ranks, cross axis along nodes within a rank.
	along := func(s motion.Size) float64 { return s.Height }
	across := func(s motion.Size) float64 { return s.Width }
	if in.Direction == LeftToRight {
		along, across = across, along
	}

	centers := make(map[string]motion.Point, n)
	rankPos := 0.0
	for _, row := range rows {
		depth, breadth := 0.0, 0.0
		for j, i := range row {
			depth = max(depth, along(in.Nodes[i].Size))
			if j > 0 {
				breadth += in.NodeSpacing
			}
			breadth += across(in.Nodes[i].Size)
		}

		cursor := -breadth / 2
		for _, i := range row {
			w := across(in.Nodes[i].Size)
			main, cross := rankPos+depth/2, cursor+w/2
			if in.Direction == LeftToRight {
				centers[in.Nodes[i].ID] = motion.Point{X: main, Y: cross}
			} else {
				centers[in.Nodes[i].ID] = motion.Point{X: cross, Y: main}
			}
			cursor += w + in.NodeSpacing
		}
		rankPos += depth + in.RankSpacing
	}
	return GraphLayout{Centers: centers}, nil
}

// breakCycles removes back edges found by depth-first search in index order.
func breakCycles(children [][]int) [][]int {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(children))
	back := make(map[[2]int]bool)

	var dfs func(v int)
	dfs = func(v int) {
		color[v] = gray
		for _, c := range children[v] {
			switch color[c] {
			case white:
				dfs(c)
			case gray:
				back[[2]int{v, c}] = true
			}
		}
		color[v] = black
	}
	for v := range children {
		if color[v] == white {
			dfs(v)
		}
	}
	if len(back) == 0 {
		return children
	}

	out := make([][]int, len(children))
	for v, cs := range children {
		for _, c := range cs {
			if !back[[2]int{v, c}] {
				out[v] = append(out[v], c)
			}
		}
	}
	return out
}

// assignLayers places every node one layer below its deepest parent using
// Kahn's topological order. Sources sit on layer 0.
func assignLayers(children [][]int) []int {
	n := len(children)
	inDegree := make([]int, n)
	for _, cs := range children {
		for _, c := range cs {
			inDegree[c]++
		}
	}
	layer := make([]int, n)
	queue := make([]int, 0, n)
	for v := range n {
		if inDegree[v] == 0 {
			queue = append(queue, v)
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, c := range children[v] {
			layer[c] = max(layer[c], layer[v]+1)
			inDegree[c]--
			if inDegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	return layer
}

// orderLayers groups nodes by layer and sorts each layer by the barycenter of
// its parents' positions in the layer above, keeping input order for ties.
func orderLayers(layer []int, children [][]int) [][]int {
	depth := 0
	for _, l := range layer {
		depth = max(depth, l)
	}
	rows := make([][]int, depth+1)
	for v, l := range layer {
		rows[l] = append(rows[l], v)
	}

	parents := make([][]int, len(layer))
	for v, cs := range children {
		for _, c := range cs {
			parents[c] = append(parents[c], v)
		}
	}

	pos := make([]int, len(layer))
	for j, v := range rows[0] {
		pos[v] = j
	}
	for r := 1; r < len(rows); r++ {
		bary := make(map[int]float64, len(rows[r]))
		for j, v := range rows[r] {
			sum, cnt := 0.0, 0
			for _, par := range parents[v] {
				if layer[par] == r-1 {
					sum += float64(pos[par])
					cnt++
				}
			}
			if cnt == 0 {
				bary[v] = float64(j)
			} else {
				bary[v] = sum / float64(cnt)
			}
		}
		sort.SliceStable(rows[r], func(a, b int) bool {
			return bary[rows[r][a]] < bary[rows[r][b]]
		})
		for j, v := range rows[r] {
			pos[v] = j
		}
	}
	return rows
}
