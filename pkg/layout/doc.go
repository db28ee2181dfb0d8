// Package layout assigns positions and sizes to the nodes of a MotionGraph.
//
// # Overview
//
// Each archetype maps to a layout [Family] through a lookup table, and each
// family has exactly one handler:
//
//   - [FamilyFlow] (process, cycle, timeline): one row of equal cards with
//     fixed arrow slots between them. The row is fitted into the viewport by
//     a single uniform [Transform], so node positions are row-local.
//   - [FamilyStack] (hierarchy, funnel, pyramid): rows stacked top to bottom.
//     Funnels narrow downward and pyramids narrow upward. A clamped density
//     factor scales gaps, padding, icons and fonts instead of geometry.
//   - [FamilyGrid] (grid, comparison, statistic): two columns, ceil(n/2)
//     rows, with the same clamped density factor.
//   - [FamilyRadial] (mindmap): the first node is the hub and the rest orbit
//     it on a fixed radius, shifted so the orbit extent is centered.
//   - [FamilyMatrix] (matrix): four quadrants assigned by node index.
//   - [FamilyGeneral] (everything else): delegated to a [GraphEngine] and
//     recentered in the viewport.
//
// Adding an archetype means adding one entry to the archetype table.
//
// # Graph Engines
//
// The general family needs a constraint-based layered layout. Two
// implementations of [GraphEngine] are provided: [GraphvizEngine] runs the
// Graphviz dot algorithm, [LayeredEngine] is a deterministic longest-path
// layering in pure Go. The engine is injected with [WithGraphEngine]; there
// is no package-level instance.
//
// # Usage
//
//	eng := layout.New(layout.WithGraphEngine(layout.NewGraphvizEngine()))
//	res, err := eng.Layout(ctx, g, layout.Options{})
//	for _, n := range res.Graph.Nodes {
//	    p := res.Absolute(*n.Position) // viewport coordinates
//	}
//
// # Soft Failures
//
// Malformed input never fails a layout. Edges that reference unknown nodes,
// duplicate node ids and cardinality mismatches are recorded as [Warning]
// values on the [Result]. Setting [Options.Strict] turns cardinality
// mismatches into INVALID_CARDINALITY errors.
package layout
