// Package motion provides the MotionGraph document model and its serialization.
//
// A MotionGraph describes one abstract diagram on a narrated slide: an
// archetype (process, hierarchy, mindmap, …), an ordered list of nodes and a
// list of edges. The authoring UI produces these documents; the layout engine
// consumes them and returns a copy with every node's Position and NodeSize
// populated.
//
// # Core Types
//
//   - [Graph]: the document (id, archetype, nodes, edges, metadata)
//   - [Node], [NodeData]: a visual card and its text content
//   - [Edge]: a directed connection between two nodes
//   - [Point], [Size]: design-canvas geometry (1920×1080 logical units)
//
// # Serialization
//
// Graphs are read from JSON or YAML and written as indented JSON:
//
//	g, _ := motion.ReadFile("slide.yaml")  // File → Graph (format by extension)
//	data, _ := motion.Marshal(g)           // Graph → []byte
//	g, _ = motion.Unmarshal(data)          // []byte → Graph (JSON or YAML)
//
// # Validation
//
// [Validate] enforces the document invariants strictly (unique node ids, edges
// referencing existing nodes, known archetype). [Check] reports the same
// problems as a list of issues without failing, which is what the layout
// engine uses: a malformed edge is dropped, not fatal.
package motion
