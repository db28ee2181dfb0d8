// Package render draws positioned motion graphs.
//
// # Overview
//
// [RenderSVG] turns a [layout.Result] into one self-contained SVG frame.
// Passed an evaluated [animation.Frame] via [WithFrame], every node, edge and
// flow connector is drawn with its animated opacity, scale and offset, so a
// video renderer can produce any frame independently:
//
//	ev, _ := animation.New(res, timeline, animation.Config{})
//	svg := render.RenderSVG(res, render.WithFrame(ev.Frame(45)))
//
// [RenderJSON] exports the same frame state as JSON in viewport coordinates
// for renderers that draw on their own.
//
// # Box Renderers
//
// Each archetype family has its own box renderer: cards for flows and free
// graphs, stat tiles, stack bands, matrix quadrants, the mindmap hub, code
// windows and timeline markers. [BoxKind] picks one from a lookup table.
//
// # Icons
//
// Icons come from a closed registry of line drawings. [Icon] resolves a
// name and falls back to [DefaultIcon] for unknown names.
//
// [layout.Result]: github.com/matzehuels/slidemotion/pkg/layout.Result
// [animation.Frame]: github.com/matzehuels/slidemotion/pkg/animation.Frame
package render
