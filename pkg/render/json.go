package render

import (
	"encoding/json"

	"github.com/matzehuels/slidemotion/pkg/animation"
	"github.com/matzehuels/slidemotion/pkg/layout"
)

type jsonFrame struct {
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Family     layout.Family   `json:"family"`
	Frame      int             `json:"frame"`
	TimeMs     int64           `json:"time_ms"`
	Nodes      []jsonNode      `json:"nodes"`
	Edges      []jsonEdge      `json:"edges,omitempty"`
	Connectors []jsonConnector `json:"connectors,omitempty"`
}

type jsonNode struct {
	ID      string          `json:"id"`
	Kind    string          `json:"kind"`
	Label   string          `json:"label"`
	Variant string          `json:"variant"`
	Icon    string          `json:"icon,omitempty"`
	X       float64         `json:"x"`
	Y       float64         `json:"y"`
	Width   float64         `json:"width"`
	Height  float64         `json:"height"`
	DelayMs int64           `json:"delay_ms"`
	Style   animation.Style `json:"style"`
}

type jsonEdge struct {
	ID      string          `json:"id"`
	Source  string          `json:"source"`
	Target  string          `json:"target"`
	Label   string          `json:"label,omitempty"`
	X1      float64         `json:"x1"`
	Y1      float64         `json:"y1"`
	X2      float64         `json:"x2"`
	Y2      float64         `json:"y2"`
	DelayMs int64           `json:"delay_ms"`
	Style   animation.Style `json:"style"`
}

type jsonConnector struct {
	X1     float64         `json:"x1"`
	Y1     float64         `json:"y1"`
	X2     float64         `json:"x2"`
	Y2     float64         `json:"y2"`
	Return bool            `json:"return,omitempty"`
	Style  animation.Style `json:"style"`
}

// RenderJSON exports the state of every element at a frame in viewport
// coordinates, for renderers that draw frames themselves. A nil frame
// exports everything at rest.
func RenderJSON(res layout.Result, frame *animation.Frame) ([]byte, error) {
	r := svgRenderer{frame: frame}
	out := jsonFrame{
		Width:  res.Viewport.Width,
		Height: res.Viewport.Height,
		Family: res.Family,
		Nodes:  make([]jsonNode, 0, len(res.Graph.Nodes)),
	}
	if frame != nil {
		out.Frame, out.TimeMs = frame.Frame, frame.TimeMs
	}

	for i, n := range res.Graph.Nodes {
		x, y, w, h, ok := res.Bounds(n.ID)
		if !ok {
			continue
		}
		out.Nodes = append(out.Nodes, jsonNode{
			ID:      n.ID,
			Kind:    BoxKind(res, n),
			Label:   n.Data.Label,
			Variant: string(n.Data.Variant.OrNeutral()),
			Icon:    n.Data.Icon,
			X:       x, Y: y, Width: w, Height: h,
			DelayMs: delayOf(r.nodeStates(), n.ID),
			Style:   r.styleOf(r.nodeStates(), n.ID, i),
		})
	}
	for i, e := range res.Edges {
		from, to := res.Absolute(e.From), res.Absolute(e.To)
		out.Edges = append(out.Edges, jsonEdge{
			ID: e.ID, Source: e.Source, Target: e.Target, Label: e.Label,
			X1: from.X, Y1: from.Y, X2: to.X, Y2: to.Y,
			DelayMs: delayOf(r.edgeStates(), e.ID),
			Style:   r.styleOf(r.edgeStates(), e.ID, i),
		})
	}
	for i, c := range res.Connectors {
		from, to := res.Absolute(c.From), res.Absolute(c.To)
		out.Connectors = append(out.Connectors, jsonConnector{
			X1: from.X, Y1: from.Y, X2: to.X, Y2: to.Y,
			Return: c.Return,
			Style:  r.style(r.connectorStates(), i),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

func delayOf(states []animation.ElementState, id string) int64 {
	for _, s := range states {
		if s.ID == id {
			return s.DelayMs
		}
	}
	return 0
}
