package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/slidemotion/pkg/layout"
)

const (
	arrowMarkerID = "arrow"
	edgeWidth     = 2.5
	returnLift    = 48.0
)

func renderArrowDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <defs>
    <marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse">
      <path d="M0 0L10 5L0 10z" fill="%s"/>
    </marker>
  </defs>
`, arrowMarkerID, edgeColor)
}

// renderEdge draws a straight edge with an arrowhead and its label at the
// midpoint. Animated edges are dashed.
func renderEdge(buf *bytes.Buffer, e layout.EdgePath) {
	dash := ""
	if e.Animated {
		dash = ` stroke-dasharray="8 6"`
	}
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"%s marker-end="url(#%s)"/>`+"\n",
		e.From.X, e.From.Y, e.To.X, e.To.Y, edgeColor, edgeWidth, dash, arrowMarkerID)
	if e.Label == "" {
		return
	}
	mx, my := (e.From.X+e.To.X)/2, (e.From.Y+e.To.Y)/2
	w := float64(len([]rune(e.Label)))*14*charWidthRatio + 16
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="22" rx="11" fill="%s"/>`+"\n",
		mx-w/2, my-11, w, backgroundColor)
	writeText(buf, mx, my+5, []string{e.Label}, textStyle{size: 14, weight: 500, color: edgeLabelColor, anchor: "middle"})
}

// renderConnector draws a flow arrow. The return arrow of a cycle is a dashed
// arc through the trailing slot.
func renderConnector(buf *bytes.Buffer, c layout.Connector) {
	if !c.Return {
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f" marker-end="url(#%s)"/>`+"\n",
			c.From.X, c.From.Y, c.To.X, c.To.Y, edgeColor, edgeWidth, arrowMarkerID)
		return
	}
	top := math.Min(c.From.Y, c.To.Y) - returnLift
	fmt.Fprintf(buf, `    <path d="M%.1f %.1f C%.1f %.1f %.1f %.1f %.1f %.1f" fill="none" stroke="%s" stroke-width="%.1f" stroke-dasharray="6 6" marker-end="url(#%s)"/>`+"\n",
		c.From.X, c.From.Y, c.From.X, top, c.To.X, top, c.To.X, c.To.Y, edgeColor, edgeWidth, arrowMarkerID)
}
