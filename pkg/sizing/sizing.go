// Package sizing estimates node card sizes from their text content.
//
// There is no text-measurement pass: widths come from character counts with a
// per-field weight (titles are wider per character than body text) and
// heights from estimated wrapped-line counts plus fixed card chrome. All
// values are in design-canvas units (1920×1080).
//
// Sibling cards that must look uniform (a process row, a grid) share one
// size: [Normalize] takes the elementwise maximum of the individual estimates.
package sizing

import (
	"math"
	"unicode/utf8"

	"github.com/matzehuels/slidemotion/pkg/motion"
)

// Size bounds of an estimated card.
const (
	MinWidth  = 160.0
	MaxWidth  = 320.0
	MinHeight = 120.0
	MaxHeight = 400.0
)

// Per-character advance widths by field.
const (
	LabelCharWidth       = 13.0
	SubLabelCharWidth    = 9.0
	DescriptionCharWidth = 7.5
	ValueCharWidth       = 22.0
)

// Per-line heights by field.
const (
	LabelLineHeight       = 28.0
	SubLabelLineHeight    = 20.0
	DescriptionLineHeight = 18.0
	ValueLineHeight       = 44.0
)

// Card chrome.
const (
	Padding    = 24.0 // inner padding on every side
	AccentBar  = 6.0  // colored bar across the top edge
	IconBlock  = 48.0 // icon plus the gap below it
	FieldGap   = 4.0  // vertical gap between text fields
	contentMin = 1.0
)

type field struct {
	chars      int
	charWidth  float64
	lineHeight float64
}

func fields(d motion.NodeData) []field {
	all := []field{
		{utf8.RuneCountInString(string(d.Value)), ValueCharWidth, ValueLineHeight},
		{utf8.RuneCountInString(d.Label), LabelCharWidth, LabelLineHeight},
		{utf8.RuneCountInString(d.SubLabel), SubLabelCharWidth, SubLabelLineHeight},
		{utf8.RuneCountInString(d.Description), DescriptionCharWidth, DescriptionLineHeight},
	}
	out := all[:0]
	for _, f := range all {
		if f.chars > 0 {
			out = append(out, f)
		}
	}
	return out
}

// Estimate returns the card size for one node's text.
func Estimate(d motion.NodeData) motion.Size {
	fs := fields(d)

	textWidth := 0.0
	for _, f := range fs {
		textWidth = max(textWidth, float64(f.chars)*f.charWidth)
	}
	width := clamp(textWidth+2*Padding, MinWidth, MaxWidth)
	content := max(width-2*Padding, contentMin)

	height := 2*Padding + AccentBar + IconBlock
	for i, f := range fs {
		if i > 0 {
			height += FieldGap
		}
		height += float64(Lines(f.chars, content, f.charWidth)) * f.lineHeight
	}
	return motion.Size{Width: width, Height: clamp(height, MinHeight, MaxHeight)}
}

// Lines estimates how many lines chars characters wrap to in a column of
// the given width. Empty text has zero lines.
func Lines(chars int, width, charWidth float64) int {
	if chars <= 0 {
		return 0
	}
	perLine := max(int(math.Floor(width/charWidth)), 1)
	return (chars + perLine - 1) / perLine
}

// Normalize returns one shared size for a set of cards: the elementwise
// maximum of their independent estimates. An empty set yields the minimum
// card size.
func Normalize(data []motion.NodeData) motion.Size {
	out := motion.Size{Width: MinWidth, Height: MinHeight}
	for _, d := range data {
		out = out.Max(Estimate(d))
	}
	return out
}

// NormalizeNodes is Normalize over the data of nodes.
func NormalizeNodes(nodes []motion.Node) motion.Size {
	data := make([]motion.NodeData, len(nodes))
	for i, n := range nodes {
		data[i] = n.Data
	}
	return Normalize(data)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
