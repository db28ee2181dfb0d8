package render

import "github.com/matzehuels/slidemotion/pkg/motion"

// Colors is the fill, stroke, accent and text color set of one variant.
type Colors struct {
	Fill   string
	Stroke string
	Accent string
	Text   string
	Muted  string
}

// Palette maps node variants to colors.
type Palette map[motion.Variant]Colors

// DefaultPalette is the built-in light palette.
var DefaultPalette = Palette{
	motion.VariantNeutral:   {Fill: "#ffffff", Stroke: "#d4d4d8", Accent: "#71717a", Text: "#18181b", Muted: "#52525b"},
	motion.VariantPrimary:   {Fill: "#eff6ff", Stroke: "#93c5fd", Accent: "#2563eb", Text: "#1e3a8a", Muted: "#1d4ed8"},
	motion.VariantSecondary: {Fill: "#f5f3ff", Stroke: "#c4b5fd", Accent: "#7c3aed", Text: "#3b0764", Muted: "#6d28d9"},
	motion.VariantAccent:    {Fill: "#fdf2f8", Stroke: "#f9a8d4", Accent: "#db2777", Text: "#831843", Muted: "#be185d"},
	motion.VariantPositive:  {Fill: "#f0fdf4", Stroke: "#86efac", Accent: "#16a34a", Text: "#14532d", Muted: "#15803d"},
	motion.VariantNegative:  {Fill: "#fef2f2", Stroke: "#fca5a5", Accent: "#dc2626", Text: "#7f1d1d", Muted: "#b91c1c"},
	motion.VariantWarning:   {Fill: "#fffbeb", Stroke: "#fcd34d", Accent: "#d97706", Text: "#78350f", Muted: "#b45309"},
}

// Of returns the colors of v, falling back to neutral.
func (p Palette) Of(v motion.Variant) Colors {
	if c, ok := p[v.OrNeutral()]; ok {
		return c
	}
	return DefaultPalette[motion.VariantNeutral]
}

// Frame colors.
const (
	backgroundColor = "#fafafa"
	edgeColor       = "#a1a1aa"
	edgeLabelColor  = "#52525b"
	codeFill        = "#18181b"
	codeText        = "#e4e4e7"
)
