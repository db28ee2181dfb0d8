package layout

import (
	"github.com/matzehuels/slidemotion/pkg/errors"
	"github.com/matzehuels/slidemotion/pkg/motion"
)

// =============================================================================
// Default Values - Single Source of Truth
// =============================================================================

// Canvas defaults.
const (
	DefaultViewportWidth  = 1920.0
	DefaultViewportHeight = 1080.0
	DefaultMargin         = 64.0
	DefaultNodeSpacing    = 48.0
	DefaultRankSpacing    = 96.0
)

// Flow family geometry.
const (
	ArrowSlot    = 64.0 // horizontal gap reserved for one connector arrow
	MinFlowScale = 0.35
)

// Stack and grid family geometry.
const (
	BaseRowHeight   = 120.0
	MinDensityScale = 0.6
	StackGap        = 24.0
	StackTaper      = 0.08 // width lost per row index in funnels and pyramids
	MinTaperFactor  = 0.3
	StackWidthRatio = 0.6 // widest stack row as a share of the available width
	GridGap         = 32.0
	GridMaxCell     = 720.0
)

// Density base values at scale 1.
const (
	BasePadding  = 24.0
	BaseIconSize = 40.0
	BaseFontSize = 24.0
)

// Radial family geometry.
const MindmapRadius = 340.0

// Matrix family geometry.
const MatrixGap = 24.0

// Mode selects how archetypes are dispatched.
type Mode string

const (
	// ModeAuto uses the archetype's own family.
	ModeAuto Mode = "auto"
	// ModeGeneral routes every archetype through the graph engine.
	ModeGeneral Mode = "general"
)

// Options configures a single layout pass.
type Options struct {
	// Viewport is the target canvas. Defaults to 1920×1080; live previews pass
	// the observed container size.
	Viewport motion.Size `json:"viewport"`

	// Margin is kept free on every side of the viewport.
	Margin float64 `json:"margin"`

	// NodeSpacing and RankSpacing configure the general graph layout.
	NodeSpacing float64 `json:"node_spacing"`
	RankSpacing float64 `json:"rank_spacing"`

	// Strict makes cardinality mismatches fail instead of degrading.
	Strict bool `json:"strict,omitempty"`

	// Mode selects archetype dispatch. Defaults to ModeAuto.
	Mode Mode `json:"mode,omitempty"`
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Viewport.Width <= 0 {
		o.Viewport.Width = DefaultViewportWidth
	}
	if o.Viewport.Height <= 0 {
		o.Viewport.Height = DefaultViewportHeight
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.NodeSpacing <= 0 {
		o.NodeSpacing = DefaultNodeSpacing
	}
	if o.RankSpacing <= 0 {
		o.RankSpacing = DefaultRankSpacing
	}
	if o.Mode == "" {
		o.Mode = ModeAuto
	}
}

// Validate checks option consistency. Call after SetDefaults.
func (o *Options) Validate() error {
	if 2*o.Margin >= o.Viewport.Width || 2*o.Margin >= o.Viewport.Height {
		return errors.New(errors.ErrCodeInvalidInput, "margin %g leaves no room in a %gx%g viewport",
			o.Margin, o.Viewport.Width, o.Viewport.Height)
	}
	switch o.Mode {
	case ModeAuto, ModeGeneral:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid layout mode: %q", o.Mode)
	}
	return nil
}

// available returns the usable area inside the margins.
func (o *Options) available() rect {
	return rect{
		X: o.Margin,
		Y: o.Margin,
		W: o.Viewport.Width - 2*o.Margin,
		H: o.Viewport.Height - 2*o.Margin,
	}
}
