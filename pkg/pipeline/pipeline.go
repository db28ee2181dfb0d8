// Package pipeline provides the core slide pipeline for slidemotion.
//
// This package implements the complete layout → timeline → frames pipeline
// shared by the CLI and the HTTP API. By centralizing this logic, both entry
// points produce the same layouts, timelines and frames for the same input.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Layout: Position the nodes of a motion graph for its archetype
//  2. Timeline: Resolve manual and auto timing links against the narration
//  3. Frames: Evaluate the animation and render frames as SVG or JSON
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Input{
//	    Graph:     g,
//	    Narration: "First we plan, then we build and ship.",
//	}, pipeline.Options{Format: pipeline.FormatSVG})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	first := result.Frames[0].Data
//
// Run individual stages:
//
//	// Layout only
//	res, err := runner.Layout(ctx, g, opts)
//
//	// Timeline for a positioned graph
//	tl, err := runner.Timeline(ctx, timing.Input{Tokens: tokens, Targets: timing.TargetsFromGraph(res.Graph)})
//
//	// Frames of a layout and timeline
//	frames, err := runner.Frames(ctx, res, tl, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidemotion/pkg/alignment"
	"github.com/matzehuels/slidemotion/pkg/animation"
	"github.com/matzehuels/slidemotion/pkg/cache"
	"github.com/matzehuels/slidemotion/pkg/errors"
	"github.com/matzehuels/slidemotion/pkg/layout"
	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/timing"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultEngine is the general layout backend.
	DefaultEngine = EngineGraphviz

	// DefaultFormat is the default frame format.
	DefaultFormat = FormatSVG

	// DefaultFrameStep renders every frame.
	DefaultFrameStep = 1

	// DefaultWorkers is the number of frames rendered in parallel.
	DefaultWorkers = 4

	// MaxFrames bounds a single frames request.
	MaxFrames = 10000
)

// Engine names for the general layout family.
const (
	EngineGraphviz = "graphviz"
	EngineLayered  = "layered"
)

// Format constants for frame output.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported frame formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// ValidEngines is the set of supported general layout engines.
var ValidEngines = map[string]bool{
	EngineGraphviz: true,
	EngineLayered:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the slide pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Margin      float64 `json:"margin,omitempty"`
	NodeSpacing float64 `json:"node_spacing,omitempty"`
	RankSpacing float64 `json:"rank_spacing,omitempty"`
	Mode        string  `json:"mode,omitempty"`   // auto or general
	Engine      string  `json:"engine,omitempty"` // graphviz or layered
	Strict      bool    `json:"strict,omitempty"` // fail on cardinality mismatches

	// Animation options
	FPS       int     `json:"fps,omitempty"`
	StaggerMs int64   `json:"stagger_ms,omitempty"`
	Damping   float64 `json:"damping,omitempty"`
	Mass      float64 `json:"mass,omitempty"`
	Stiffness float64 `json:"stiffness,omitempty"`

	// Frame options. FrameEnd 0 renders through the end of the animation.
	Format      string `json:"format,omitempty"`
	FrameStart  int    `json:"frame_start,omitempty"`
	FrameEnd    int    `json:"frame_end,omitempty"`
	FrameStep   int    `json:"frame_step,omitempty"`
	Title       bool   `json:"title,omitempty"`
	Transparent bool   `json:"transparent,omitempty"`
	Workers     int    `json:"-"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Input is the content of one slide.
type Input struct {
	Graph     motion.Graph         `json:"graph"`
	Narration string               `json:"narration,omitempty"`
	Alignment *alignment.Alignment `json:"alignment,omitempty"`
	Links     []timing.Link        `json:"links,omitempty"`
}

// Tokens returns the timed narration words of the slide.
func (in Input) Tokens() alignment.Tokens {
	return alignment.Tokenize(in.Alignment, in.Narration)
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the positioned graph.
	Layout layout.Result

	// LayoutHash is the content hash of the layout.
	LayoutHash string

	// Timeline is the resolved timing of the slide.
	Timeline timing.Timeline

	// Frames contains the rendered frames in frame order.
	Frames []Frame

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Frame is one rendered frame.
type Frame struct {
	Frame  int    `json:"frame"`
	TimeMs int64  `json:"time_ms"`
	Format string `json:"format"`
	Data   []byte `json:"data"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount      int
	EdgeCount      int
	EntryCount     int
	FrameCount     int
	DurationFrames int
	LayoutTime     time.Duration
	TimelineTime   time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit   bool // Whether the layout came from cache
	TimelineHit bool // Whether the timeline came from cache
	FrameHits   int  // Number of frames served from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json)", format)
	}
	return nil
}

// ValidateEngine checks that a layout engine name is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid engine: %q (must be one of: graphviz, layered)", engine)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = layout.DefaultViewportWidth
	}
	if o.Height == 0 {
		o.Height = layout.DefaultViewportHeight
	}
	if o.Margin == 0 {
		o.Margin = layout.DefaultMargin
	}
	if o.NodeSpacing == 0 {
		o.NodeSpacing = layout.DefaultNodeSpacing
	}
	if o.RankSpacing == 0 {
		o.RankSpacing = layout.DefaultRankSpacing
	}
	if o.Mode == "" {
		o.Mode = string(layout.ModeAuto)
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	lo := o.LayoutOptions()
	return lo.Validate()
}

// SetFrameDefaults sets default values for animation and rendering.
func (o *Options) SetFrameDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.FrameStep == 0 {
		o.FrameStep = DefaultFrameStep
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	cfg := o.AnimationConfig()
	o.FPS, o.StaggerMs = cfg.FPS, cfg.StaggerMs
	o.Damping, o.Mass, o.Stiffness = cfg.Spring.Damping, cfg.Spring.Mass, cfg.Spring.Stiffness
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForFrames validates and sets defaults for frame rendering.
func (o *Options) ValidateForFrames() error {
	o.SetFrameDefaults()
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.FrameStart < 0 || o.FrameEnd < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "frame range cannot be negative")
	}
	if o.FrameEnd > 0 && o.FrameEnd < o.FrameStart {
		return errors.New(errors.ErrCodeInvalidInput, "frame_end %d is before frame_start %d", o.FrameEnd, o.FrameStart)
	}
	if o.FrameStep < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "frame_step cannot be negative")
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers cannot be negative")
	}
	return o.AnimationConfig().Validate()
}

// LayoutOptions converts the options into layout engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Viewport:    motion.Size{Width: o.Width, Height: o.Height},
		Margin:      o.Margin,
		NodeSpacing: o.NodeSpacing,
		RankSpacing: o.RankSpacing,
		Strict:      o.Strict,
		Mode:        layout.Mode(o.Mode),
	}
}

// AnimationConfig converts the options into an evaluator configuration with
// defaults applied.
func (o *Options) AnimationConfig() animation.Config {
	cfg := animation.Config{
		FPS:       o.FPS,
		StaggerMs: o.StaggerMs,
		Spring: animation.Spring{
			Damping:   o.Damping,
			Mass:      o.Mass,
			Stiffness: o.Stiffness,
		},
	}
	cfg.SetDefaults()
	return cfg
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:       o.Width,
		Height:      o.Height,
		Margin:      o.Margin,
		NodeSpacing: o.NodeSpacing,
		RankSpacing: o.RankSpacing,
		Mode:        o.Mode,
		Engine:      o.Engine,
		Strict:      o.Strict,
	}
}

// FrameKeyOpts returns cache key options for one rendered frame.
func (o *Options) FrameKeyOpts(frame int) cache.FrameKeyOpts {
	return cache.FrameKeyOpts{
		Frame:     frame,
		FPS:       o.FPS,
		StaggerMs: o.StaggerMs,
		Damping:   o.Damping,
		Mass:      o.Mass,
		Stiffness: o.Stiffness,
		Format:    fmt.Sprintf("%s:title=%t:transparent=%t", o.Format, o.Title, o.Transparent),
	}
}

// FrameRange returns the frames to render for an animation of the given
// length. A zero step selects the first frame only.
func (o *Options) FrameRange(durationFrames int) []int {
	end := o.FrameEnd
	if end == 0 {
		end = durationFrames
	}
	if o.FrameStep == 0 {
		return []int{o.FrameStart}
	}
	var frames []int
	for f := o.FrameStart; f <= end && len(frames) < MaxFrames; f += o.FrameStep {
		frames = append(frames, f)
	}
	return frames
}
